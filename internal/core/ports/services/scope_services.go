package services

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// ScopeSvcFacade resolves who a caller is and what they may see.
type ScopeSvcFacade interface {
	// LoadCaller reads the user and profile behind an authenticated user ID.
	// Unknown or inactive users yield apperrors.ErrUnauthorized.
	LoadCaller(ctx context.Context, userID string) (*domain.Caller, error)

	// LoadTree snapshots the organizational tree.
	LoadTree(ctx context.Context) (*domain.UnitTree, error)

	// VisibleUsers resolves the set of user IDs the caller may see.
	VisibleUsers(ctx context.Context, caller domain.Caller) (domain.VisibleUsers, error)

	// SubtreeMembers returns the users placed in unitID or any of its descendants.
	SubtreeMembers(ctx context.Context, unitID string) (domain.VisibleUsers, error)
}
