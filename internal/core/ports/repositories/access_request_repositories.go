package repositories

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// AccessRequestQuery selects access requests for listing.
type AccessRequestQuery struct {
	Status *domain.AccessRequestStatus
	// UserIDs restricts the owners; nil means unrestricted.
	UserIDs []string
	// IncludeUnassignedPending additionally matches pending requests whose
	// owner has no unit, regardless of UserIDs.
	IncludeUnassignedPending bool
}

// AccessRequestReader defines read operations for access requests
type AccessRequestReader interface {
	// FindAccessRequestByID retrieves a request by ID.
	FindAccessRequestByID(ctx context.Context, requestID string) (*domain.AccessRequest, error)

	// ListAccessRequests returns matching requests, newest first.
	ListAccessRequests(ctx context.Context, query AccessRequestQuery) ([]domain.AccessRequestDetails, error)
}

// AccessRequestWriter defines the workflow transition of access requests
type AccessRequestWriter interface {
	// DecideAccessRequest moves a pending request to decision.Status as a single
	// compare-and-set. On approval the user is marked approved and decision.User
	// and decision.Profile are written in the same transaction.
	// A request that is no longer pending yields the error of
	// domain.AccessRequest.CheckTransition and nothing is written.
	DecideAccessRequest(ctx context.Context, decision domain.AccessRequestDecision) (*domain.AccessRequest, error)
}

// AccessRequestRepositoryFacade combines all access request repository interfaces
type AccessRequestRepositoryFacade interface {
	AccessRequestReader
	AccessRequestWriter
}
