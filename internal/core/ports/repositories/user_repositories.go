package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by e-mail, case-insensitively.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListApprovedUsers returns approved users joined with their profiles.
	// A nil userIDs slice means no restriction; an empty one matches nothing.
	ListApprovedUsers(ctx context.Context, userIDs []string) ([]domain.UserWithProfile, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores the hash and expiry of the user's current refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry time.Time) error

	// ClearRefreshToken removes the stored refresh token.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserRegistrar creates the records belonging to a new registration.
type UserRegistrar interface {
	// CreateRegistration inserts user, profile and pending access request atomically.
	// A taken e-mail yields apperrors.ErrDuplicate.
	CreateRegistration(ctx context.Context, user domain.User, profile domain.Profile, request domain.AccessRequest) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserRegistrar
}

// ProfileRepositoryFacade reads and writes profiles.
type ProfileRepositoryFacade interface {
	// FindProfileByUserID retrieves the profile of a user.
	FindProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error)

	// ListProfiles returns every profile. It backs the user half of RoleScope.
	ListProfiles(ctx context.Context) ([]domain.Profile, error)

	// ListProfilesByUnitIDs returns the profiles placed in any of unitIDs.
	ListProfilesByUnitIDs(ctx context.Context, unitIDs []string) ([]domain.Profile, error)

	// SaveProfile inserts or replaces the profile of profile.UserID.
	SaveProfile(ctx context.Context, profile domain.Profile) error
}
