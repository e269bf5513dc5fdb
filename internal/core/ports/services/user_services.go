package services

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/SscSPs/unit_availability_app/internal/dto"
)

// RegistrationResult is returned to a newly registered user.
type RegistrationResult struct {
	UserID          string
	AccessRequestID string
	Status          domain.AccessRequestStatus
}

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserWithProfile retrieves a user and its profile.
	GetUserWithProfile(ctx context.Context, userID string) (*domain.UserWithProfile, error)

	// ListApprovedUsers returns the approved users the caller may see.
	ListApprovedUsers(ctx context.Context, caller domain.Caller) ([]domain.UserWithProfile, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// Register creates a pending user, its profile and its access request.
	Register(ctx context.Context, req dto.RegisterRequest) (*RegistrationResult, error)

	// UpdatePermissions changes role and unit of a user inside the caller's scope.
	UpdatePermissions(ctx context.Context, caller domain.Caller, userID string, req dto.UpdatePermissionsRequest) (*domain.UserWithProfile, error)

	// Promote grants a role (and optionally staff) to the user with email,
	// approving the account. It is an operator action with no caller.
	Promote(ctx context.Context, email string, role domain.Role, staff bool) (*domain.UserWithProfile, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
