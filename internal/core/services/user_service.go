package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// userService implements UserSvcFacade.
type userService struct {
	BaseService
	users     portsrepo.UserRepositoryFacade
	profiles  portsrepo.ProfileRepositoryFacade
	units     portsrepo.UnitReader
	locations portsrepo.LocationRepositoryFacade
	scope     portssvc.ScopeSvcFacade
	validate  *validator.Validate
}

// NewUserService creates a new UserService.
func NewUserService(repos portsrepo.RepositoryProvider, scope portssvc.ScopeSvcFacade) portssvc.UserSvcFacade {
	v := validator.New()
	// DTOs are tagged for gin binding; reuse the same rules here.
	v.SetTagName("binding")
	return &userService{
		BaseService: newBaseService(),
		users:       repos.UserRepo,
		profiles:    repos.ProfileRepo,
		units:       repos.UnitRepo,
		locations:   repos.LocationRepo,
		scope:       scope,
		validate:    v,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*portssvc.RegistrationResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	role := domain.RoleUser
	if req.Role != "" {
		role = domain.Role(req.Role)
		if !role.IsValid() || role.IsUnrestricted() {
			return nil, fmt.Errorf("%w: role %q cannot be requested", apperrors.ErrValidation, req.Role)
		}
	}
	if req.UnitID != nil {
		if _, err := s.units.FindUnitByID(ctx, *req.UnitID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: unit not found", apperrors.ErrValidation)
			}
			return nil, err
		}
	}
	if req.CityID != nil {
		if _, err := s.locations.FindLocationByID(ctx, *req.CityID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: city not found", apperrors.ErrValidation)
			}
			return nil, err
		}
	}

	now := s.clock()
	user := domain.User{
		UserID:    uuid.NewString(),
		Email:     req.Email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = &hash
	}
	profile := domain.Profile{
		UserID:       user.UserID,
		UnitID:       req.UnitID,
		Role:         role,
		ServiceType:  req.ServiceType,
		Address:      req.Address,
		CityID:       req.CityID,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	request := domain.AccessRequest{
		AccessRequestID: uuid.NewString(),
		UserID:          user.UserID,
		Status:          domain.AccessRequestPending,
		SubmittedAt:     now,
	}

	if err := s.users.CreateRegistration(ctx, user, profile, request); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to create registration", slog.String("email", user.Email))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID), slog.String("access_request_id", request.AccessRequestID))
	return &portssvc.RegistrationResult{
		UserID:          user.UserID,
		AccessRequestID: request.AccessRequestID,
		Status:          request.Status,
	}, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	invalid := fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, invalid
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is inactive", apperrors.ErrUnauthorized)
	}
	if !user.IsApproved {
		return nil, apperrors.ErrNotApproved
	}
	return user, nil
}

func (s *userService) GetUserWithProfile(ctx context.Context, userID string) (*domain.UserWithProfile, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.FindProfileByUserID(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &domain.UserWithProfile{User: *user, Profile: profile}, nil
}

func (s *userService) ListApprovedUsers(ctx context.Context, caller domain.Caller) ([]domain.UserWithProfile, error) {
	if !caller.CanManage() {
		return nil, apperrors.ErrForbidden
	}
	visible, err := s.scope.VisibleUsers(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.users.ListApprovedUsers(ctx, nilIfAll(visible))
}

func (s *userService) UpdatePermissions(ctx context.Context, caller domain.Caller, userID string, req dto.UpdatePermissionsRequest) (*domain.UserWithProfile, error) {
	if !caller.CanManage() {
		return nil, apperrors.ErrForbidden
	}
	if userID == caller.UserID && !caller.IsUnrestricted() {
		return nil, fmt.Errorf("%w: cannot change your own permissions", apperrors.ErrForbidden)
	}
	target, err := s.GetUserWithProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	visible, err := s.scope.VisibleUsers(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !visible.Contains(userID) {
		return nil, fmt.Errorf("%w: user is outside your scope", apperrors.ErrForbidden)
	}

	now := s.clock()
	profile := domain.Profile{UserID: userID, Role: domain.RoleUser, CreatedAt: now}
	if target.Profile != nil {
		profile = *target.Profile
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !role.IsValid() {
			return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, *req.Role)
		}
		if !caller.CanGrant(role) {
			return nil, fmt.Errorf("%w: cannot grant role %s", apperrors.ErrForbidden, role)
		}
		profile.Role = role
	}
	switch {
	case req.ClearUnit:
		profile.UnitID = nil
	case req.UnitID != nil:
		if err := checkUnitAssignable(ctx, s.units, s.scope, caller, *req.UnitID); err != nil {
			return nil, err
		}
		unitID := *req.UnitID
		profile.UnitID = &unitID
	}
	profile.UpdatedAt = now

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	s.LogInfo(ctx, "User permissions updated",
		slog.String("user_id", userID),
		slog.String("role", string(profile.Role)),
		slog.String("updated_by", caller.UserID),
	)
	target.Profile = &profile
	return target, nil
}

func (s *userService) Promote(ctx context.Context, email string, role domain.Role, staff bool) (*domain.UserWithProfile, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	target, err := s.GetUserWithProfile(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	target.IsApproved = true
	target.IsActive = true
	target.IsStaff = target.IsStaff || staff
	target.UpdatedAt = now
	if err := s.users.UpdateUser(ctx, target.User); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	profile := domain.Profile{UserID: target.UserID, CreatedAt: now}
	if target.Profile != nil {
		profile = *target.Profile
	}
	profile.Role = role
	profile.UpdatedAt = now
	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	target.Profile = &profile
	s.LogInfo(ctx, "User promoted", slog.String("user_id", target.UserID), slog.String("role", string(role)), slog.Bool("staff", target.IsStaff))
	return target, nil
}
