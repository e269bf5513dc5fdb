package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
)

// scopeService loads callers and resolves RoleScope against the current
// tree and profile placement.
type scopeService struct {
	BaseService
	userRepo    portsrepo.UserReader
	profileRepo portsrepo.ProfileRepositoryFacade
	unitRepo    portsrepo.UnitReader
}

// NewScopeService creates a new ScopeService.
func NewScopeService(userRepo portsrepo.UserReader, profileRepo portsrepo.ProfileRepositoryFacade, unitRepo portsrepo.UnitReader) portssvc.ScopeSvcFacade {
	return &scopeService{
		BaseService: newBaseService(),
		userRepo:    userRepo,
		profileRepo: profileRepo,
		unitRepo:    unitRepo,
	}
}

var _ portssvc.ScopeSvcFacade = (*scopeService)(nil)

func (s *scopeService) LoadCaller(ctx context.Context, userID string) (*domain.Caller, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load caller: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is inactive", apperrors.ErrUnauthorized)
	}
	profile, err := s.profileRepo.FindProfileByUserID(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load caller profile: %w", err)
	}
	caller := domain.NewCaller(domain.UserWithProfile{User: *user, Profile: profile})
	return &caller, nil
}

func (s *scopeService) LoadTree(ctx context.Context) (*domain.UnitTree, error) {
	units, err := s.unitRepo.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}
	return domain.NewUnitTree(units), nil
}

func (s *scopeService) VisibleUsers(ctx context.Context, caller domain.Caller) (domain.VisibleUsers, error) {
	if caller.IsUnrestricted() {
		return domain.AllUsers(), nil
	}
	tree, err := s.LoadTree(ctx)
	if err != nil {
		return domain.VisibleUsers{}, err
	}
	scope := domain.ResolveUnitScope(caller, tree)
	if scope.Kind != domain.ScopeUnits {
		return domain.ResolveVisibleUserIDs(caller, tree, nil), nil
	}
	profiles, err := s.profileRepo.ListProfilesByUnitIDs(ctx, scope.UnitIDs)
	if err != nil {
		return domain.VisibleUsers{}, fmt.Errorf("failed to load unit members: %w", err)
	}
	visible := domain.ResolveVisibleUserIDs(caller, tree, profiles)
	s.LogDebug(ctx, "Resolved caller scope",
		slog.String("user_id", caller.UserID),
		slog.String("role", string(caller.Role)),
		slog.Int("units", len(scope.UnitIDs)),
		slog.Int("users", visible.Len()),
	)
	return visible, nil
}

func (s *scopeService) SubtreeMembers(ctx context.Context, unitID string) (domain.VisibleUsers, error) {
	tree, err := s.LoadTree(ctx)
	if err != nil {
		return domain.VisibleUsers{}, err
	}
	unitIDs := tree.SubtreeIDs(unitID)
	if len(unitIDs) == 0 {
		return domain.VisibleUsers{}, fmt.Errorf("%w: unit %s", apperrors.ErrNotFound, unitID)
	}
	profiles, err := s.profileRepo.ListProfilesByUnitIDs(ctx, unitIDs)
	if err != nil {
		return domain.VisibleUsers{}, fmt.Errorf("failed to load unit members: %w", err)
	}
	return domain.NewVisibleUsers(domain.MembersOf(unitIDs, profiles)...), nil
}
