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
	"github.com/google/uuid"
)

// unitService manages the organizational tree.
type unitService struct {
	BaseService
	units portsrepo.UnitRepositoryFacade
	users portsrepo.UserReader
	scope portssvc.ScopeSvcFacade
}

// NewUnitService creates the unit service.
func NewUnitService(units portsrepo.UnitRepositoryFacade, users portsrepo.UserReader, scope portssvc.ScopeSvcFacade) portssvc.UnitSvcFacade {
	return &unitService{
		BaseService: newBaseService(),
		units:       units,
		users:       users,
		scope:       scope,
	}
}

var _ portssvc.UnitSvcFacade = (*unitService)(nil)

func (s *unitService) GetUnit(ctx context.Context, unitID string) (*portssvc.UnitWithPath, error) {
	tree, err := s.scope.LoadTree(ctx)
	if err != nil {
		return nil, err
	}
	u, ok := tree.Unit(unitID)
	if !ok {
		return nil, fmt.Errorf("%w: unit %s", apperrors.ErrNotFound, unitID)
	}
	ancestors, err := tree.Ancestors(unitID)
	if err != nil {
		s.LogError(ctx, err, "Unit hierarchy is corrupt", slog.String("unit_id", unitID))
		return nil, err
	}
	return &portssvc.UnitWithPath{Unit: u, Ancestors: ancestors}, nil
}

func (s *unitService) ListUnitsByParent(ctx context.Context, parentID *string, unitType *domain.UnitType) ([]domain.Unit, error) {
	if unitType != nil && !unitType.IsValid() {
		return nil, fmt.Errorf("%w: unknown unit type %q", apperrors.ErrValidation, *unitType)
	}
	tree, err := s.scope.LoadTree(ctx)
	if err != nil {
		return nil, err
	}
	var units []domain.Unit
	if parentID == nil {
		units = tree.Roots()
	} else {
		if _, ok := tree.Unit(*parentID); !ok {
			return nil, fmt.Errorf("%w: unit %s", apperrors.ErrNotFound, *parentID)
		}
		units = tree.Children(*parentID)
	}
	if unitType == nil {
		return units, nil
	}
	out := make([]domain.Unit, 0, len(units))
	for _, u := range units {
		if u.UnitType == *unitType {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *unitService) ListUnitMembers(ctx context.Context, caller domain.Caller, unitID string) ([]domain.UserWithProfile, error) {
	if !caller.CanManage() {
		return nil, apperrors.ErrForbidden
	}
	if _, err := s.units.FindUnitByID(ctx, unitID); err != nil {
		return nil, err
	}
	visible, err := s.scope.VisibleUsers(ctx, caller)
	if err != nil {
		return nil, err
	}
	approved, err := s.users.ListApprovedUsers(ctx, nilIfAll(visible))
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserWithProfile, 0)
	for _, u := range approved {
		if id := u.UnitID(); id != nil && *id == unitID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *unitService) CreateUnit(ctx context.Context, caller domain.Caller, req dto.CreateUnitRequest) (*domain.Unit, error) {
	if !caller.IsUnrestricted() {
		return nil, apperrors.ErrForbidden
	}
	unitType := domain.UnitType(req.UnitType)
	if !unitType.IsValid() {
		return nil, fmt.Errorf("%w: unknown unit type %q", apperrors.ErrValidation, req.UnitType)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if req.ParentID != nil {
		if _, err := s.units.FindUnitByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent unit not found", apperrors.ErrValidation)
			}
			return nil, err
		}
	}
	now := s.clock()
	unit := domain.Unit{
		UnitID:      uuid.NewString(),
		Name:        name,
		NameHe:      strings.TrimSpace(req.NameHe),
		ParentID:    req.ParentID,
		UnitType:    unitType,
		Code:        req.Code,
		OrderNumber: req.OrderNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.units.SaveUnit(ctx, unit); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Unit created", slog.String("unit_id", unit.UnitID), slog.String("created_by", caller.UserID))
	return &unit, nil
}

func (s *unitService) UpdateUnit(ctx context.Context, caller domain.Caller, unitID string, req dto.UpdateUnitRequest) (*domain.Unit, error) {
	if !caller.IsUnrestricted() {
		return nil, apperrors.ErrForbidden
	}
	tree, err := s.scope.LoadTree(ctx)
	if err != nil {
		return nil, err
	}
	unit, ok := tree.Unit(unitID)
	if !ok {
		return nil, fmt.Errorf("%w: unit %s", apperrors.ErrNotFound, unitID)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
		}
		unit.Name = name
	}
	if req.NameHe != nil {
		unit.NameHe = strings.TrimSpace(*req.NameHe)
	}
	if req.UnitType != nil {
		t := domain.UnitType(*req.UnitType)
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: unknown unit type %q", apperrors.ErrValidation, *req.UnitType)
		}
		unit.UnitType = t
	}
	if req.OrderNumber != nil {
		unit.OrderNumber = *req.OrderNumber
	}
	switch {
	case req.MakeRoot:
		unit.ParentID = nil
	case req.ParentID != nil:
		if _, ok := tree.Unit(*req.ParentID); !ok {
			return nil, fmt.Errorf("%w: parent unit not found", apperrors.ErrValidation)
		}
		if tree.WouldCreateCycle(unitID, *req.ParentID) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, apperrors.ErrCycleDetected)
		}
		parentID := *req.ParentID
		unit.ParentID = &parentID
	}
	unit.UpdatedAt = s.clock()

	if err := s.units.UpdateUnit(ctx, unit); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Unit updated", slog.String("unit_id", unitID), slog.String("updated_by", caller.UserID))
	return &unit, nil
}

func (s *unitService) DeleteUnit(ctx context.Context, caller domain.Caller, unitID string) error {
	if !caller.IsUnrestricted() {
		return apperrors.ErrForbidden
	}
	if err := s.units.DeleteUnit(ctx, unitID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Unit deleted with descendants", slog.String("unit_id", unitID), slog.String("deleted_by", caller.UserID))
	return nil
}

// nilIfAll converts a scope into the repository convention where nil means unrestricted.
func nilIfAll(v domain.VisibleUsers) []string {
	if v.IsAll() {
		return nil
	}
	return append([]string{}, v.IDs()...)
}

// locationService lists reference locations.
type locationService struct {
	locations portsrepo.LocationRepositoryFacade
}

// NewLocationService creates the location service.
func NewLocationService(locations portsrepo.LocationRepositoryFacade) portssvc.LocationSvcFacade {
	return &locationService{locations: locations}
}

func (s *locationService) ListLocations(ctx context.Context, query domain.LocationQuery) ([]domain.Location, error) {
	query.Search = strings.TrimSpace(query.Search)
	return s.locations.ListLocations(ctx, query)
}
