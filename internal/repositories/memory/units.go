package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

func (s *Store) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.units[unitID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (s *Store) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Unit, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, u)
	}
	sortUnits(out)
	return out, nil
}

func (s *Store) SaveUnit(ctx context.Context, unit domain.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.units[unit.UnitID]; exists {
		return apperrors.ErrDuplicate
	}
	if err := s.checkUnitLocked(unit); err != nil {
		return err
	}
	s.units[unit.UnitID] = unit
	return nil
}

func (s *Store) UpdateUnit(ctx context.Context, unit domain.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.units[unit.UnitID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := s.checkUnitLocked(unit); err != nil {
		return err
	}
	unit.CreatedAt = old.CreatedAt
	s.units[unit.UnitID] = unit
	return nil
}

// checkUnitLocked enforces a known parent and a unique code.
func (s *Store) checkUnitLocked(unit domain.Unit) error {
	if unit.ParentID != nil {
		if _, ok := s.units[*unit.ParentID]; !ok {
			return fmt.Errorf("%w: parent unit %s", apperrors.ErrValidation, *unit.ParentID)
		}
	}
	if unit.Code == nil {
		return nil
	}
	for id, other := range s.units {
		if id != unit.UnitID && other.Code != nil && strings.EqualFold(*other.Code, *unit.Code) {
			return fmt.Errorf("%w: unit code %s", apperrors.ErrDuplicate, *unit.Code)
		}
	}
	return nil
}

func (s *Store) DeleteUnit(ctx context.Context, unitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[unitID]; !ok {
		return apperrors.ErrNotFound
	}
	units := make([]domain.Unit, 0, len(s.units))
	for _, u := range s.units {
		units = append(units, u)
	}
	tree := domain.NewUnitTree(units)
	for _, id := range tree.SubtreeIDs(unitID) {
		delete(s.units, id)
	}
	for userID, p := range s.profiles {
		if p.UnitID == nil {
			continue
		}
		if _, ok := s.units[*p.UnitID]; !ok {
			p.UnitID = nil
			s.profiles[userID] = p
		}
	}
	return nil
}

func (s *Store) FindLocationByID(ctx context.Context, locationID string) (*domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.locations[locationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &l, nil
}

func (s *Store) ListLocations(ctx context.Context, query domain.LocationQuery) ([]domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(query.Search)
	out := make([]domain.Location, 0)
	for _, l := range s.locations {
		if query.LocationType != "" && l.LocationType != query.LocationType {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(l.Name), search) && !strings.Contains(strings.ToLower(l.NameHe), search) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
