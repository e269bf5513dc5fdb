package repositories

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// UnitReader defines read operations for units
type UnitReader interface {
	// FindUnitByID retrieves a unit by ID.
	FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)

	// ListUnits returns every unit ordered by order number, then name.
	ListUnits(ctx context.Context) ([]domain.Unit, error)
}

// UnitWriter defines write operations for units
type UnitWriter interface {
	// SaveUnit persists a new unit.
	SaveUnit(ctx context.Context, unit domain.Unit) error

	// UpdateUnit updates name, parent, type and ordering of a unit.
	UpdateUnit(ctx context.Context, unit domain.Unit) error

	// DeleteUnit removes a unit and, recursively, its children.
	// Profiles placed in removed units lose their unit.
	DeleteUnit(ctx context.Context, unitID string) error
}

// UnitRepositoryFacade combines all unit-related repository interfaces
type UnitRepositoryFacade interface {
	UnitReader
	UnitWriter
}

// LocationRepositoryFacade reads reference locations.
type LocationRepositoryFacade interface {
	// FindLocationByID retrieves a location by ID.
	FindLocationByID(ctx context.Context, locationID string) (*domain.Location, error)

	// ListLocations returns locations matching the query ordered by name.
	ListLocations(ctx context.Context, query domain.LocationQuery) ([]domain.Location, error)
}
