package services

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/SscSPs/unit_availability_app/internal/dto"
)

// UnitWithPath is a unit together with its ancestors, nearest first.
type UnitWithPath struct {
	Unit      domain.Unit
	Ancestors []domain.Unit
}

// UnitReaderSvc defines read operations for units
type UnitReaderSvc interface {
	// GetUnit retrieves a unit with its ancestor path.
	GetUnit(ctx context.Context, unitID string) (*UnitWithPath, error)

	// ListUnitsByParent lists the children of parentID (roots when nil),
	// optionally restricted to a unit type.
	ListUnitsByParent(ctx context.Context, parentID *string, unitType *domain.UnitType) ([]domain.Unit, error)

	// ListUnitMembers returns the users placed directly in unitID.
	ListUnitMembers(ctx context.Context, caller domain.Caller, unitID string) ([]domain.UserWithProfile, error)
}

// UnitWriterSvc defines write operations for units. Only unrestricted callers may write.
type UnitWriterSvc interface {
	CreateUnit(ctx context.Context, caller domain.Caller, req dto.CreateUnitRequest) (*domain.Unit, error)
	UpdateUnit(ctx context.Context, caller domain.Caller, unitID string, req dto.UpdateUnitRequest) (*domain.Unit, error)
	DeleteUnit(ctx context.Context, caller domain.Caller, unitID string) error
}

// UnitSvcFacade combines all unit-related service interfaces
type UnitSvcFacade interface {
	UnitReaderSvc
	UnitWriterSvc
}

// LocationSvcFacade lists reference locations.
type LocationSvcFacade interface {
	ListLocations(ctx context.Context, query domain.LocationQuery) ([]domain.Location, error)
}
