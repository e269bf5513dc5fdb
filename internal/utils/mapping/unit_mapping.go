package mapping

import (
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/SscSPs/unit_availability_app/internal/models"
)

// ToModelUnit converts a domain Unit to a model Unit
func ToModelUnit(d domain.Unit) models.Unit {
	return models.Unit{
		UnitID:      d.UnitID,
		Name:        d.Name,
		NameHe:      d.NameHe,
		ParentID:    ToNullString(d.ParentID),
		UnitType:    string(d.UnitType),
		Code:        ToNullString(d.Code),
		OrderNumber: d.OrderNumber,
		Timestamps:  models.Timestamps{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
	}
}

// ToDomainUnit converts a model Unit to a domain Unit
func ToDomainUnit(m models.Unit) domain.Unit {
	return domain.Unit{
		UnitID:      m.UnitID,
		Name:        m.Name,
		NameHe:      m.NameHe,
		ParentID:    FromNullString(m.ParentID),
		UnitType:    domain.UnitType(m.UnitType),
		Code:        FromNullString(m.Code),
		OrderNumber: m.OrderNumber,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToDomainUnitSlice converts a slice of model Units to a slice of domain Units
func ToDomainUnitSlice(ms []models.Unit) []domain.Unit {
	ds := make([]domain.Unit, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUnit(m)
	}
	return ds
}

// ToDomainLocation converts a model Location to a domain Location
func ToDomainLocation(m models.Location) domain.Location {
	return domain.Location(m)
}
