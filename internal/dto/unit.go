package dto

import (
	"time"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// CreateUnitRequest creates a unit.
type CreateUnitRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	NameHe      string  `json:"nameHe,omitempty" binding:"max=200"`
	ParentID    *string `json:"parentId,omitempty"`
	UnitType    string  `json:"unitType" binding:"required,oneof=unit branch section team"`
	Code        *string `json:"code,omitempty"`
	OrderNumber int     `json:"orderNumber"`
}

// UpdateUnitRequest changes a unit. Omitted fields keep their value.
type UpdateUnitRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=200"`
	NameHe      *string `json:"nameHe,omitempty"`
	ParentID    *string `json:"parentId,omitempty"`
	MakeRoot    bool    `json:"makeRoot,omitempty"`
	UnitType    *string `json:"unitType,omitempty" binding:"omitempty,oneof=unit branch section team"`
	OrderNumber *int    `json:"orderNumber,omitempty"`
}

// UnitResponse is the public view of a unit.
type UnitResponse struct {
	UnitID      string    `json:"unitId"`
	Name        string    `json:"name"`
	NameHe      string    `json:"nameHe,omitempty"`
	ParentID    *string   `json:"parentId,omitempty"`
	UnitType    string    `json:"unitType"`
	Code        *string   `json:"code,omitempty"`
	OrderNumber int       `json:"orderNumber"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UnitDetailResponse adds the ancestor path, nearest parent first.
type UnitDetailResponse struct {
	UnitResponse
	Ancestors []UnitResponse `json:"ancestors"`
}

// ToUnitResponse converts a domain unit.
func ToUnitResponse(u domain.Unit) UnitResponse {
	return UnitResponse{
		UnitID:      u.UnitID,
		Name:        u.Name,
		NameHe:      u.NameHe,
		ParentID:    u.ParentID,
		UnitType:    string(u.UnitType),
		Code:        u.Code,
		OrderNumber: u.OrderNumber,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUnitResponses converts a slice of units.
func ToUnitResponses(units []domain.Unit) []UnitResponse {
	out := make([]UnitResponse, len(units))
	for i, u := range units {
		out[i] = ToUnitResponse(u)
	}
	return out
}

// LocationResponse is the public view of a location.
type LocationResponse struct {
	LocationID   string `json:"locationId"`
	Name         string `json:"name"`
	NameHe       string `json:"nameHe,omitempty"`
	LocationType string `json:"locationType"`
	Region       string `json:"region,omitempty"`
}

// ToLocationResponses converts a slice of locations.
func ToLocationResponses(locs []domain.Location) []LocationResponse {
	out := make([]LocationResponse, len(locs))
	for i, l := range locs {
		out[i] = LocationResponse{
			LocationID:   l.LocationID,
			Name:         l.Name,
			NameHe:       l.NameHe,
			LocationType: l.LocationType,
			Region:       l.Region,
		}
	}
	return out
}
