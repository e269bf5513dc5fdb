package domain

import "time"

// UnitType is the level of a unit in the organizational hierarchy.
type UnitType string

const (
	UnitTypeUnit    UnitType = "unit"
	UnitTypeBranch  UnitType = "branch"
	UnitTypeSection UnitType = "section"
	UnitTypeTeam    UnitType = "team"
)

// IsValid reports whether t is one of the known unit types.
func (t UnitType) IsValid() bool {
	switch t {
	case UnitTypeUnit, UnitTypeBranch, UnitTypeSection, UnitTypeTeam:
		return true
	}
	return false
}

// Unit is a node of the organizational forest.
type Unit struct {
	UnitID      string    `json:"unitID"`
	Name        string    `json:"name"`
	NameHe      string    `json:"nameHe,omitempty"`
	ParentID    *string   `json:"parentID,omitempty"` // nil for roots
	UnitType    UnitType  `json:"unitType"`
	Code        *string   `json:"code,omitempty"`
	OrderNumber int       `json:"orderNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DisplayName prefers the Hebrew name when one is set.
func (u Unit) DisplayName() string {
	if u.NameHe != "" {
		return u.NameHe
	}
	return u.Name
}
