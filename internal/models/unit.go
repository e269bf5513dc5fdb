package models

import "database/sql"

// Unit is a row of the units table.
type Unit struct {
	UnitID      string         `db:"unit_id"`
	Name        string         `db:"name"`
	NameHe      string         `db:"name_he"`
	ParentID    sql.NullString `db:"parent_id"` // Nullable
	UnitType    string         `db:"unit_type"`
	Code        sql.NullString `db:"code"`
	OrderNumber int            `db:"order_number"`
	Timestamps
}

// Location is a row of the locations table.
type Location struct {
	LocationID   string `db:"location_id"`
	Name         string `db:"name"`
	NameHe       string `db:"name_he"`
	LocationType string `db:"location_type"`
	Region       string `db:"region"`
}
