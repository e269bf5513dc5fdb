package models

import (
	"database/sql"
	"time"
)

// AvailabilityReport is a row of the availability_reports table.
type AvailabilityReport struct {
	ReportID     string         `db:"report_id"`
	UserID       string         `db:"user_id"`
	Date         time.Time      `db:"date"`
	Status       string         `db:"status"`
	LocationID   sql.NullString `db:"location_id"`
	LocationText string         `db:"location_text"`
	Notes        string         `db:"notes"`
	SubmittedAt  time.Time      `db:"submitted_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
