package domain

import "time"

// AvailabilityStatus is what a user reports for a day.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
	AvailabilityPartial     AvailabilityStatus = "partial"
	AvailabilityPending     AvailabilityStatus = "pending"
)

// IsValid reports whether s is a known availability status.
func (s AvailabilityStatus) IsValid() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityUnavailable, AvailabilityPartial, AvailabilityPending:
		return true
	}
	return false
}

// AvailabilityReport is one user's report for one day. (UserID, Date) is unique.
type AvailabilityReport struct {
	ReportID     string             `json:"reportID"`
	UserID       string             `json:"userID"`
	Date         time.Time          `json:"date"` // midnight UTC
	Status       AvailabilityStatus `json:"status"`
	LocationID   *string            `json:"locationID,omitempty"`
	LocationText string             `json:"locationText,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	SubmittedAt  time.Time          `json:"submittedAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// ReportDetails is a report joined with owner and location names for listings and exports.
type ReportDetails struct {
	AvailabilityReport
	UserEmail    string  `json:"userEmail"`
	UserName     string  `json:"userName"`
	UnitID       *string `json:"unitID,omitempty"`
	UnitName     string  `json:"unitName,omitempty"`
	LocationName string  `json:"locationName,omitempty"`
}

// ReportCursor is the sort key of the last report of a page. Listings
// resume strictly after it.
type ReportCursor struct {
	Date        time.Time
	SubmittedAt time.Time
	ReportID    string
}

// Before reports whether d sorts after the cursor position, i.e. belongs to a later page.
func (c ReportCursor) Before(d AvailabilityReport) bool {
	if !d.Date.Equal(c.Date) {
		return d.Date.Before(c.Date)
	}
	if !d.SubmittedAt.Equal(c.SubmittedAt) {
		return d.SubmittedAt.Before(c.SubmittedAt)
	}
	return d.ReportID < c.ReportID
}

// CursorOf returns the cursor positioned at r.
func CursorOf(r AvailabilityReport) ReportCursor {
	return ReportCursor{Date: r.Date, SubmittedAt: r.SubmittedAt, ReportID: r.ReportID}
}

// ReportFilter holds caller supplied narrowing parameters. A zero Limit
// returns every matching report.
type ReportFilter struct {
	Date   *time.Time
	From   *time.Time
	To     *time.Time
	UnitID *string
	Limit  int
	After  *ReportCursor
}

// ReportQuery is what the persistence layer receives: the filter plus the
// resolved owner restriction. A nil UserIDs slice means unrestricted.
type ReportQuery struct {
	UserIDs []string
	Date    *time.Time
	From    *time.Time
	To      *time.Time
	Limit   int
	After   *ReportCursor
}

// TruncateToDay strips the clock part of t in UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
