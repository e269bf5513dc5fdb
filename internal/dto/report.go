package dto

import (
	"time"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// DateLayout is the wire format of report dates.
const DateLayout = "2006-01-02"

// CreateReportRequest is a user's daily availability.
type CreateReportRequest struct {
	Date         string  `json:"date" binding:"required"`
	Status       string  `json:"status" binding:"required,oneof=available unavailable partial pending"`
	LocationID   *string `json:"locationId,omitempty"`
	LocationText string  `json:"locationText,omitempty" binding:"max=200"`
	Notes        string  `json:"notes,omitempty"`
}

// ListReportsParams are the query parameters of listing and export.
type ListReportsParams struct {
	Date      string `form:"date"`
	From      string `form:"from"`
	To        string `form:"to"`
	UnitID    string `form:"unitId"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	PageToken string `form:"pageToken"`
}

// ReportResponse is the public view of a report.
type ReportResponse struct {
	ReportID     string    `json:"reportId"`
	UserID       string    `json:"userId"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	LocationID   *string   `json:"locationId,omitempty"`
	LocationText string    `json:"locationText,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	SubmittedAt  time.Time `json:"submittedAt"`
	UserEmail    string    `json:"userEmail,omitempty"`
	UserName     string    `json:"userName,omitempty"`
	UnitName     string    `json:"unitName,omitempty"`
	LocationName string    `json:"locationName,omitempty"`
}

// ListReportsResponse wraps a listing.
type ListReportsResponse struct {
	Reports       []ReportResponse `json:"reports"`
	Count         int              `json:"count"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

// ToReportResponse converts a bare report.
func ToReportResponse(r domain.AvailabilityReport) ReportResponse {
	return ReportResponse{
		ReportID:     r.ReportID,
		UserID:       r.UserID,
		Date:         r.Date.Format(DateLayout),
		Status:       string(r.Status),
		LocationID:   r.LocationID,
		LocationText: r.LocationText,
		Notes:        r.Notes,
		SubmittedAt:  r.SubmittedAt,
	}
}

// ToListReportsResponse converts a listing.
func ToListReportsResponse(items []domain.ReportDetails) ListReportsResponse {
	out := make([]ReportResponse, len(items))
	for i, d := range items {
		resp := ToReportResponse(d.AvailabilityReport)
		resp.UserEmail = d.UserEmail
		resp.UserName = d.UserName
		resp.UnitName = d.UnitName
		resp.LocationName = d.LocationName
		out[i] = resp
	}
	return ListReportsResponse{Reports: out, Count: len(out)}
}

// SendAlertRequest is a manager broadcast.
type SendAlertRequest struct {
	Subject string  `json:"subject" binding:"required,max=200"`
	Message string  `json:"message" binding:"required"`
	UnitID  *string `json:"unitId,omitempty"`
	SendTo  string  `json:"sendTo" binding:"required,oneof=users managers all"`
}
