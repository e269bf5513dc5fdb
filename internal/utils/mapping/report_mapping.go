package mapping

import (
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/SscSPs/unit_availability_app/internal/models"
)

// ToModelReport converts a domain AvailabilityReport to a model AvailabilityReport
func ToModelReport(d domain.AvailabilityReport) models.AvailabilityReport {
	return models.AvailabilityReport{
		ReportID:     d.ReportID,
		UserID:       d.UserID,
		Date:         domain.TruncateToDay(d.Date),
		Status:       string(d.Status),
		LocationID:   ToNullString(d.LocationID),
		LocationText: d.LocationText,
		Notes:        d.Notes,
		SubmittedAt:  d.SubmittedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ToDomainReport converts a model AvailabilityReport to a domain AvailabilityReport
func ToDomainReport(m models.AvailabilityReport) domain.AvailabilityReport {
	return domain.AvailabilityReport{
		ReportID:     m.ReportID,
		UserID:       m.UserID,
		Date:         domain.TruncateToDay(m.Date),
		Status:       domain.AvailabilityStatus(m.Status),
		LocationID:   FromNullString(m.LocationID),
		LocationText: m.LocationText,
		Notes:        m.Notes,
		SubmittedAt:  m.SubmittedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
