package repositories

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

// ReportReader defines read operations for availability reports
type ReportReader interface {
	// ListReports returns reports matching the query ordered by date, submission
	// time and ID, all descending. Limit and After page through that order.
	ListReports(ctx context.Context, query domain.ReportQuery) ([]domain.ReportDetails, error)
}

// ReportWriter defines write operations for availability reports
type ReportWriter interface {
	// SaveReport persists a new report. A second report for the same user and
	// date yields apperrors.ErrDuplicate.
	SaveReport(ctx context.Context, report domain.AvailabilityReport) error
}

// ReportRepositoryFacade combines all report repository interfaces
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
}
