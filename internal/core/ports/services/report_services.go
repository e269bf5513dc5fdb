package services

import (
	"context"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/SscSPs/unit_availability_app/internal/dto"
)

// ReportSvcFacade lists, creates and exports availability reports.
type ReportSvcFacade interface {
	// ListReports returns the reports the caller may see, narrowed by filter.
	ListReports(ctx context.Context, caller domain.Caller, filter domain.ReportFilter) ([]domain.ReportDetails, error)

	// CreateReport stores the caller's report for a day.
	CreateReport(ctx context.Context, caller domain.Caller, req dto.CreateReportRequest) (*domain.AvailabilityReport, error)

	// ExportReports renders ListReports as an XLSX workbook.
	ExportReports(ctx context.Context, caller domain.Caller, filter domain.ReportFilter) ([]byte, error)
}
