package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/export"
	"github.com/google/uuid"
)

// reportService applies RoleScope to availability reports.
type reportService struct {
	BaseService
	reports   portsrepo.ReportRepositoryFacade
	locations portsrepo.LocationRepositoryFacade
	scope     portssvc.ScopeSvcFacade
}

// NewReportService creates the report service.
func NewReportService(reports portsrepo.ReportRepositoryFacade, locations portsrepo.LocationRepositoryFacade, scope portssvc.ScopeSvcFacade) portssvc.ReportSvcFacade {
	return &reportService{
		BaseService: newBaseService(),
		reports:     reports,
		locations:   locations,
		scope:       scope,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

func requireApproved(caller domain.Caller) error {
	if caller.IsApproved || caller.IsStaff {
		return nil
	}
	return apperrors.ErrNotApproved
}

func (s *reportService) ListReports(ctx context.Context, caller domain.Caller, filter domain.ReportFilter) ([]domain.ReportDetails, error) {
	if err := requireApproved(caller); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: from must not be after to", apperrors.ErrValidation)
	}

	visible, err := s.scope.VisibleUsers(ctx, caller)
	if err != nil {
		return nil, err
	}
	// Filters only ever narrow the role scope.
	if filter.UnitID != nil {
		members, err := s.scope.SubtreeMembers(ctx, *filter.UnitID)
		if err != nil {
			return nil, err
		}
		visible = visible.Narrow(members)
	}

	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", apperrors.ErrValidation)
	}

	query := domain.ReportQuery{
		UserIDs: nilIfAll(visible),
		Date:    filter.Date,
		From:    filter.From,
		To:      filter.To,
		Limit:   filter.Limit,
		After:   filter.After,
	}
	return s.reports.ListReports(ctx, query)
}

func (s *reportService) CreateReport(ctx context.Context, caller domain.Caller, req dto.CreateReportRequest) (*domain.AvailabilityReport, error) {
	if err := requireApproved(caller); err != nil {
		return nil, err
	}
	date, err := time.Parse(dto.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be formatted YYYY-MM-DD", apperrors.ErrValidation)
	}
	now := s.clock()
	if date.After(domain.TruncateToDay(now)) {
		return nil, apperrors.ErrFutureDate
	}
	status := domain.AvailabilityStatus(req.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, req.Status)
	}
	if req.LocationID != nil {
		if _, err := s.locations.FindLocationByID(ctx, *req.LocationID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: location not found", apperrors.ErrValidation)
			}
			return nil, err
		}
	}

	report := domain.AvailabilityReport{
		ReportID:     uuid.NewString(),
		UserID:       caller.UserID,
		Date:         domain.TruncateToDay(date),
		Status:       status,
		LocationID:   req.LocationID,
		LocationText: strings.TrimSpace(req.LocationText),
		Notes:        strings.TrimSpace(req.Notes),
		SubmittedAt:  now,
		UpdatedAt:    now,
	}
	if err := s.reports.SaveReport(ctx, report); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a report for %s already exists", apperrors.ErrDuplicate, report.Date.Format(dto.DateLayout))
		}
		s.LogError(ctx, err, "Failed to save report", slog.String("user_id", caller.UserID))
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	s.LogInfo(ctx, "Report created", slog.String("report_id", report.ReportID), slog.String("user_id", caller.UserID))
	return &report, nil
}

func (s *reportService) ExportReports(ctx context.Context, caller domain.Caller, filter domain.ReportFilter) ([]byte, error) {
	// Exports are never paged.
	filter.Limit, filter.After = 0, nil
	reports, err := s.ListReports(ctx, caller, filter)
	if err != nil {
		return nil, err
	}
	data, err := export.ReportsXLSX(reports)
	if err != nil {
		s.LogError(ctx, err, "Failed to render report export")
		return nil, err
	}
	return data, nil
}
