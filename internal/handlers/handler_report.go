package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/analytics"
	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/middleware"
	"github.com/SscSPs/unit_availability_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type reportHandler struct {
	reportService portssvc.ReportSvcFacade
	tracker       *analytics.Tracker
}

func newReportHandler(svc portssvc.ReportSvcFacade, tracker *analytics.Tracker) *reportHandler {
	return &reportHandler{reportService: svc, tracker: tracker}
}

func registerReportRoutes(rg *gin.RouterGroup, h *reportHandler) {
	reports := rg.Group("/reports")
	{
		reports.GET("", h.listReports)
		reports.POST("", h.createReport)
		reports.GET("/export", h.exportReports)
	}
}

func parseDateParam(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be formatted as YYYY-MM-DD", apperrors.ErrValidation, name)
	}
	return &t, nil
}

// toReportFilter converts the query parameters of a listing.
func toReportFilter(params dto.ListReportsParams) (domain.ReportFilter, error) {
	var (
		filter domain.ReportFilter
		err    error
	)
	if filter.Date, err = parseDateParam("date", params.Date); err != nil {
		return filter, err
	}
	if filter.From, err = parseDateParam("from", params.From); err != nil {
		return filter, err
	}
	if filter.To, err = parseDateParam("to", params.To); err != nil {
		return filter, err
	}
	if params.UnitID != "" {
		filter.UnitID = &params.UnitID
	}
	filter.Limit = params.Limit
	if params.PageToken != "" {
		if filter.After, err = pagination.DecodeToken(params.PageToken); err != nil {
			return filter, fmt.Errorf("%w: invalid pageToken", apperrors.ErrValidation)
		}
	}
	return filter, nil
}

func (h *reportHandler) bindFilter(c *gin.Context, logger *slog.Logger) (domain.ReportFilter, bool) {
	var params dto.ListReportsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return domain.ReportFilter{}, false
	}
	filter, err := toReportFilter(params)
	if err != nil {
		handleServiceError(c, logger, err, "Invalid report filter")
		return domain.ReportFilter{}, false
	}
	return filter, true
}

// listReports godoc
// @Summary List availability reports
// @Description Lists the reports the caller may see. Users see their own, managers see their scope.
// @Tags reports
// @Produce json
// @Param date query string false "Exact day (YYYY-MM-DD)"
// @Param from query string false "First day, inclusive (YYYY-MM-DD)"
// @Param to query string false "Last day, inclusive (YYYY-MM-DD)"
// @Param unitId query string false "Only users in this unit's subtree"
// @Param limit query int false "Page size (1-500); omitted returns every report"
// @Param pageToken query string false "nextPageToken of the previous page"
// @Success 200 {object} dto.ListReportsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports [get]
func (h *reportHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	filter, ok := h.bindFilter(c, logger)
	if !ok {
		return
	}

	reports, err := h.reportService.ListReports(c.Request.Context(), caller, filter)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list reports")
		return
	}
	resp := dto.ToListReportsResponse(reports)
	resp.NextPageToken = pagination.NextToken(reports, filter.Limit)
	c.JSON(http.StatusOK, resp)
}

// createReport godoc
// @Summary Submit an availability report
// @Description Stores the caller's availability for a day. One report per user and day.
// @Tags reports
// @Accept json
// @Produce json
// @Param report body dto.CreateReportRequest true "Report"
// @Success 201 {object} dto.ReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Report already submitted for the day"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports [post]
func (h *reportHandler) createReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), caller, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create report")
		return
	}
	middleware.PosthogEvent(c, h.tracker, "availability_reported", map[string]any{"status": string(report.Status)})
	c.JSON(http.StatusCreated, dto.ToReportResponse(*report))
}

// exportReports godoc
// @Summary Export availability reports
// @Description Downloads the reports of a listing as an XLSX workbook.
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param date query string false "Exact day (YYYY-MM-DD)"
// @Param from query string false "First day, inclusive (YYYY-MM-DD)"
// @Param to query string false "Last day, inclusive (YYYY-MM-DD)"
// @Param unitId query string false "Only users in this unit's subtree"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/export [get]
func (h *reportHandler) exportReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	filter, ok := h.bindFilter(c, logger)
	if !ok {
		return
	}

	data, err := h.reportService.ExportReports(c.Request.Context(), caller, filter)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to export reports")
		return
	}

	filename := fmt.Sprintf("availability_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
