package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/unit_availability_app/internal/analytics"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type accessRequestHandler struct {
	accessRequestService portssvc.AccessRequestSvcFacade
	tracker              *analytics.Tracker
	exposeOTP            bool
}

func newAccessRequestHandler(svc portssvc.AccessRequestSvcFacade, tracker *analytics.Tracker, exposeOTP bool) *accessRequestHandler {
	return &accessRequestHandler{accessRequestService: svc, tracker: tracker, exposeOTP: exposeOTP}
}

func registerAccessRequestRoutes(rg *gin.RouterGroup, h *accessRequestHandler) {
	requests := rg.Group("/access-requests")
	{
		requests.GET("", h.listAccessRequests)
		requests.POST("/:id/approve", h.approveAccessRequest)
		requests.POST("/:id/reject", h.rejectAccessRequest)
	}
}

// listAccessRequests godoc
// @Summary List access requests
// @Description Lists the access requests visible to the calling manager, newest first.
// @Tags access-requests
// @Produce json
// @Param status query string false "Status filter (pending, approved, rejected)"
// @Param unitId query string false "Only requests of users placed in this unit"
// @Success 200 {object} dto.ListAccessRequestsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /access-requests [get]
func (h *accessRequestHandler) listAccessRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var filter portssvc.AccessRequestFilter
	if v := c.Query("status"); v != "" {
		status := domain.AccessRequestStatus(v)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid status: " + v})
			return
		}
		filter.Status = &status
	}
	if v := c.Query("unitId"); v != "" {
		filter.UnitID = &v
	}

	requests, err := h.accessRequestService.ListAccessRequests(c.Request.Context(), caller, filter)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list access requests")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccessRequestsResponse(requests))
}

// approveAccessRequest godoc
// @Summary Approve an access request
// @Description Approves a pending request, applying optional corrections to the user, and e-mails a login code.
// @Tags access-requests
// @Accept json
// @Produce json
// @Param id path string true "Access request ID"
// @Param approval body dto.ApproveAccessRequestRequest false "Optional corrections"
// @Success 200 {object} dto.ApproveAccessRequestResponse
// @Failure 400 {object} ErrorResponse "Invalid input or already approved"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Request is not pending"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /access-requests/{id}/approve [post]
func (h *accessRequestHandler) approveAccessRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	requestID := c.Param("id")

	var req dto.ApproveAccessRequestRequest
	// An empty body approves without corrections.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, logger, err)
		return
	}

	result, err := h.accessRequestService.ApproveAccessRequest(c.Request.Context(), caller, requestID, req.ToOverrides())
	if err != nil {
		handleServiceError(c, logger, err, "Failed to approve access request")
		return
	}

	resp := dto.ApproveAccessRequestResponse{
		Message:  "Access request approved.",
		Request:  dto.ToAccessRequestResponse(result.Request),
		Warnings: result.Warnings,
	}
	if len(result.Warnings) > 0 {
		resp.Warning = strings.Join(result.Warnings, "; ")
		logger.Warn("Access request approved with warnings", slog.String("access_request_id", requestID), slog.Any("warnings", result.Warnings))
	}
	if h.exposeOTP && result.OTP != nil {
		resp.OTPCode = result.OTP.Code
	}
	middleware.PosthogEvent(c, h.tracker, "access_request_approved", map[string]any{"access_request_id": requestID})
	c.JSON(http.StatusOK, resp)
}

// rejectAccessRequest godoc
// @Summary Reject an access request
// @Description Rejects a pending request with an optional reason.
// @Tags access-requests
// @Accept json
// @Produce json
// @Param id path string true "Access request ID"
// @Param rejection body dto.RejectAccessRequestRequest false "Reason"
// @Success 200 {object} dto.AccessRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Request is not pending"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /access-requests/{id}/reject [post]
func (h *accessRequestHandler) rejectAccessRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	requestID := c.Param("id")

	var req dto.RejectAccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, logger, err)
		return
	}

	request, err := h.accessRequestService.RejectAccessRequest(c.Request.Context(), caller, requestID, req.Reason)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to reject access request")
		return
	}
	middleware.PosthogEvent(c, h.tracker, "access_request_rejected", map[string]any{"access_request_id": requestID})
	c.JSON(http.StatusOK, dto.ToAccessRequestResponse(*request))
}
