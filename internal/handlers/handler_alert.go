package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/unit_availability_app/internal/analytics"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type alertHandler struct {
	alertService portssvc.AlertSvcFacade
	tracker      *analytics.Tracker
}

func registerAlertRoutes(rg *gin.RouterGroup, svc portssvc.AlertSvcFacade, tracker *analytics.Tracker) {
	h := &alertHandler{alertService: svc, tracker: tracker}
	rg.POST("/alerts/send", h.sendAlert)
}

// sendAlert godoc
// @Summary Send an alert
// @Description E-mails a message to the users, managers or both inside the caller's scope, optionally narrowed to a unit subtree.
// @Tags alerts
// @Accept json
// @Produce json
// @Param alert body dto.SendAlertRequest true "Alert"
// @Success 202 {object} domain.AlertResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /alerts/send [post]
func (h *alertHandler) sendAlert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.SendAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	result, err := h.alertService.SendAlert(c.Request.Context(), caller, domain.Alert{
		Subject:  req.Subject,
		Message:  req.Message,
		UnitID:   req.UnitID,
		Audience: domain.AlertAudience(req.SendTo),
	})
	if err != nil {
		handleServiceError(c, logger, err, "Failed to send alert")
		return
	}

	logger.Info("Alert sent",
		slog.Int("recipients", result.Recipients),
		slog.Int("queued", result.Queued),
		slog.Int("failed", result.Failed))
	middleware.PosthogEvent(c, h.tracker, "alert_sent", map[string]any{"recipients": result.Recipients})
	c.JSON(http.StatusAccepted, result)
}
