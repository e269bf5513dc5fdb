package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/SscSPs/unit_availability_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusForError maps the apperrors taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidOrExpiredCode):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAlreadyApproved):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrNotApproved):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// handleServiceError writes the response for a failed service call. Client
// errors carry the error text; server errors carry fallbackMsg only.
func handleServiceError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	status := statusForError(err)
	msg := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		msg = fallbackMsg
	case errors.Is(err, apperrors.ErrInvalidOrExpiredCode):
		// Never say which of wrong, used or expired applied.
		msg = apperrors.ErrInvalidOrExpiredCode.Error()
		logger.Info(fallbackMsg, slog.String("error", err.Error()))
	default:
		logger.Warn(fallbackMsg, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, ErrorResponse{Error: msg})
}

// bindError answers a request whose body or query failed to bind.
func bindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
}

// requireCaller returns the caller loaded by middleware.LoadCaller, answering
// 401 when it is missing.
func requireCaller(c *gin.Context) (domain.Caller, bool) {
	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return caller, ok
}
