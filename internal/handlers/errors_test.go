package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrInvalidOrExpiredCode, http.StatusBadRequest},
		{apperrors.ErrAlreadyApproved, http.StatusBadRequest},
		{fmt.Errorf("%w: bad", apperrors.ErrValidation), http.StatusBadRequest},
		{apperrors.ErrFutureDate, http.StatusBadRequest},
		{fmt.Errorf("%w: %w", apperrors.ErrValidation, apperrors.ErrCycleDetected), http.StatusBadRequest},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrRefreshTokenExpired, http.StatusUnauthorized},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrNotApproved, http.StatusForbidden},
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrDuplicate, http.StatusConflict},
		{apperrors.ErrInvalidState, http.StatusConflict},
		{apperrors.ErrRateLimited, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, statusForError(tc.err))
		})
	}
}

func TestHandleServiceError_HidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testCases := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"server errors use the fallback", errors.New("pq: connection refused"), "Failed to do it"},
		{"code errors never say why", fmt.Errorf("code already used: %w", apperrors.ErrInvalidOrExpiredCode), apperrors.ErrInvalidOrExpiredCode.Error()},
		{"client errors keep their text", fmt.Errorf("%w: unit not found", apperrors.ErrValidation), "validation error: unit not found"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			handleServiceError(c, logger, tc.err, "Failed to do it")

			var resp ErrorResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantMsg, resp.Error)
		})
	}
}
