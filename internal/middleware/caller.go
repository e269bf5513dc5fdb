package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// LoadCaller resolves the authenticated user into a domain.Caller. It must run
// after AuthMiddleware.
func LoadCaller(scope portssvc.ScopeSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		caller, err := scope.LoadCaller(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account not found or inactive"})
				return
			}
			GetLoggerFromContext(c).Error("Failed to load caller", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(string(callerKey), *caller)
		setLogger(c, GetLoggerFromContext(c).With(slog.String("role", string(caller.Role))))
		c.Next()
	}
}
