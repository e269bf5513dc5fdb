package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// googleOAuthHandler handles Google sign-in for already approved users.
type googleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthSvcFacade
}

func newGoogleOAuthHandler(svc portssvc.GoogleOAuthSvcFacade) *googleOAuthHandler {
	return &googleOAuthHandler{googleOAuthService: svc}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, h *googleOAuthHandler, limit gin.HandlerFunc) {
	googleRoutes := rg.Group("/auth/google", limit)
	{
		googleRoutes.GET("/login-url", h.loginURL)
		googleRoutes.POST("/exchange-code", h.exchangeCode)
	}
}

// loginURL godoc
// @Summary Start a Google sign-in
// @Description Returns the Google consent URL together with a CSRF state the client must keep.
// @Tags oauth
// @Produce json
// @Success 200 {object} dto.GoogleLoginURLResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login-url [get]
func (h *googleOAuthHandler) loginURL(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to start Google sign-in")
		return
	}
	c.JSON(http.StatusOK, dto.GoogleLoginURLResponse{
		URL:   h.googleOAuthService.GetGoogleLoginURL(ctx, state),
		State: state,
	})
}

// exchangeCode godoc
// @Summary Exchange authorization code for a session
// @Description Exchanges a Google authorization code, validates the ID token and opens a session for the matching approved user.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body dto.GoogleExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Account not approved"
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.GoogleExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	session, err := h.googleOAuthService.SignIn(ctx, req.Code)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to sign in with Google")
		return
	}
	logger.Info("User signed in with Google", slog.String("user_id", session.User.UserID))
	c.JSON(http.StatusOK, toLoginResponse(session.Tokens, &session.User))
}
