package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/middleware"
	"github.com/SscSPs/unit_availability_app/pkg/config"
	"github.com/gin-gonic/gin"
)

// authHandler handles registration, login and session requests.
type authHandler struct {
	userService  portssvc.UserSvcFacade
	otpService   portssvc.OTPSvcFacade
	tokenService portssvc.TokenSvcFacade
	exposeOTP    bool
}

func newAuthHandler(services *portssvc.ServiceContainer, cfg *config.Config) *authHandler {
	return &authHandler{
		userService:  services.User,
		otpService:   services.OTP,
		tokenService: services.Token,
		exposeOTP:    cfg.OTPDebugExpose,
	}
}

// registerAuthRoutes sets up the public authentication routes. Every route
// is guarded by the per-IP limiter.
func registerAuthRoutes(rg *gin.RouterGroup, h *authHandler, limit gin.HandlerFunc) {
	auth := rg.Group("/auth", limit)
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/request-otp", h.requestOTP)
		auth.POST("/verify-otp", h.verifyOTP)
		auth.POST("/refresh", h.refresh)
	}
}

// registerSessionRoutes sets up authentication routes that need a valid access token.
func registerSessionRoutes(rg *gin.RouterGroup, h *authHandler) {
	rg.POST("/auth/logout", h.logout)
}

func toLoginResponse(tokens domain.SessionTokens, user *domain.UserWithProfile) dto.LoginResponse {
	resp := dto.LoginResponse{
		AccessToken:           tokens.AccessToken,
		AccessTokenExpiresAt:  tokens.AccessTokenExpiresAt,
		RefreshToken:          tokens.RefreshToken,
		RefreshTokenExpiresAt: tokens.RefreshTokenExpiresAt,
	}
	if user != nil {
		u := dto.ToUserResponse(*user)
		resp.User = &u
	}
	return resp
}

// register godoc
// @Summary Register new user
// @Description Creates a pending user account together with its access request.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "E-mail already registered"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	result, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to register user")
		return
	}

	logger.Info("User registered", slog.String("user_id", result.UserID), slog.String("access_request_id", result.AccessRequestID))
	c.JSON(http.StatusCreated, dto.RegisterResponse{
		UserID:          result.UserID,
		AccessRequestID: result.AccessRequestID,
		Status:          string(result.Status),
		Message:         "Registration received. A manager must approve your access before you can log in.",
	})
}

// login godoc
// @Summary User login
// @Description Authenticates an approved user with e-mail and password.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Account not approved"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	user, err := h.userService.AuthenticateUser(ctx, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to authenticate user")
		return
	}
	tokens, err := h.tokenService.IssueSession(ctx, user)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to generate token")
		return
	}
	profile, err := h.userService.GetUserWithProfile(ctx, user.UserID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, toLoginResponse(*tokens, profile))
}

// requestOTP godoc
// @Summary Request a login code
// @Description Issues a six digit login code and e-mails it to an approved user.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RequestOTPRequest true "E-mail"
// @Success 200 {object} dto.RequestOTPResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Account not approved"
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/request-otp [post]
func (h *authHandler) requestOTP(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	issue, err := h.otpService.RequestCode(c.Request.Context(), req.Email)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to issue login code")
		return
	}

	resp := dto.RequestOTPResponse{
		Message:          "A login code was sent to your e-mail.",
		ExpiresInMinutes: issue.ExpiresInMinutes,
		Warning:          issue.Warning,
	}
	if h.exposeOTP {
		resp.OTPCode = issue.Code
	}
	c.JSON(http.StatusOK, resp)
}

// verifyOTP godoc
// @Summary Redeem a login code
// @Description Verifies a login code and returns a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "E-mail and code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid or expired code"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/verify-otp [post]
func (h *authHandler) verifyOTP(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	session, err := h.otpService.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to verify login code")
		return
	}
	c.JSON(http.StatusOK, toLoginResponse(session.Tokens, &session.User))
}

// refresh godoc
// @Summary Rotate a refresh token
// @Description Exchanges a refresh token for a new access and refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "User ID and refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	tokens, err := h.tokenService.RefreshSession(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to refresh session")
		return
	}
	c.JSON(http.StatusOK, toLoginResponse(*tokens, nil))
}

// logout godoc
// @Summary Log out
// @Description Revokes the caller's refresh token.
// @Tags auth
// @Produce json
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	if err := h.tokenService.RevokeSession(c.Request.Context(), caller.UserID); err != nil {
		handleServiceError(c, logger, err, "Failed to log out")
		return
	}
	c.Status(http.StatusNoContent)
}
