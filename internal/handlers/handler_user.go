package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: us,
	}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.GET("/approved", h.listApprovedUsers)        // managers
		users.PUT("/:id/permissions", h.updatePermissions) // managers, inside scope
	}
}

// getMe godoc
// @Summary Get the current user
// @Description Returns the authenticated user with its profile.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserWithProfile(c.Request.Context(), caller.UserID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(*user))
}

// listApprovedUsers godoc
// @Summary List approved users
// @Description Lists the approved users visible to the calling manager.
// @Tags users
// @Produce json
// @Success 200 {object} dto.ListUsersResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/approved [get]
func (h *userHandler) listApprovedUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	users, err := h.userService.ListApprovedUsers(c.Request.Context(), caller)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUserResponse(users))
}

// updatePermissions godoc
// @Summary Update a user's role and unit
// @Description Changes the role and unit placement of a user inside the caller's scope.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param permissions body dto.UpdatePermissionsRequest true "Role and unit"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/permissions [put]
func (h *userHandler) updatePermissions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	userID := c.Param("id")

	var req dto.UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	user, err := h.userService.UpdatePermissions(c.Request.Context(), caller, userID, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update permissions")
		return
	}
	logger.Info("Permissions updated", slog.String("target_user_id", userID))
	c.JSON(http.StatusOK, dto.ToUserResponse(*user))
}
