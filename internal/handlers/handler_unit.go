package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// unitHandler serves the organizational tree.
type unitHandler struct {
	unitService portssvc.UnitSvcFacade
}

func newUnitHandler(svc portssvc.UnitSvcFacade) *unitHandler {
	return &unitHandler{unitService: svc}
}

func registerUnitRoutes(rg *gin.RouterGroup, unitService portssvc.UnitSvcFacade) {
	h := newUnitHandler(unitService)

	units := rg.Group("/units")
	{
		units.GET("", h.listUnits)
		units.POST("", h.createUnit)
		units.GET("/:id", h.getUnit)
		units.PUT("/:id", h.updateUnit)
		units.DELETE("/:id", h.deleteUnit)
		units.GET("/:id/members", h.listUnitMembers)
	}
}

// listUnits godoc
// @Summary List units by parent
// @Description Lists the children of a unit, or the root units when parentId is omitted.
// @Tags units
// @Produce json
// @Param parentId query string false "Parent unit ID"
// @Param unitType query string false "Unit type (unit, branch, section, team)"
// @Success 200 {array} dto.UnitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /units [get]
func (h *unitHandler) listUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var parentID *string
	if v := c.Query("parentId"); v != "" {
		parentID = &v
	}
	var unitType *domain.UnitType
	if v := c.Query("unitType"); v != "" {
		t := domain.UnitType(v)
		unitType = &t
	}

	units, err := h.unitService.ListUnitsByParent(c.Request.Context(), parentID, unitType)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list units")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitResponses(units))
}

// getUnit godoc
// @Summary Get a unit
// @Description Returns a unit with its ancestor path, nearest parent first.
// @Tags units
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} dto.UnitDetailResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /units/{id} [get]
func (h *unitHandler) getUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	unit, err := h.unitService.GetUnit(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve unit")
		return
	}
	c.JSON(http.StatusOK, dto.UnitDetailResponse{
		UnitResponse: dto.ToUnitResponse(unit.Unit),
		Ancestors:    dto.ToUnitResponses(unit.Ancestors),
	})
}

// listUnitMembers godoc
// @Summary List unit members
// @Description Lists the approved users placed directly in a unit.
// @Tags units
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} dto.ListUsersResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /units/{id}/members [get]
func (h *unitHandler) listUnitMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	members, err := h.unitService.ListUnitMembers(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list unit members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUserResponse(members))
}

// createUnit godoc
// @Summary Create a unit
// @Tags units
// @Accept json
// @Produce json
// @Param unit body dto.CreateUnitRequest true "Unit"
// @Success 201 {object} dto.UnitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Code already used"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /units [post]
func (h *unitHandler) createUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	unit, err := h.unitService.CreateUnit(c.Request.Context(), caller, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create unit")
		return
	}
	logger.Info("Unit created", slog.String("unit_id", unit.UnitID))
	c.JSON(http.StatusCreated, dto.ToUnitResponse(*unit))
}

// updateUnit godoc
// @Summary Update a unit
// @Description Renames or moves a unit. Moves that would create a cycle are rejected.
// @Tags units
// @Accept json
// @Produce json
// @Param id path string true "Unit ID"
// @Param unit body dto.UpdateUnitRequest true "Changes"
// @Success 200 {object} dto.UnitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /units/{id} [put]
func (h *unitHandler) updateUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	unit, err := h.unitService.UpdateUnit(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update unit")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitResponse(*unit))
}

// deleteUnit godoc
// @Summary Delete a unit
// @Description Deletes a unit and its whole subtree. Members of deleted units are left unplaced.
// @Tags units
// @Param id path string true "Unit ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /units/{id} [delete]
func (h *unitHandler) deleteUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	unitID := c.Param("id")
	if err := h.unitService.DeleteUnit(c.Request.Context(), caller, unitID); err != nil {
		handleServiceError(c, logger, err, "Failed to delete unit")
		return
	}
	logger.Info("Unit deleted", slog.String("unit_id", unitID))
	c.Status(http.StatusNoContent)
}
