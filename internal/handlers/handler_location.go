package handlers

import (
	"net/http"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type locationHandler struct {
	locationService portssvc.LocationSvcFacade
}

func registerLocationRoutes(rg *gin.RouterGroup, svc portssvc.LocationSvcFacade) {
	h := &locationHandler{locationService: svc}
	rg.GET("/locations", h.listLocations)
}

// listLocations godoc
// @Summary List locations
// @Tags locations
// @Produce json
// @Param type query string false "Location type"
// @Param search query string false "Case-insensitive name search"
// @Success 200 {array} dto.LocationResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /locations [get]
func (h *locationHandler) listLocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	locations, err := h.locationService.ListLocations(c.Request.Context(), domain.LocationQuery{
		LocationType: c.Query("type"),
		Search:       c.Query("search"),
	})
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list locations")
		return
	}
	c.JSON(http.StatusOK, dto.ToLocationResponses(locations))
}
