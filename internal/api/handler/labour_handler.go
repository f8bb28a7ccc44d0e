package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labourshub/marketplace/internal/core/ports"
)

// LabourHandler serves the labour listing dashboard.
type LabourHandler struct {
	userService ports.UserService
}

func NewLabourHandler(userService ports.UserService) *LabourHandler {
	return &LabourHandler{userService: userService}
}

// List handles GET /api/labours.
//
// @Summary      List labour workers
// @Tags         labours
// @Produce      json
// @Success      200  {array}   ports.LabourListing
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/labours [get]
func (h *LabourHandler) List(c echo.Context) error {
	listings, err := h.userService.ListLabours(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}
