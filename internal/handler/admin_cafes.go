package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flowstate-hq/booking-api/internal/repository"
)

// AdminCafeHandler lists partner cafes for the admin panel's venue
// dropdown.
type AdminCafeHandler struct {
	CafeRepo *repository.CafeRepo
}

// ListCafes returns all cafes, most used first, so the dropdown
// surfaces frequent venues at the top.
func (h *AdminCafeHandler) ListCafes(c echo.Context) error {
	cafes, err := h.CafeRepo.ListByUsage(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list cafes failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cafes": cafes})
}
