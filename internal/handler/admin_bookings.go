package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/flowstate-hq/booking-api/internal/repository"
)

// AdminBookingHandler lists bookings for the admin panel.
type AdminBookingHandler struct {
	BookingRepo *repository.BookingRepo
}

// ListBookings returns all bookings newest first, each joined with its
// event details.  An optional event_id query restricts the list to one
// event.  Export to CSV happens client-side from this payload.
func (h *AdminBookingHandler) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()

	var eventID *uint64
	if raw := c.QueryParam("event_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
		}
		eventID = &id
	}

	bookings, err := h.BookingRepo.ListWithEvent(ctx, eventID)
	if err != nil {
		c.Logger().Errorf("list bookings failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}
