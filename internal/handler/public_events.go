// Package handler exposes HTTP handlers for both public and admin
// endpoints.  This file defines the public browsing API: upcoming
// events and day slots for the booking page.  Responses carry derived
// availability but never raw booking rows or admin-only fields.
package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flowstate-hq/booking-api/internal/availability"
	"github.com/flowstate-hq/booking-api/internal/model"
	"github.com/flowstate-hq/booking-api/internal/repository"
)

// PublicHandler aggregates the repositories needed for unauthenticated
// browsing.
type PublicHandler struct {
	EventRepo   *repository.EventRepo
	BookingRepo *repository.BookingRepo
}

// PublicEvent is an upcoming event as exposed on the booking page.
// Availability is derived per request; it is never a stored column.
type PublicEvent struct {
	ID             uint64 `json:"id"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	TotalSeats     uint32 `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
	Price          uint32 `json:"price"`
	CafeName       string `json:"cafe_name"`
	CafeAddress    string `json:"cafe_address"`
	CafeMapsLink   string `json:"cafe_maps_link"`
}

// Slot is a bookable window on a given date.  The label is the
// human-readable form shown on the slot picker, e.g. "9:00 AM - 11:30 AM".
type Slot struct {
	EventID        uint64 `json:"event_id"`
	Time           string `json:"time"`
	Title          string `json:"title"`
	AvailableSeats int    `json:"available_seats"`
	Price          uint32 `json:"price"`
	CafeName       string `json:"cafe_name"`
	CafeAddress    string `json:"cafe_address"`
	CafeMapsLink   string `json:"cafe_maps_link"`
}

// GetEvents lists upcoming events (today or later) that still have
// seats.  Fully booked events are filtered out rather than shown as
// sold out.
func (h *PublicHandler) GetEvents(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.EventRepo.ListUpcoming(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicEvent, 0, len(events))
	for _, e := range events {
		completed, err := h.BookingRepo.CountCompleted(ctx, e.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		avail := availability.Available(e.TotalSeats, completed)
		if avail <= 0 {
			continue
		}
		out = append(out, PublicEvent{
			ID:             e.ID,
			Title:          e.Title,
			Date:           e.DateString(),
			StartTime:      e.StartTime,
			EndTime:        e.EndTime,
			TotalSeats:     e.TotalSeats,
			AvailableSeats: avail,
			Price:          e.Price,
			CafeName:       e.CafeName,
			CafeAddress:    e.CafeAddress,
			CafeMapsLink:   e.CafeMapsLink,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}

// GetSlots lists the bookable slots for one calendar date.  Weekends
// always return an empty list: sessions run on weekdays only, and the
// rule is enforced server-side so a crafted request cannot book a
// Saturday.  A missing or malformed date is a 400.
func (h *PublicHandler) GetSlots(c echo.Context) error {
	ctx := c.Request().Context()
	raw := c.QueryParam("date")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	if isWeekend(date) {
		return c.JSON(http.StatusOK, echo.Map{"slots": []Slot{}})
	}

	events, err := h.EventRepo.ListByDate(ctx, raw)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	slots := make([]Slot, 0, len(events))
	for _, e := range events {
		completed, err := h.BookingRepo.CountCompleted(ctx, e.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		avail := availability.Available(e.TotalSeats, completed)
		if avail <= 0 {
			continue
		}
		slots = append(slots, Slot{
			EventID:        e.ID,
			Time:           slotLabel(e),
			Title:          e.Title,
			AvailableSeats: avail,
			Price:          e.Price,
			CafeName:       e.CafeName,
			CafeAddress:    e.CafeAddress,
			CafeMapsLink:   e.CafeMapsLink,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": slots})
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// slotLabel renders the event window as "H:MM AM - H:MM PM".
func slotLabel(e model.Event) string {
	return clock12(e.StartTime) + " - " + clock12(e.EndTime)
}

// clock12 converts an "HH:MM[:SS]" clock string to 12-hour form with no
// leading zero on the hour.  Malformed input is returned unchanged so a
// bad row degrades the label rather than the whole listing.
func clock12(clock string) string {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return clock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return clock
	}
	meridiem := "AM"
	if h >= 12 {
		meridiem = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return strconv.Itoa(h12) + ":" + parts[1] + " " + meridiem
}
