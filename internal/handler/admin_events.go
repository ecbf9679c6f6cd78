package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flowstate-hq/booking-api/internal/availability"
	"github.com/flowstate-hq/booking-api/internal/model"
	"github.com/flowstate-hq/booking-api/internal/repository"
)

// defaultPricePerSeat is the per-seat charge in rupees applied when an
// event is created without an explicit price.
const defaultPricePerSeat = 600

// AdminEventHandler provides event CRUD for the admin panel.
type AdminEventHandler struct {
	EventRepo   *repository.EventRepo
	BookingRepo *repository.BookingRepo
	CafeRepo    *repository.CafeRepo
}

// EventRequest is the body for event create and update.  Times accept
// "HH:MM" or "HH:MM:SS".
type EventRequest struct {
	Title        string `json:"title"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	TotalSeats   uint32 `json:"total_seats"`
	Price        uint32 `json:"price"`
	CafeName     string `json:"cafe_name"`
	CafeAddress  string `json:"cafe_address"`
	CafeMapsLink string `json:"cafe_maps_link"`
}

// AdminEvent is an event in admin list responses, carrying derived
// booking counts alongside the stored columns.
type AdminEvent struct {
	ID             uint64 `json:"id"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	TotalSeats     uint32 `json:"total_seats"`
	BookedSeats    int    `json:"booked_seats"`
	AvailableSeats int    `json:"available_seats"`
	Price          uint32 `json:"price"`
	CafeName       string `json:"cafe_name"`
	CafeAddress    string `json:"cafe_address"`
	CafeMapsLink   string `json:"cafe_maps_link"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// validate checks required fields and normalises the clock strings.
// Unlike the public listing, admin validation errors name the offending
// field; the admin is a trusted operator fixing their own input.
func (r *EventRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	start, err := normalizeClock(r.StartTime)
	if err != nil {
		return errors.New("start_time must be HH:MM or HH:MM:SS")
	}
	end, err := normalizeClock(r.EndTime)
	if err != nil {
		return errors.New("end_time must be HH:MM or HH:MM:SS")
	}
	if end <= start {
		return errors.New("end_time must be after start_time")
	}
	r.StartTime = start
	r.EndTime = end
	if r.TotalSeats == 0 {
		return errors.New("total_seats must be greater than zero")
	}
	if strings.TrimSpace(r.CafeName) == "" {
		return errors.New("cafe_name is required")
	}
	return nil
}

func (r *EventRequest) toModel() *model.Event {
	date, _ := time.Parse("2006-01-02", r.Date)
	price := r.Price
	if price == 0 {
		price = defaultPricePerSeat
	}
	return &model.Event{
		Title:        strings.TrimSpace(r.Title),
		Date:         date,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		TotalSeats:   r.TotalSeats,
		Price:        price,
		CafeName:     strings.TrimSpace(r.CafeName),
		CafeAddress:  strings.TrimSpace(r.CafeAddress),
		CafeMapsLink: strings.TrimSpace(r.CafeMapsLink),
	}
}

// ListEvents returns every event with booked and available counts, for
// the admin table.  Sold-out events are included here; only the public
// listing hides them.
func (h *AdminEventHandler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.EventRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]AdminEvent, 0, len(events))
	for _, e := range events {
		completed, err := h.BookingRepo.CountCompleted(ctx, e.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		out = append(out, adminEventFrom(e, completed))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}

// CreateEvent validates and inserts a new event, then upserts the cafe
// so repeat venues accumulate a usage count for the venue dropdown.
func (h *AdminEventHandler) CreateEvent(c echo.Context) error {
	ctx := c.Request().Context()
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	event := req.toModel()
	if err := h.EventRepo.Create(ctx, event); err != nil {
		c.Logger().Errorf("create event failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// Cafe bookkeeping is best effort; the event is already persisted.
	if err := h.CafeRepo.UpsertByName(ctx, event.CafeName, event.CafeAddress, event.CafeMapsLink); err != nil {
		c.Logger().Errorf("upsert cafe %q failed: %v", event.CafeName, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"event": adminEventFrom(*event, 0)})
}

// UpdateEvent rewrites an existing event's editable columns.
func (h *AdminEventHandler) UpdateEvent(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	event := req.toModel()
	event.ID = id
	if err := h.EventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		c.Logger().Errorf("update event %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	completed, err := h.BookingRepo.CountCompleted(ctx, event.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event": adminEventFrom(*event, completed)})
}

// DeleteEvent removes an event; its bookings go with it via the
// cascading foreign key.
func (h *AdminEventHandler) DeleteEvent(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.EventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		c.Logger().Errorf("delete event %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}

func adminEventFrom(e model.Event, completed int) AdminEvent {
	return AdminEvent{
		ID:             e.ID,
		Title:          e.Title,
		Date:           e.DateString(),
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		TotalSeats:     e.TotalSeats,
		BookedSeats:    completed,
		AvailableSeats: availability.Available(e.TotalSeats, completed),
		Price:          e.Price,
		CafeName:       e.CafeName,
		CafeAddress:    e.CafeAddress,
		CafeMapsLink:   e.CafeMapsLink,
		CreatedAt:      e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// normalizeClock validates an "HH:MM" or "HH:MM:SS" clock string and
// returns it in the canonical "HH:MM:SS" form used by the TIME columns.
func normalizeClock(clock string) (string, error) {
	clock = strings.TrimSpace(clock)
	if t, err := time.Parse("15:04:05", clock); err == nil {
		return t.Format("15:04:05"), nil
	}
	if t, err := time.Parse("15:04", clock); err == nil {
		return t.Format("15:04:05"), nil
	}
	return "", errors.New("invalid clock")
}
