package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowstate-hq/booking-api/internal/model"
)

func TestClock12(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:00:00", "9:00 AM"},
		{"00:15:00", "12:15 AM"},
		{"12:00:00", "12:00 PM"},
		{"13:30:00", "1:30 PM"},
		{"23:45:00", "11:45 PM"},
		{"9:00", "9:00 AM"},
		{"garbage", "garbage"},
		{"25:00:00", "25:00:00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, clock12(tc.in), "clock12(%q)", tc.in)
	}
}

func TestSlotLabel(t *testing.T) {
	e := model.Event{StartTime: "09:00:00", EndTime: "11:30:00"}
	assert.Equal(t, "9:00 AM - 11:30 AM", slotLabel(e))

	e = model.Event{StartTime: "14:00:00", EndTime: "17:00:00"}
	assert.Equal(t, "2:00 PM - 5:00 PM", slotLabel(e))
}

// The weekend and bad-date paths return before any repository call, so
// a zero-value handler is enough to exercise them.
func TestGetSlotsRejectsMissingOrInvalidDate(t *testing.T) {
	h := &PublicHandler{}
	e := echo.New()

	for _, q := range []string{"", "date=not-a-date", "date=14-09-2026"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/slots?"+q, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, h.GetSlots(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", q)
	}
}

func TestGetSlotsWeekendIsAlwaysEmpty(t *testing.T) {
	h := &PublicHandler{}
	e := echo.New()

	// 2026-09-12 is a Saturday, 2026-09-13 a Sunday.
	for _, date := range []string{"2026-09-12", "2026-09-13"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/slots?date="+date, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, h.GetSlots(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Slots []Slot `json:"slots"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Empty(t, body.Slots, "no slots may exist on %s", date)
	}
}
