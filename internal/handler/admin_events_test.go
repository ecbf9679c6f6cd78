package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEventRequest() EventRequest {
	return EventRequest{
		Title:       "Deep Work Morning",
		Date:        "2026-09-14",
		StartTime:   "09:00",
		EndTime:     "11:30",
		TotalSeats:  8,
		CafeName:    "Blue Tokai",
		CafeAddress: "12 Church Street, Bengaluru",
	}
}

func TestEventRequestValidate(t *testing.T) {
	req := validEventRequest()
	require.NoError(t, req.validate())
	assert.Equal(t, "09:00:00", req.StartTime, "clocks normalise to HH:MM:SS")
	assert.Equal(t, "11:30:00", req.EndTime)

	cases := []struct {
		name   string
		mutate func(*EventRequest)
	}{
		{"empty title", func(r *EventRequest) { r.Title = "  " }},
		{"bad date", func(r *EventRequest) { r.Date = "14-09-2026" }},
		{"bad start", func(r *EventRequest) { r.StartTime = "9am" }},
		{"bad end", func(r *EventRequest) { r.EndTime = "" }},
		{"end before start", func(r *EventRequest) { r.EndTime = "08:00" }},
		{"end equals start", func(r *EventRequest) { r.EndTime = "09:00" }},
		{"zero seats", func(r *EventRequest) { r.TotalSeats = 0 }},
		{"empty cafe", func(r *EventRequest) { r.CafeName = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validEventRequest()
			tc.mutate(&req)
			assert.Error(t, req.validate())
		})
	}
}

func TestEventRequestDefaultsPrice(t *testing.T) {
	req := validEventRequest()
	require.NoError(t, req.validate())

	e := req.toModel()
	assert.EqualValues(t, 600, e.Price, "omitted price falls back to the default")

	req.Price = 850
	e = req.toModel()
	assert.EqualValues(t, 850, e.Price)
}

func TestNormalizeClock(t *testing.T) {
	for in, want := range map[string]string{
		"09:00":    "09:00:00",
		"9:05":     "09:05:00",
		"23:59:59": "23:59:59",
		" 10:00 ":  "10:00:00",
	} {
		got, err := normalizeClock(in)
		require.NoError(t, err, "normalizeClock(%q)", in)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "noon", "25:00", "10:61"} {
		_, err := normalizeClock(in)
		assert.Error(t, err, "normalizeClock(%q)", in)
	}
}
