package model

import "time"

// Event represents a scheduled coworking session hosted at a partner
// cafe.  Each event has a fixed seat capacity and a per-seat price in
// rupees.  Availability is never stored; it is always derived as
// total_seats minus the number of completed bookings.
//
// Fields:
//  ID           – primary key identifier.
//  Title        – public name of the session.
//  Date         – calendar date of the session (time portion is zero).
//  StartTime    – session start as "HH:MM:SS".
//  EndTime      – session end as "HH:MM:SS" (must be after StartTime).
//  TotalSeats   – seat capacity, always > 0.
//  Price        – price per seat in whole rupees.
//  CafeName     – venue name, also used to upsert the cafes table.
//  CafeAddress  – street address shown in confirmations.
//  CafeMapsLink – Google Maps URL for the venue.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Event struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Date         time.Time `json:"-"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	TotalSeats   uint32    `json:"total_seats"`
	Price        uint32    `json:"price"`
	CafeName     string    `json:"cafe_name"`
	CafeAddress  string    `json:"cafe_address"`
	CafeMapsLink string    `json:"cafe_maps_link"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DateString returns the event date in YYYY-MM-DD form, which is how
// dates travel over the API and are stored in the DATE column.
func (e Event) DateString() string {
	return e.Date.Format("2006-01-02")
}
