package model

import "time"

// Cafe is a partner venue.  Rows are created lazily the first time an
// event references a new cafe name and the usage counter is bumped on
// every reuse, so the admin dropdown can rank cafes by popularity.
// Name is effectively unique: events look cafes up by name.
type Cafe struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	MapsLink  string    `json:"maps_link"`
	UsedCount uint32    `json:"used_count"`
	CreatedAt time.Time `json:"created_at"`
}
