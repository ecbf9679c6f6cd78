// Package repository implements data access for events, bookings and
// cafes on top of database/sql.  Sentinel errors defined here let the
// handler and workflow layers distinguish failure classes without
// parsing message strings.
package repository

import "errors"

// ErrEventNotFound is returned when an event id does not resolve to a
// stored row.  Handlers translate this into HTTP 404.
var ErrEventNotFound = errors.New("event not found")

// ErrEventFull is returned when the number of completed bookings has
// reached the event's seat capacity.  Handlers translate this into
// HTTP 400 and no booking row is created.
var ErrEventFull = errors.New("event is fully booked")

// ErrDuplicateBooking is returned when a booking with the same
// (order_id, payment_id) pair already exists.  Re-verifying the same
// payment must not double-book, so handlers reject with HTTP 400.
var ErrDuplicateBooking = errors.New("payment already recorded")
