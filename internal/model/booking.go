package model

import "time"

// Payment status values for a booking.  Only completed bookings count
// toward an event's capacity.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Booking is a single attendee's confirmed reservation against an
// Event, tied to a payment gateway transaction.  Rows are created at
// payment-verification time with status "completed"; the confirmed
// flow never writes an intermediate pending row.  Bookings are
// cascade-deleted when their event is deleted.
type Booking struct {
	ID               uint64    `json:"id"`
	EventID          uint64    `json:"event_id"`
	UserName         string    `json:"user_name"`
	UserEmail        string    `json:"user_email"`
	UserPhone        *string   `json:"user_phone,omitempty"`
	OrderID          string    `json:"order_id"`
	PaymentID        *string   `json:"payment_id,omitempty"`
	PaymentSignature *string   `json:"-"`
	Amount           int64     `json:"amount"`
	PaymentStatus    string    `json:"payment_status"`
	BookedAt         time.Time `json:"booked_at"`
}

// Completed reports whether the booking consumes a seat.
func (b Booking) Completed() bool { return b.PaymentStatus == PaymentStatusCompleted }
