// Package queue defines the message payloads exchanged over RabbitMQ
// and the background consumers that process them.  Two streams exist:
// booking.confirmed carries an audit record for every persisted
// booking, and notification.retry carries confirmation emails that
// failed to send and should be re-attempted out-of-band.
package queue

// BookingConfirmedEvent is published after a booking row is persisted.
// It contains enough information for downstream consumers to log or
// notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID  uint64 `json:"booking_id"`
	EventID    uint64 `json:"event_id"`
	EventTitle string `json:"event_title"`
	EventDate  string `json:"event_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	CafeName   string `json:"cafe_name"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	OrderID    string `json:"order_id"`
	Amount     int64  `json:"amount"`
	BookedAt   string `json:"booked_at"`
}

// NotificationRetryEvent asks the notification consumer to re-attempt
// a confirmation email.  It is keyed on the booking id and carries the
// full rendering payload so the retry never has to re-run payment
// verification or touch the bookings table.  Start and End are RFC3339
// UTC instants.
type NotificationRetryEvent struct {
	BookingID    uint64 `json:"booking_id"`
	Attempt      int    `json:"attempt"`
	To           string `json:"to"`
	UserName     string `json:"user_name"`
	SessionTime  string `json:"session_time"`
	OrderID      string `json:"order_id"`
	Amount       int64  `json:"amount"`
	Start        string `json:"start"`
	End          string `json:"end"`
	CafeName     string `json:"cafe_name"`
	CafeAddress  string `json:"cafe_address"`
	CafeMapsLink string `json:"cafe_maps_link"`
}
