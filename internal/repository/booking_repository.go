package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/flowstate-hq/booking-api/internal/availability"
	"github.com/flowstate-hq/booking-api/internal/model"
)

// BookingRepo provides access to booking rows.  The critical write
// path, CreateCompleted, performs the capacity check and the insert in
// a single transaction so that two concurrent verified payments cannot
// both claim the last seat.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CountCompleted returns the number of completed bookings for an event.
// Used by the listing endpoints to derive availability.
func (r *BookingRepo) CountCompleted(ctx context.Context, eventID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE event_id = ? AND payment_status = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, eventID, model.PaymentStatusCompleted).Scan(&n)
	return n, err
}

// CreateCompleted atomically checks capacity for the booking's event
// and inserts the row with status completed.  The event row is locked
// with SELECT ... FOR UPDATE for the duration of the check-and-insert,
// which serialises concurrent confirmations per event.
//
// Returns ErrEventNotFound when the event does not exist, ErrEventFull
// when completed bookings have reached total_seats, and
// ErrDuplicateBooking when the (order_id, payment_id) pair was already
// recorded.  On success the generated ID, status and booked_at are
// populated on the provided struct.
func (r *BookingRepo) CreateCompleted(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the event row so no other transaction can run the capacity
	// check until we commit.
	var totalSeats uint32
	err = tx.QueryRowContext(ctx, `SELECT total_seats FROM events WHERE id = ? FOR UPDATE`, b.EventID).Scan(&totalSeats)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrEventNotFound
		}
		return err
	}

	var completed int
	const countQ = `SELECT COUNT(*) FROM bookings WHERE event_id = ? AND payment_status = ?`
	if err := tx.QueryRowContext(ctx, countQ, b.EventID, model.PaymentStatusCompleted).Scan(&completed); err != nil {
		return err
	}
	if !availability.HasSeats(totalSeats, completed) {
		return ErrEventFull
	}

	const ins = `INSERT INTO bookings
	             (event_id, user_name, user_email, user_phone, order_id, payment_id, payment_signature, amount, payment_status)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		b.EventID, b.UserName, b.UserEmail, b.UserPhone,
		b.OrderID, b.PaymentID, b.PaymentSignature, b.Amount, model.PaymentStatusCompleted)
	if err != nil {
		// UNIQUE KEY (order_id, payment_id) guards against verifying the
		// same payment twice.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateBooking
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.PaymentStatus = model.PaymentStatusCompleted

	if err := tx.QueryRowContext(ctx, `SELECT booked_at FROM bookings WHERE id = ?`, b.ID).Scan(&b.BookedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// BookingDetail is a booking joined with its event for the admin list.
type BookingDetail struct {
	model.Booking
	EventTitle     string `json:"event_title"`
	EventDate      string `json:"event_date"`
	EventStartTime string `json:"event_start_time"`
	EventEndTime   string `json:"event_end_time"`
	CafeName       string `json:"cafe_name"`
}

// ListWithEvent returns bookings newest first, each joined with its
// event's title, date, times and cafe.  When eventID is non-nil the
// list is restricted to that event.
func (r *BookingRepo) ListWithEvent(ctx context.Context, eventID *uint64) ([]BookingDetail, error) {
	q := `SELECT b.id, b.event_id, b.user_name, b.user_email, b.user_phone,
	             b.order_id, b.payment_id, b.payment_signature, b.amount, b.payment_status, b.booked_at,
	             e.title, e.date, e.start_time, e.end_time, e.cafe_name
	      FROM bookings b
	      JOIN events e ON e.id = b.event_id`
	args := make([]interface{}, 0, 1)
	if eventID != nil {
		q += ` WHERE b.event_id = ?`
		args = append(args, *eventID)
	}
	q += ` ORDER BY b.booked_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var phone, paymentID, signature sql.NullString
		var date time.Time
		if err := rows.Scan(
			&d.ID, &d.EventID, &d.UserName, &d.UserEmail, &phone,
			&d.OrderID, &paymentID, &signature, &d.Amount, &d.PaymentStatus, &d.BookedAt,
			&d.EventTitle, &date, &d.EventStartTime, &d.EventEndTime, &d.CafeName,
		); err != nil {
			return nil, err
		}
		if phone.Valid {
			p := phone.String
			d.UserPhone = &p
		}
		if paymentID.Valid {
			pid := paymentID.String
			d.PaymentID = &pid
		}
		if signature.Valid {
			sig := signature.String
			d.PaymentSignature = &sig
		}
		d.EventDate = date.Format("2006-01-02")
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
