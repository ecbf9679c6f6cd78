package repository

import (
	"context"
	"database/sql"

	"github.com/flowstate-hq/booking-api/internal/model"
)

// EventRepo provides CRUD operations for events.  Date columns are
// DATE and scan into time.Time (parseTime=true, UTC); start_time and
// end_time are TIME columns and scan into strings.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// that span repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `id, title, date, start_time, end_time, total_seats, price,
       cafe_name, cafe_address, cafe_maps_link, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }, e *model.Event) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Date, &e.StartTime, &e.EndTime, &e.TotalSeats, &e.Price,
		&e.CafeName, &e.CafeAddress, &e.CafeMapsLink, &e.CreatedAt, &e.UpdatedAt,
	)
}

// GetByID fetches a single event.  Returns ErrEventNotFound when the
// id does not exist.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	var e model.Event
	if err := scanEvent(r.db.QueryRowContext(ctx, q, id), &e); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListUpcoming returns events scheduled for today or later, ordered by
// date then start time.  The caller derives availability per event.
func (r *EventRepo) ListUpcoming(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events
	           WHERE date >= CURDATE()
	           ORDER BY date ASC, start_time ASC`
	return r.list(ctx, q)
}

// ListByDate returns events on a specific calendar date (YYYY-MM-DD).
func (r *EventRepo) ListByDate(ctx context.Context, date string) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events
	           WHERE date = ?
	           ORDER BY start_time ASC`
	return r.list(ctx, q, date)
}

// ListAll returns every event for the admin panel, ordered by date then
// start time.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events
	           ORDER BY date ASC, start_time ASC`
	return r.list(ctx, q)
}

func (r *EventRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Create inserts a new event and populates the generated ID and
// timestamps on the provided struct.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events
	           (title, date, start_time, end_time, total_seats, price, cafe_name, cafe_address, cafe_maps_link)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.Title, e.DateString(), e.StartTime, e.EndTime, e.TotalSeats, e.Price,
		e.CafeName, e.CafeAddress, e.CafeMapsLink)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	return scanEvent(r.db.QueryRowContext(ctx, sel, e.ID), e)
}

// Update rewrites all editable columns of an event.  Returns
// ErrEventNotFound when the id does not exist.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	const q = `UPDATE events SET
	           title = ?, date = ?, start_time = ?, end_time = ?, total_seats = ?, price = ?,
	           cafe_name = ?, cafe_address = ?, cafe_maps_link = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		e.Title, e.DateString(), e.StartTime, e.EndTime, e.TotalSeats, e.Price,
		e.CafeName, e.CafeAddress, e.CafeMapsLink, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 for a no-op update of an existing row;
		// check existence to keep the not-found contract honest.
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, e.ID).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				return ErrEventNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	return scanEvent(r.db.QueryRowContext(ctx, sel, e.ID), e)
}

// Delete removes an event.  Bookings referencing it are removed by the
// ON DELETE CASCADE foreign key.  Returns ErrEventNotFound when the id
// does not exist.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}
