package repository

import (
	"context"
	"database/sql"

	"github.com/flowstate-hq/booking-api/internal/model"
)

// CafeRepo provides access to partner cafe records.
type CafeRepo struct {
	db *sql.DB
}

// NewCafeRepo returns a CafeRepo bound to the given database.
func NewCafeRepo(db *sql.DB) *CafeRepo { return &CafeRepo{db: db} }

// UpsertByName inserts a cafe with used_count = 1 or, when the name is
// already known, bumps its usage counter.  The UNIQUE KEY on name makes
// this a single atomic statement, so concurrent event creations cannot
// duplicate a cafe row.  Address and maps link are refreshed on reuse
// so the most recent event's details win.
func (r *CafeRepo) UpsertByName(ctx context.Context, name, address, mapsLink string) error {
	const q = `INSERT INTO cafes (name, address, maps_link, used_count)
	           VALUES (?, ?, ?, 1)
	           ON DUPLICATE KEY UPDATE
	             used_count = used_count + 1,
	             address = VALUES(address),
	             maps_link = VALUES(maps_link)`
	_, err := r.db.ExecContext(ctx, q, name, address, mapsLink)
	return err
}

// GetByName fetches a cafe by its unique name.  Returns sql.ErrNoRows
// when the cafe is unknown.
func (r *CafeRepo) GetByName(ctx context.Context, name string) (*model.Cafe, error) {
	const q = `SELECT id, name, address, maps_link, used_count, created_at
	           FROM cafes WHERE name = ?`
	var c model.Cafe
	err := r.db.QueryRowContext(ctx, q, name).Scan(
		&c.ID, &c.Name, &c.Address, &c.MapsLink, &c.UsedCount, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByUsage returns all cafes, most used first, for the admin
// dropdown.
func (r *CafeRepo) ListByUsage(ctx context.Context) ([]model.Cafe, error) {
	const q = `SELECT id, name, address, maps_link, used_count, created_at
	           FROM cafes ORDER BY used_count DESC, name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cafes := make([]model.Cafe, 0)
	for rows.Next() {
		var c model.Cafe
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.MapsLink, &c.UsedCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		cafes = append(cafes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cafes, nil
}
