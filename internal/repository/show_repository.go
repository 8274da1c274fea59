// Package repository contains data access logic for Show domain operations. A
// Show links one artist to one venue at one instant; whether it is past
// or upcoming is computed by the venue and artist queries.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/venue-directory/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db, now: time.Now}
}

// Create inserts a new show and assigns the generated ID back to the show
// struct.  A zero Date is replaced by the current time.  The artist and
// venue are not looked up first: the foreign keys and the (artist, date)
// uniqueness rule reject bad rows, surfacing as ErrConstraint.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	if s.Date.IsZero() {
		s.Date = r.now()
	}
	s.Date = s.Date.UTC().Truncate(time.Second)

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `INSERT INTO shows (date, artist_id, venue_id) VALUES (?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, s.Date, s.ArtistID, s.VenueID)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		s.ID = uint64(id)
		return nil
	})
}

// List returns every show with the venue and artist names needed by the
// show index, ordered by start time.
func (r *ShowRepo) List(ctx context.Context) ([]model.ShowListing, error) {
	const q = `SELECT s.venue_id, v.name, s.artist_id, a.name, a.image_link, s.date
	           FROM shows s
	           JOIN venues v  ON v.id = s.venue_id
	           JOIN artists a ON a.id = s.artist_id
	           ORDER BY s.date, s.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ShowListing{}
	for rows.Next() {
		var (
			l    model.ShowListing
			date time.Time
		)
		if err := rows.Scan(&l.VenueID, &l.VenueName, &l.ArtistID, &l.ArtistName, &l.ArtistImageLink, &date); err != nil {
			return nil, err
		}
		l.StartTime = model.FormatStartTime(date)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
