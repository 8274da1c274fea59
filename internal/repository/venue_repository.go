// Package repository contains data access logic separated from HTTP handlers.
// This file implements venue persistence: the area listing, name search,
// detail page aggregation and the create/update/delete mutations.  Every
// mutation runs in its own transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/venue-directory/internal/model"
)

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

const venueColumns = `id, name, city, state, address, phone, image_link, facebook_link, website_link,
	seeking_talent, seeking_description`

// upcoming show count for the venue aliased v; the single argument is "now"
const venueUpcomingCount = `(SELECT COUNT(*) FROM shows s WHERE s.venue_id = v.id AND s.date > ?)`

// VenueRepo encapsulates all database queries related to venues.  It
// depends on a sql.DB connection which should be configured elsewhere.
type VenueRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db, now: time.Now}
}

// ListAreas groups every venue under its (city, state) pair.  Areas are
// ordered by state then city and venues inside an area by id.  Each venue
// carries the number of shows it hosts after the current instant.  When
// no venue exists the result is an empty slice.
func (r *VenueRepo) ListAreas(ctx context.Context) ([]model.Area, error) {
	q := `SELECT v.id, v.name, v.city, v.state, ` + venueUpcomingCount + `
	      FROM venues v
	      ORDER BY v.state, v.city, v.id`
	rows, err := r.db.QueryContext(ctx, q, r.now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := []model.Area{}
	for rows.Next() {
		var (
			s           model.EntitySummary
			city, state string
		)
		if err := rows.Scan(&s.ID, &s.Name, &city, &state, &s.NumUpcomingShows); err != nil {
			return nil, err
		}
		if n := len(areas); n == 0 || areas[n-1].City != city || areas[n-1].State != state {
			areas = append(areas, model.Area{City: city, State: state, Venues: []model.EntitySummary{}})
		}
		last := &areas[len(areas)-1]
		last.Venues = append(last.Venues, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return areas, nil
}

// Search returns every venue whose name contains term, ignoring case.  An
// empty term matches all venues.
func (r *VenueRepo) Search(ctx context.Context, term string) (*model.SearchResult, error) {
	q := `SELECT v.id, v.name, ` + venueUpcomingCount + `
	      FROM venues v
	      WHERE ` + nameMatches(r.db, "v.name") + `
	      ORDER BY v.id`
	rows, err := r.db.QueryContext(ctx, q, r.now().UTC(), containsPattern(term))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := &model.SearchResult{Data: []model.EntitySummary{}}
	for rows.Next() {
		var s model.EntitySummary
		if err := rows.Scan(&s.ID, &s.Name, &s.NumUpcomingShows); err != nil {
			return nil, err
		}
		res.Data = append(res.Data, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	res.Count = len(res.Data)
	return res, nil
}

// GetByID fetches a venue with its genres.  It returns ErrVenueNotFound
// if no row is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	return r.get(ctx, r.db, id)
}

func (r *VenueRepo) get(ctx context.Context, q querier, id uint64) (*model.Venue, error) {
	var (
		v    model.Venue
		desc sql.NullString
	)
	err := q.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id).Scan(
		&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone, &v.ImageLink,
		&v.FacebookLink, &v.WebsiteLink, &v.SeekingTalent, &desc,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	v.SeekingDescription = desc.String
	if v.Genres, err = venueGenres.list(ctx, q, id); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetDetail builds the venue page record: the venue, its genres and its
// shows split into past (before now) and upcoming (after now), each show
// carrying the performing artist's name and image.  A single "now" is
// used for both partitions.
func (r *VenueRepo) GetDetail(ctx context.Context, id uint64) (*model.VenueDetail, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := r.now().UTC()
	past, err := r.shows(ctx, id, "s.date < ?", now)
	if err != nil {
		return nil, err
	}
	upcoming, err := r.shows(ctx, id, "s.date > ?", now)
	if err != nil {
		return nil, err
	}
	return &model.VenueDetail{
		Venue:              *v,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

func (r *VenueRepo) shows(ctx context.Context, venueID uint64, when string, now time.Time) ([]model.VenueShow, error) {
	q := `SELECT s.artist_id, a.name, a.image_link, s.date
	      FROM shows s
	      JOIN artists a ON a.id = s.artist_id
	      WHERE s.venue_id = ? AND ` + when + `
	      ORDER BY s.date, s.id`
	rows, err := r.db.QueryContext(ctx, q, venueID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.VenueShow{}
	for rows.Next() {
		var (
			s    model.VenueShow
			date time.Time
		)
		if err := rows.Scan(&s.ArtistID, &s.ArtistName, &s.ArtistImageLink, &date); err != nil {
			return nil, err
		}
		s.StartTime = model.FormatStartTime(date)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new venue and one genre row per genre name in a single
// transaction.  On success the venue's ID field is populated; on failure
// nothing is stored.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `INSERT INTO venues (name, city, state, address, phone, image_link, facebook_link,
		           website_link, seeking_talent, seeking_description)
		           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.ImageLink,
			v.FacebookLink, v.WebsiteLink, v.SeekingTalent, nullable(v.SeekingDescription))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := venueGenres.add(ctx, tx, uint64(id), v.Genres); err != nil {
			return err
		}
		v.ID = uint64(id)
		return nil
	})
}

// Update overwrites every scalar field of the venue identified by v.ID and
// replaces its genre set with v.Genres.  It returns ErrVenueNotFound when
// the venue does not exist.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := exists(ctx, tx, `SELECT 1 FROM venues WHERE id = ?`, v.ID, ErrVenueNotFound); err != nil {
			return err
		}
		const q = `UPDATE venues
		           SET name = ?, city = ?, state = ?, address = ?, phone = ?, image_link = ?,
		               facebook_link = ?, website_link = ?, seeking_talent = ?, seeking_description = ?
		           WHERE id = ?`
		if _, err := tx.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.ImageLink,
			v.FacebookLink, v.WebsiteLink, v.SeekingTalent, nullable(v.SeekingDescription), v.ID); err != nil {
			return err
		}
		return venueGenres.replace(ctx, tx, v.ID, v.Genres)
	})
}

// Delete removes a venue together with its genre rows and every show it
// hosts.  The deletion occurs within a transaction to maintain integrity.
// If the venue does not exist, ErrVenueNotFound is returned.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := exists(ctx, tx, `SELECT 1 FROM venues WHERE id = ?`, id, ErrVenueNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM venue_genres WHERE venue_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = ?`, id); err != nil {
			return err
		}
		// Finally delete the venue
		_, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
		return err
	})
}

// exists runs a single-row lookup and maps an empty result to notFound.
func exists(ctx context.Context, tx *sql.Tx, q string, id uint64, notFound error) error {
	var one int
	if err := tx.QueryRowContext(ctx, q, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound
		}
		return err
	}
	return nil
}
