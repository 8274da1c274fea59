// Package repository contains data access logic for Artist operations. This
// file mirrors the venue repository for performers: index, name search,
// detail page aggregation and create/update mutations.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/venue-directory/internal/model"
)

// ErrArtistNotFound indicates that an artist was not located in the DB.
var ErrArtistNotFound = errors.New("artist not found")

const artistColumns = `id, name, city, state, phone, image_link, facebook_link, website_link,
	seeking_venues, seeking_description`

// upcoming show count for the artist aliased a; the single argument is "now"
const artistUpcomingCount = `(SELECT COUNT(*) FROM shows s WHERE s.artist_id = a.id AND s.date > ?)`

// ArtistRepo manages persistence for artists.
type ArtistRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewArtistRepo constructs an ArtistRepo with the given DB handle.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db, now: time.Now}
}

// List returns the id and name of every artist ordered by id.
func (r *ArtistRepo) List(ctx context.Context) ([]model.ArtistRef, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM artists ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ArtistRef{}
	for rows.Next() {
		var a model.ArtistRef
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns every artist whose name contains term, ignoring case.
func (r *ArtistRepo) Search(ctx context.Context, term string) (*model.SearchResult, error) {
	q := `SELECT a.id, a.name, ` + artistUpcomingCount + `
	      FROM artists a
	      WHERE ` + nameMatches(r.db, "a.name") + `
	      ORDER BY a.id`
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

// GetByID retrieves an artist with its genres.  It returns
// ErrArtistNotFound if there is no matching row.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	var (
		a                       model.Artist
		facebook, website, desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = ?`, id).Scan(
		&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &a.ImageLink,
		&facebook, &website, &a.SeekingVenues, &desc,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	a.FacebookLink = facebook.String
	a.WebsiteLink = website.String
	a.SeekingDescription = desc.String
	if a.Genres, err = artistGenres.list(ctx, r.db, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetDetail builds the artist page record with past and upcoming shows,
// each carrying the hosting venue's name and image.
func (r *ArtistRepo) GetDetail(ctx context.Context, id uint64) (*model.ArtistDetail, error) {
	a, err := r.GetByID(ctx, id)
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
	return &model.ArtistDetail{
		Artist:             *a,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

func (r *ArtistRepo) shows(ctx context.Context, artistID uint64, when string, now time.Time) ([]model.ArtistShow, error) {
	q := `SELECT s.venue_id, v.name, v.image_link, s.date
	      FROM shows s
	      JOIN venues v ON v.id = s.venue_id
	      WHERE s.artist_id = ? AND ` + when + `
	      ORDER BY s.date, s.id`
	rows, err := r.db.QueryContext(ctx, q, artistID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ArtistShow{}
	for rows.Next() {
		var (
			s    model.ArtistShow
			date time.Time
		)
		if err := rows.Scan(&s.VenueID, &s.VenueName, &s.VenueImageLink, &date); err != nil {
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

// Create inserts a new artist and its genre rows in one transaction and
// assigns the generated ID back to the artist.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `INSERT INTO artists (name, city, state, phone, image_link, facebook_link, website_link,
		           seeking_venues, seeking_description)
		           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.ImageLink,
			nullable(a.FacebookLink), nullable(a.WebsiteLink), a.SeekingVenues, nullable(a.SeekingDescription))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := artistGenres.add(ctx, tx, uint64(id), a.Genres); err != nil {
			return err
		}
		a.ID = uint64(id)
		return nil
	})
}

// Update overwrites the artist's scalar fields and replaces its genre set.
// When the row doesn't exist it returns ErrArtistNotFound.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := exists(ctx, tx, `SELECT 1 FROM artists WHERE id = ?`, a.ID, ErrArtistNotFound); err != nil {
			return err
		}
		const q = `UPDATE artists
		           SET name = ?, city = ?, state = ?, phone = ?, image_link = ?, facebook_link = ?,
		               website_link = ?, seeking_venues = ?, seeking_description = ?
		           WHERE id = ?`
		if _, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.ImageLink,
			nullable(a.FacebookLink), nullable(a.WebsiteLink), a.SeekingVenues, nullable(a.SeekingDescription),
			a.ID); err != nil {
			return err
		}
		return artistGenres.replace(ctx, tx, a.ID, a.Genres)
	})
}
