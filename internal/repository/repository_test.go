package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-directory/internal/database"
	"github.com/iliyamo/venue-directory/internal/model"
)

// fixedNow is the evaluation instant used by every repository test.
var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db      *sql.DB
	venues  *VenueRepo
	artists *ArtistRepo
	shows   *ShowRepo
}

func setupTestDB(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))

	clock := func() time.Time { return fixedNow }
	f := &fixture{
		db:      db,
		venues:  NewVenueRepo(db),
		artists: NewArtistRepo(db),
		shows:   NewShowRepo(db),
	}
	f.venues.now = clock
	f.artists.now = clock
	f.shows.now = clock
	return f
}

func musicalHop() *model.Venue {
	return &model.Venue{
		Name:               "The Musical Hop",
		City:               "San Francisco",
		State:              "CA",
		Address:            "1015 Folsom Street",
		Phone:              "123-123-1234",
		ImageLink:          "https://images.example.com/hop.jpg",
		FacebookLink:       "https://www.facebook.com/TheMusicalHop",
		WebsiteLink:        "https://www.themusicalhop.com",
		SeekingTalent:      true,
		SeekingDescription: "We are on the lookout for a local artist to play every two weeks.",
		Genres:             []string{"Jazz", "Reggae", "Classical", "Folk"},
	}
}

func gunsNPetals() *model.Artist {
	return &model.Artist{
		Name:               "Guns N Petals",
		City:               "San Francisco",
		State:              "CA",
		Phone:              "326-123-5000",
		ImageLink:          "https://images.example.com/petals.jpg",
		FacebookLink:       "https://www.facebook.com/GunsNPetals",
		WebsiteLink:        "https://www.gunsnpetalsband.com",
		SeekingVenues:      true,
		SeekingDescription: "Looking for shows in the Bay Area!",
		Genres:             []string{"Rock n Roll"},
	}
}

func (f *fixture) mustVenue(t *testing.T, v *model.Venue) *model.Venue {
	t.Helper()
	require.NoError(t, f.venues.Create(context.Background(), v))
	return v
}

func (f *fixture) mustArtist(t *testing.T, a *model.Artist) *model.Artist {
	t.Helper()
	require.NoError(t, f.artists.Create(context.Background(), a))
	return a
}

func (f *fixture) mustShow(t *testing.T, artistID, venueID uint64, at time.Time) *model.Show {
	t.Helper()
	s := &model.Show{ArtistID: artistID, VenueID: venueID, Date: at}
	require.NoError(t, f.shows.Create(context.Background(), s))
	return s
}

func (f *fixture) count(t *testing.T, q string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow(q, args...).Scan(&n))
	return n
}
