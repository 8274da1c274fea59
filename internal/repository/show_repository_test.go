package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-directory/internal/model"
)

func TestShowRepo_CreateDefaultsToNow(t *testing.T) {
	f := setupTestDB(t)
	v := f.mustVenue(t, musicalHop())
	a := f.mustArtist(t, gunsNPetals())

	s := &model.Show{ArtistID: a.ID, VenueID: v.ID}
	require.NoError(t, f.shows.Create(context.Background(), s))
	assert.NotZero(t, s.ID)
	assert.True(t, s.Date.Equal(fixedNow))
}

func TestShowRepo_CreateNormalisesToUTCSeconds(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	v := f.mustVenue(t, musicalHop())
	a := f.mustArtist(t, gunsNPetals())

	pdt := time.FixedZone("PDT", -7*3600)
	s := f.mustShow(t, a.ID, v.ID, time.Date(2019, 5, 21, 14, 30, 0, 500, pdt))
	assert.Equal(t, time.UTC, s.Date.Location())
	assert.Zero(t, s.Date.Nanosecond())

	list, err := f.shows.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2019-05-21 21:30:00", list[0].StartTime)
}

func TestShowRepo_DuplicateArtistDateRejected(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	hop := f.mustVenue(t, musicalHop())
	park := musicalHop()
	park.Name = "Park Square Live Music & Coffee"
	f.mustVenue(t, park)
	a := f.mustArtist(t, gunsNPetals())

	at := fixedNow.Add(time.Hour)
	first := f.mustShow(t, a.ID, hop.ID, at)

	err := f.shows.Create(ctx, &model.Show{ArtistID: a.ID, VenueID: park.ID, Date: at})
	require.ErrorIs(t, err, ErrConstraint)

	list, err := f.shows.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, hop.ID, list[0].VenueID)
	assert.Equal(t, 1, f.count(t, `SELECT COUNT(*) FROM shows WHERE id = ?`, first.ID))
}

func TestShowRepo_UnknownReferencesRejected(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	v := f.mustVenue(t, musicalHop())
	a := f.mustArtist(t, gunsNPetals())

	tests := []struct {
		name string
		show model.Show
	}{
		{name: "unknown artist", show: model.Show{ArtistID: a.ID + 10, VenueID: v.ID, Date: fixedNow}},
		{name: "unknown venue", show: model.Show{ArtistID: a.ID, VenueID: v.ID + 10, Date: fixedNow}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.show
			assert.ErrorIs(t, f.shows.Create(ctx, &s), ErrConstraint)
			assert.Zero(t, s.ID)
		})
	}
	assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM shows`))
}

func TestShowRepo_List(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()

	list, err := f.shows.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	hop := f.mustVenue(t, musicalHop())
	petals := f.mustArtist(t, gunsNPetals())
	sax := gunsNPetals()
	sax.Name = "The Wild Sax Band"
	f.mustArtist(t, sax)

	f.mustShow(t, sax.ID, hop.ID, time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC))
	f.mustShow(t, petals.ID, hop.ID, time.Date(2019, 5, 21, 21, 30, 0, 0, time.UTC))

	list, err = f.shows.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.ShowListing{
		VenueID:         hop.ID,
		VenueName:       "The Musical Hop",
		ArtistID:        petals.ID,
		ArtistName:      "Guns N Petals",
		ArtistImageLink: petals.ImageLink,
		StartTime:       "2019-05-21 21:30:00",
	}, list[0])
	assert.Equal(t, "The Wild Sax Band", list[1].ArtistName)
	assert.Equal(t, "2035-04-01 20:00:00", list[1].StartTime)
}
