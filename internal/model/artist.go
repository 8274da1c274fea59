package model

// Artist is a performer.  It corresponds to a row in the `artists` table
// plus the names held in `artist_genres`.  The tuple (Name, City, State,
// Phone) is unique across all artists.  FacebookLink, WebsiteLink and
// SeekingDescription are optional and stored as NULL when empty.
type Artist struct {
    ID                 uint64   `json:"id"`                  // artists.id
    Name               string   `json:"name"`                // artists.name
    City               string   `json:"city"`                // artists.city
    State              string   `json:"state"`               // artists.state
    Phone              string   `json:"phone"`               // artists.phone
    ImageLink          string   `json:"image_link"`          // artists.image_link
    FacebookLink       string   `json:"facebook_link"`       // artists.facebook_link (nullable)
    WebsiteLink        string   `json:"website_link"`        // artists.website_link (nullable)
    SeekingVenues      bool     `json:"seeking_venues"`      // artists.seeking_venues
    SeekingDescription string   `json:"seeking_description"` // artists.seeking_description (nullable)
    Genres             []string `json:"genres"`              // artist_genres.name
}

// ArtistShow is a show seen from the artist side: the hosting venue is
// denormalised into the record.
type ArtistShow struct {
    VenueID        uint64 `json:"venue_id"`
    VenueName      string `json:"venue_name"`
    VenueImageLink string `json:"venue_image_link"`
    StartTime      string `json:"start_time"`
}

// ArtistDetail is the full record rendered on an artist page.
type ArtistDetail struct {
    Artist
    PastShows          []ArtistShow `json:"past_shows"`
    UpcomingShows      []ArtistShow `json:"upcoming_shows"`
    PastShowsCount     int          `json:"past_shows_count"`
    UpcomingShowsCount int          `json:"upcoming_shows_count"`
}

// ArtistRef is the minimal artist entry used by the artist index.
type ArtistRef struct {
    ID   uint64 `json:"id"`
    Name string `json:"name"`
}
