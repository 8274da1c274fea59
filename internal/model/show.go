package model

import "time"

// StartTimeLayout is the format used whenever a show time is rendered.
const StartTimeLayout = "2006-01-02 15:04:05"

// Show is a performance of one artist at one venue.  Whether a show is
// past or upcoming is derived from Date at query time and never stored.
// An artist cannot have two shows at the identical instant.
//
// Fields:
//  ID       – primary key identifier.
//  ArtistID – performing artist.
//  VenueID  – hosting venue.
//  Date     – start of the show (UTC, whole seconds).
type Show struct {
    ID       uint64    // shows.id
    ArtistID uint64    // shows.artist_id
    VenueID  uint64    // shows.venue_id
    Date     time.Time // shows.date
}

// ShowListing is a show annotated with the names needed by the show index.
type ShowListing struct {
    VenueID         uint64 `json:"venue_id"`
    VenueName       string `json:"venue_name"`
    ArtistID        uint64 `json:"artist_id"`
    ArtistName      string `json:"artist_name"`
    ArtistImageLink string `json:"artist_image_link"`
    StartTime       string `json:"start_time"`
}

// EntitySummary is a venue or artist reduced to what listing and search
// pages show.
type EntitySummary struct {
    ID               uint64 `json:"id"`
    Name             string `json:"name"`
    NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// SearchResult holds every match of a name search.
type SearchResult struct {
    Count int             `json:"count"`
    Data  []EntitySummary `json:"data"`
}

// FormatStartTime renders t the way show times are displayed.
func FormatStartTime(t time.Time) string {
    return t.UTC().Format(StartTimeLayout)
}
