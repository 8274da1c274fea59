package model

// Venue is a place that hosts shows.  It corresponds to a row in the
// `venues` table plus the names held in `venue_genres`.  The tuple
// (Name, City, State, Address) is unique across all venues.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – display name of the venue.
//  City, State        – location; together they form the venue's area.
//  Address            – street address.
//  Phone              – contact number in XXX-XXX-XXXX form.
//  ImageLink          – URL of the venue picture.
//  FacebookLink       – URL of the venue's Facebook page.
//  WebsiteLink        – URL of the venue's website.
//  SeekingTalent      – whether the venue is looking for artists.
//  SeekingDescription – free text describing the talent wanted (may be empty).
//  Genres             – genre names attached to the venue.
type Venue struct {
    ID                 uint64   `json:"id"`                  // venues.id
    Name               string   `json:"name"`                // venues.name
    City               string   `json:"city"`                // venues.city
    State              string   `json:"state"`               // venues.state
    Address            string   `json:"address"`             // venues.address
    Phone              string   `json:"phone"`               // venues.phone
    ImageLink          string   `json:"image_link"`          // venues.image_link
    FacebookLink       string   `json:"facebook_link"`       // venues.facebook_link
    WebsiteLink        string   `json:"website_link"`        // venues.website_link
    SeekingTalent      bool     `json:"seeking_talent"`      // venues.seeking_talent
    SeekingDescription string   `json:"seeking_description"` // venues.seeking_description (nullable)
    Genres             []string `json:"genres"`              // venue_genres.name
}

// VenueShow is a show seen from the venue side: the performing artist is
// denormalised into the record.
type VenueShow struct {
    ArtistID        uint64 `json:"artist_id"`
    ArtistName      string `json:"artist_name"`
    ArtistImageLink string `json:"artist_image_link"`
    StartTime       string `json:"start_time"`
}

// VenueDetail is the full record rendered on a venue page.
type VenueDetail struct {
    Venue
    PastShows          []VenueShow `json:"past_shows"`
    UpcomingShows      []VenueShow `json:"upcoming_shows"`
    PastShowsCount     int         `json:"past_shows_count"`
    UpcomingShowsCount int         `json:"upcoming_shows_count"`
}

// Area groups the venues that share a city and state.
type Area struct {
    City   string          `json:"city"`
    State  string          `json:"state"`
    Venues []EntitySummary `json:"venues"`
}
