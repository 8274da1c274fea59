package model

// State is a US state or territory code accepted for venues and artists.
type State string

// Genre is a music genre name accepted for venues and artists.
type Genre string

// States lists every accepted state code in display order.
var States = []State{
    "AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL",
    "GA", "HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME",
    "MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH",
    "OK", "OR", "MD", "MA", "MI", "MN", "MS", "MO", "PA", "RI",
    "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI",
    "WY",
}

// Genres lists every accepted genre in display order.
var Genres = []Genre{
    "Alternative",
    "Blues",
    "Classical",
    "Country",
    "Electronic",
    "Folk",
    "Funk",
    "Hip-Hop",
    "Heavy Metal",
    "Instrumental",
    "Jazz",
    "Musical Theatre",
    "Pop",
    "Punk",
    "R&B",
    "Reggae",
    "Rock n Roll",
    "Soul",
    "Other",
}

var (
    stateSet = make(map[State]bool, len(States))
    genreSet = make(map[Genre]bool, len(Genres))
)

func init() {
    for _, s := range States {
        stateSet[s] = true
    }
    for _, g := range Genres {
        genreSet[g] = true
    }
}

// Valid reports whether s is one of States.
func (s State) Valid() bool { return stateSet[s] }

// Valid reports whether g is one of Genres.
func (g Genre) Valid() bool { return genreSet[g] }
