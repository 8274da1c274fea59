// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// Event kinds published after a successful mutation.
const (
    VenueCreated  = "venue.created"
    VenueUpdated  = "venue.updated"
    VenueDeleted  = "venue.deleted"
    ArtistCreated = "artist.created"
    ArtistUpdated = "artist.updated"
    ShowCreated   = "show.created"
)

// DirectoryEvent is published when the directory changes.  It carries
// enough information for the activity log without querying the primary
// database.
type DirectoryEvent struct {
    Kind       string `json:"kind"`
    EntityID   uint64 `json:"entity_id"`
    EntityName string `json:"entity_name,omitempty"`
    ArtistID   uint64 `json:"artist_id,omitempty"`
    VenueID    uint64 `json:"venue_id,omitempty"`
    StartTime  string `json:"start_time,omitempty"`
    Actor      string `json:"actor"`
    OccurredAt string `json:"occurred_at"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(kind string, id uint64, name, actor string) DirectoryEvent {
    return DirectoryEvent{
        Kind:       kind,
        EntityID:   id,
        EntityName: name,
        Actor:      actor,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}
