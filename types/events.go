package types

import "time"

// EventType classifies a library lifecycle event.
type EventType string

const (
	EventImported          EventType = "imported"
	EventAutoFixed         EventType = "auto_fixed"
	EventPlaylistGenerated EventType = "playlist_generated"
	EventPlaylistsMerged   EventType = "playlists_merged"
	EventPathsRewritten    EventType = "paths_rewritten"
	EventEnriched          EventType = "enriched"
	EventDeleted           EventType = "deleted"
	EventEvicted           EventType = "evicted"
)

// LibraryEvent is broadcast over the WebSocket feed whenever a library is
// created, mutated or removed.
type LibraryEvent struct {
	LibraryID     string    `json:"library_id"`
	Type          EventType `json:"type"`
	Detail        string    `json:"detail,omitempty"`
	TrackCount    int       `json:"track_count"`
	PlaylistCount int       `json:"playlist_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLibraryEvent builds the broadcast payload for a library. Callers hold at
// least a read lock on the library when counts must be consistent.
func NewLibraryEvent(lib *Library, eventType EventType, detail string) LibraryEvent {
	return LibraryEvent{
		LibraryID:     lib.ID,
		Type:          eventType,
		Detail:        detail,
		TrackCount:    len(lib.Tracks),
		PlaylistCount: len(lib.Playlists),
		Timestamp:     time.Now(),
	}
}
