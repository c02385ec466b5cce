package types

import "github.com/google/uuid"

// FallbackDurationSeconds is substituted for tracks with no known duration
// when sizing smart playlists and totaling playtime. It is never written
// back into a track.
const FallbackDurationSeconds = 300

// Track is the canonical, format-independent representation of one track.
// Numeric and key fields are pointers: nil means the source format carried
// no value. A literal year of 0 is representable and preserved as-is; only
// the auto-fix operation converts it to nil.
type Track struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Artist          string         `json:"artist"`
	FilePath        string         `json:"file_path"`
	BPM             *float64       `json:"bpm"`
	Key             *string        `json:"key"`
	Year            *int           `json:"year"`
	DurationSeconds *int           `json:"duration_seconds"`
	Tags            []string       `json:"tags"`
	CustomFields    map[string]any `json:"custom_fields"`
}

// Playlist is an ordered sequence of track ids. Order is playback order and
// repeats are allowed; deduplication only happens when a merge asks for it.
type Playlist struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	TrackIDs []string `json:"track_ids"`
	FolderID *string  `json:"folder_id"`
}

// Folder groups playlists into a tree. ParentID nil means root level.
type Folder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// Library is the aggregate created by one import. Tracks and playlists keep
// insertion order for deterministic iteration; the id indexes are rebuilt
// incrementally as items are added.
type Library struct {
	ID           string      `json:"id"`
	SourceFormat string      `json:"source_format"`
	Tracks       []*Track    `json:"tracks"`
	Playlists    []*Playlist `json:"playlists"`
	Folders      []*Folder   `json:"folders"`

	trackIndex    map[string]*Track
	playlistIndex map[string]*Playlist
	folderIndex   map[string]*Folder
}

// NewLibrary creates an empty library tagged with its source format.
func NewLibrary(sourceFormat string) *Library {
	return &Library{
		ID:            uuid.New().String(),
		SourceFormat:  sourceFormat,
		Tracks:        []*Track{},
		Playlists:     []*Playlist{},
		Folders:       []*Folder{},
		trackIndex:    make(map[string]*Track),
		playlistIndex: make(map[string]*Playlist),
		folderIndex:   make(map[string]*Folder),
	}
}

// AddTrack appends a track, assigning an id when the caller did not. Tags and
// custom fields are always non-nil so the track serializes as [] and {}.
func (l *Library) AddTrack(t *Track) *Track {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.CustomFields == nil {
		t.CustomFields = map[string]any{}
	}
	l.Tracks = append(l.Tracks, t)
	l.trackIndex[t.ID] = t
	return t
}

// AddPlaylist appends a playlist after verifying every referenced track id
// exists in this library. Referential integrity is checked here, at
// construction, and never re-validated lazily.
func (l *Library) AddPlaylist(name string, trackIDs []string) (*Playlist, error) {
	for _, id := range trackIDs {
		if _, ok := l.trackIndex[id]; !ok {
			return nil, &NotFoundError{Kind: "track", ID: id}
		}
	}
	if trackIDs == nil {
		trackIDs = []string{}
	}
	p := &Playlist{
		ID:       uuid.New().String(),
		Name:     name,
		TrackIDs: trackIDs,
	}
	l.Playlists = append(l.Playlists, p)
	l.playlistIndex[p.ID] = p
	return p, nil
}

// AddFolder appends a folder. The caller is responsible for parent existence
// and cycle checks.
func (l *Library) AddFolder(name string, parentID *string) *Folder {
	f := &Folder{
		ID:       uuid.New().String(),
		Name:     name,
		ParentID: parentID,
	}
	l.Folders = append(l.Folders, f)
	l.folderIndex[f.ID] = f
	return f
}

// RemoveFolder deletes a folder by id and reports whether it existed.
func (l *Library) RemoveFolder(id string) bool {
	if _, ok := l.folderIndex[id]; !ok {
		return false
	}
	delete(l.folderIndex, id)
	for i, f := range l.Folders {
		if f.ID == id {
			l.Folders = append(l.Folders[:i], l.Folders[i+1:]...)
			break
		}
	}
	return true
}

// TrackByID resolves a track id within this library.
func (l *Library) TrackByID(id string) (*Track, bool) {
	t, ok := l.trackIndex[id]
	return t, ok
}

// PlaylistByID resolves a playlist id within this library.
func (l *Library) PlaylistByID(id string) (*Playlist, bool) {
	p, ok := l.playlistIndex[id]
	return p, ok
}

// FolderByID resolves a folder id within this library.
func (l *Library) FolderByID(id string) (*Folder, bool) {
	f, ok := l.folderIndex[id]
	return f, ok
}
