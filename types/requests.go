package types

import "strings"

// SmartPlaylistV2Request carries the full filter/sort configuration for
// smart playlist generation. Pointer fields distinguish "absent" from an
// explicit zero so defaults only apply to absent values.
type SmartPlaylistV2Request struct {
	TargetMinutes *int     `json:"target_minutes"`
	Keyword       string   `json:"keyword"`
	MinBPM        *float64 `json:"min_bpm"`
	MaxBPM        *float64 `json:"max_bpm"`
	MinYear       *int     `json:"min_year"`
	MaxYear       *int     `json:"max_year"`
	Keys          []string `json:"keys"`
	SortBy        string   `json:"sort_by"`
	PlaylistName  string   `json:"playlist_name"`
	Seed          *int64   `json:"seed"`
}

// Target returns the effective target length in minutes.
func (r *SmartPlaylistV2Request) Target() int {
	if r.TargetMinutes == nil {
		return 60
	}
	return *r.TargetMinutes
}

// Sort returns the effective sort mode.
func (r *SmartPlaylistV2Request) Sort() string {
	if r.SortBy == "" {
		return "bpm"
	}
	return r.SortBy
}

// Validate checks every documented parameter bound.
func (r *SmartPlaylistV2Request) Validate() error {
	if r.TargetMinutes != nil && (*r.TargetMinutes < 1 || *r.TargetMinutes > 1440) {
		return Validationf("target_minutes must be between 1 and 1440")
	}
	if r.MinBPM != nil && (*r.MinBPM < 0 || *r.MinBPM > 500) {
		return Validationf("min_bpm must be between 0 and 500")
	}
	if r.MaxBPM != nil && (*r.MaxBPM < 0 || *r.MaxBPM > 500) {
		return Validationf("max_bpm must be between 0 and 500")
	}
	if r.MinBPM != nil && r.MaxBPM != nil && *r.MinBPM > *r.MaxBPM {
		return Validationf("min_bpm must not exceed max_bpm")
	}
	if r.MinYear != nil && (*r.MinYear < 1900 || *r.MinYear > 2100) {
		return Validationf("min_year must be between 1900 and 2100")
	}
	if r.MaxYear != nil && (*r.MaxYear < 1900 || *r.MaxYear > 2100) {
		return Validationf("max_year must be between 1900 and 2100")
	}
	if r.MinYear != nil && r.MaxYear != nil && *r.MinYear > *r.MaxYear {
		return Validationf("min_year must not exceed max_year")
	}
	switch r.Sort() {
	case "bpm", "year", "key", "random":
	default:
		return Validationf("sort_by must be one of bpm, year, key, random")
	}
	if name := strings.TrimSpace(r.PlaylistName); len(name) > 100 {
		return Validationf("playlist_name must be at most 100 characters")
	}
	return nil
}

// MergePlaylistsRequest names the source playlists to concatenate.
type MergePlaylistsRequest struct {
	SourcePlaylistIDs []string `json:"source_playlist_ids"`
	Name              string   `json:"name"`
	Deduplicate       *bool    `json:"deduplicate"`
}

// Dedupe returns the effective deduplicate flag (default true).
func (r *MergePlaylistsRequest) Dedupe() bool {
	return r.Deduplicate == nil || *r.Deduplicate
}

// Validate checks the id list and the new playlist name.
func (r *MergePlaylistsRequest) Validate() error {
	if len(r.SourcePlaylistIDs) == 0 {
		return Validationf("source_playlist_ids must not be empty")
	}
	seen := make(map[string]bool, len(r.SourcePlaylistIDs))
	for _, id := range r.SourcePlaylistIDs {
		if seen[id] {
			return Validationf("source_playlist_ids contains duplicate id %s", id)
		}
		seen[id] = true
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return Validationf("name must not be empty")
	}
	if len(name) > 100 {
		return Validationf("name must be at most 100 characters")
	}
	return nil
}

// AutoFixRequest toggles the individual metadata auto-fix passes. Absent
// options default to enabled.
type AutoFixRequest struct {
	NormalizeWhitespace *bool `json:"normalize_whitespace"`
	UpperCaseKeys       *bool `json:"upper_case_keys"`
	ZeroYearToNull      *bool `json:"zero_year_to_null"`
}

// RewritePathsRequest is shared by the preview and apply endpoints.
type RewritePathsRequest struct {
	Search  string `json:"search"`
	Replace string `json:"replace"`
}

// ExportBundleRequest names the formats to include in a zip bundle.
type ExportBundleRequest struct {
	Formats    []string `json:"formats"`
	PlaylistID *string  `json:"playlist_id"`
}

// Validate rejects empty and case-insensitively duplicated format lists.
// Unknown format names are rejected later, by the format registry.
func (r *ExportBundleRequest) Validate() error {
	if len(r.Formats) == 0 {
		return Validationf("formats must not be empty")
	}
	seen := make(map[string]bool, len(r.Formats))
	for _, f := range r.Formats {
		lower := strings.ToLower(strings.TrimSpace(f))
		if seen[lower] {
			return Validationf("formats contains duplicate entry %s", f)
		}
		seen[lower] = true
	}
	return nil
}

// TransitionsRequest carries the parsed transition query parameters.
type TransitionsRequest struct {
	FromTrackID  string
	BPMTolerance *float64
	MaxResults   *int
}

// Tolerance returns the effective BPM tolerance; 0 disables tolerance
// filtering entirely.
func (r *TransitionsRequest) Tolerance() float64 {
	if r.BPMTolerance == nil {
		return 0
	}
	return *r.BPMTolerance
}

// Limit returns the effective result cap.
func (r *TransitionsRequest) Limit() int {
	if r.MaxResults == nil {
		return 10
	}
	return *r.MaxResults
}

// Validate checks the documented parameter bounds.
func (r *TransitionsRequest) Validate() error {
	if r.FromTrackID == "" {
		return Validationf("from_track_id is required")
	}
	if r.BPMTolerance != nil && (*r.BPMTolerance < 0 || *r.BPMTolerance > 50) {
		return Validationf("bpm_tolerance must be between 0 and 50")
	}
	if r.MaxResults != nil && (*r.MaxResults < 1 || *r.MaxResults > 100) {
		return Validationf("max_results must be between 1 and 100")
	}
	return nil
}

// FolderCreateRequest creates a playlist folder, optionally nested.
type FolderCreateRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// Validate checks the folder name.
func (r *FolderCreateRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return Validationf("name must not be empty")
	}
	if len(name) > 100 {
		return Validationf("name must be at most 100 characters")
	}
	return nil
}

// FolderMoveRequest re-parents a folder; nil means move to root.
type FolderMoveRequest struct {
	NewParentID *string `json:"new_parent_id"`
}

// PlaylistMoveRequest assigns a playlist to a folder; nil means root.
type PlaylistMoveRequest struct {
	FolderID *string `json:"folder_id"`
}

// TagsRequest adds user tags to a track.
type TagsRequest struct {
	Tags []string `json:"tags"`
}

// CustomFieldsRequest merges free-form metadata into a track.
type CustomFieldsRequest struct {
	CustomFields map[string]any `json:"custom_fields"`
}

// EnrichRequest restricts tag enrichment to files under a root directory.
// An empty root uses each track's file path as-is.
type EnrichRequest struct {
	Root string `json:"root"`
}

// PlaylistSummary is the compact playlist shape used in folder trees and
// search results.
type PlaylistSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
}

// FolderNode is one node of the folder tree response.
type FolderNode struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	ParentID   *string           `json:"parent_id"`
	Subfolders []*FolderNode     `json:"subfolders"`
	Playlists  []PlaylistSummary `json:"playlists"`
}
