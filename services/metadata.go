package services

import (
	"sort"
	"strings"

	"segue/types"
)

// MetadataIssues holds track ids per issue category. Every category is
// always present so clients can iterate without nil checks.
type MetadataIssues struct {
	MissingBPM      []string `json:"missing_bpm"`
	MissingKey      []string `json:"missing_key"`
	MissingYear     []string `json:"missing_year"`
	MissingFilePath []string `json:"missing_file_path"`
	SuspiciousBPM   []string `json:"suspicious_bpm"`
	EmptyTitle      []string `json:"empty_title"`
	EmptyArtist     []string `json:"empty_artist"`
}

// MetadataReport is the result of a library metadata scan.
type MetadataReport struct {
	TotalTracks int            `json:"total_tracks"`
	Issues      MetadataIssues `json:"issues"`
}

// FixOptions selects which auto-fix passes run.
type FixOptions struct {
	NormalizeWhitespace bool
	UpperCaseKeys       bool
	ZeroYearToNull      bool
}

// MetadataService interface defines metadata scanning, repair and the
// per-track tag and custom field operations
type MetadataService interface {
	Scan(lib *types.Library) MetadataReport
	AutoFix(lib *types.Library, opts FixOptions) int
	AddTags(lib *types.Library, trackID string, tags []string) ([]string, error)
	Tags(lib *types.Library, trackID string) ([]string, error)
	MergeCustomFields(lib *types.Library, trackID string, fields map[string]any) (map[string]any, error)
	CustomFields(lib *types.Library, trackID string) (map[string]any, error)
	AllTags(lib *types.Library) []string
	CustomFieldKeys(lib *types.Library) []string
}

// metadataService implements the MetadataService interface
type metadataService struct{}

// NewMetadataService creates a new metadata service
func NewMetadataService() MetadataService {
	return &metadataService{}
}

// Scan classifies every track into issue categories. A track can land in
// several categories at once, but suspicious_bpm only applies to tracks
// that have a positive BPM in the first place.
func (s *metadataService) Scan(lib *types.Library) MetadataReport {
	issues := MetadataIssues{
		MissingBPM:      []string{},
		MissingKey:      []string{},
		MissingYear:     []string{},
		MissingFilePath: []string{},
		SuspiciousBPM:   []string{},
		EmptyTitle:      []string{},
		EmptyArtist:     []string{},
	}

	for _, t := range lib.Tracks {
		if strings.TrimSpace(t.Title) == "" {
			issues.EmptyTitle = append(issues.EmptyTitle, t.ID)
		}
		if strings.TrimSpace(t.Artist) == "" {
			issues.EmptyArtist = append(issues.EmptyArtist, t.ID)
		}

		if t.BPM == nil || *t.BPM <= 0 {
			issues.MissingBPM = append(issues.MissingBPM, t.ID)
		} else if *t.BPM > 300 {
			issues.SuspiciousBPM = append(issues.SuspiciousBPM, t.ID)
		}

		if t.Key == nil || strings.TrimSpace(*t.Key) == "" {
			issues.MissingKey = append(issues.MissingKey, t.ID)
		}

		if t.Year == nil || *t.Year <= 0 {
			issues.MissingYear = append(issues.MissingYear, t.ID)
		}

		if t.FilePath == "" {
			issues.MissingFilePath = append(issues.MissingFilePath, t.ID)
		}
	}

	return MetadataReport{
		TotalTracks: len(lib.Tracks),
		Issues:      issues,
	}
}

// AutoFix mutates tracks in place and returns how many changed. Whitespace
// normalization collapses interior runs in one pass over title, artist and
// key. Uppercasing only applies to non-nil keys, and zero years become
// unknown rather than staying as a bogus value.
func (s *metadataService) AutoFix(lib *types.Library, opts FixOptions) int {
	changed := 0

	for _, t := range lib.Tracks {
		beforeTitle, beforeArtist := t.Title, t.Artist
		beforeKey := derefString(t.Key)
		beforeKeyNil := t.Key == nil
		beforeYear := derefInt(t.Year)
		beforeYearNil := t.Year == nil

		if opts.NormalizeWhitespace {
			if t.Title != "" {
				t.Title = collapseWhitespace(t.Title)
			}
			if t.Artist != "" {
				t.Artist = collapseWhitespace(t.Artist)
			}
			if t.Key != nil && *t.Key != "" {
				*t.Key = collapseWhitespace(*t.Key)
			}
		}

		if opts.UpperCaseKeys && t.Key != nil && *t.Key != "" {
			*t.Key = strings.ToUpper(*t.Key)
		}

		if opts.ZeroYearToNull && t.Year != nil && *t.Year == 0 {
			t.Year = nil
		}

		if t.Title != beforeTitle || t.Artist != beforeArtist ||
			derefString(t.Key) != beforeKey || (t.Key == nil) != beforeKeyNil ||
			derefInt(t.Year) != beforeYear || (t.Year == nil) != beforeYearNil {
			changed++
		}
	}

	return changed
}

// AddTags appends new tags to a track, keeping existing order and skipping
// anything already present. Returns the track's full tag list.
func (s *metadataService) AddTags(lib *types.Library, trackID string, tags []string) ([]string, error) {
	t, ok := lib.TrackByID(trackID)
	if !ok {
		return nil, &types.NotFoundError{Kind: "track", ID: trackID}
	}

	seen := make(map[string]bool, len(t.Tags))
	for _, tag := range t.Tags {
		seen[tag] = true
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		t.Tags = append(t.Tags, tag)
	}
	return t.Tags, nil
}

// Tags returns a track's tag list.
func (s *metadataService) Tags(lib *types.Library, trackID string) ([]string, error) {
	t, ok := lib.TrackByID(trackID)
	if !ok {
		return nil, &types.NotFoundError{Kind: "track", ID: trackID}
	}
	return t.Tags, nil
}

// MergeCustomFields merges fields into a track key by key, overwriting
// values for keys that already exist. Returns the track's full field map.
func (s *metadataService) MergeCustomFields(lib *types.Library, trackID string, fields map[string]any) (map[string]any, error) {
	t, ok := lib.TrackByID(trackID)
	if !ok {
		return nil, &types.NotFoundError{Kind: "track", ID: trackID}
	}
	for k, v := range fields {
		t.CustomFields[k] = v
	}
	return t.CustomFields, nil
}

// CustomFields returns a track's custom field map.
func (s *metadataService) CustomFields(lib *types.Library, trackID string) (map[string]any, error) {
	t, ok := lib.TrackByID(trackID)
	if !ok {
		return nil, &types.NotFoundError{Kind: "track", ID: trackID}
	}
	return t.CustomFields, nil
}

// AllTags returns the sorted set of tags used anywhere in the library.
func (s *metadataService) AllTags(lib *types.Library) []string {
	return sortedKeys(func(add func(string)) {
		for _, t := range lib.Tracks {
			for _, tag := range t.Tags {
				add(tag)
			}
		}
	})
}

// CustomFieldKeys returns the sorted set of custom field keys used anywhere
// in the library.
func (s *metadataService) CustomFieldKeys(lib *types.Library) []string {
	return sortedKeys(func(add func(string)) {
		for _, t := range lib.Tracks {
			for k := range t.CustomFields {
				add(k)
			}
		}
	})
}

// sortedKeys collects strings through the callback and returns them sorted
// and deduplicated, never nil.
func sortedKeys(collect func(add func(string))) []string {
	set := map[string]bool{}
	collect(func(s string) { set[s] = true })

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// collapseWhitespace trims and reduces runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
