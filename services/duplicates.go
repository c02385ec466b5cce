package services

import (
	"sort"
	"strings"

	"segue/types"
)

// DuplicateGroup is one cluster of tracks that normalize to the same
// identity. Canonical fields come from the first track encountered, file
// names are the distinct raw basenames involved.
type DuplicateGroup struct {
	CanonicalTitle  string   `json:"canonical_title"`
	CanonicalArtist string   `json:"canonical_artist"`
	FileNames       []string `json:"file_names"`
	TrackIDs        []string `json:"track_ids"`
	Count           int      `json:"count"`
}

// DuplicateReport lists every duplicate cluster in a library.
type DuplicateReport struct {
	TotalGroups     int              `json:"total_groups"`
	DuplicateGroups []DuplicateGroup `json:"duplicate_groups"`
}

// DuplicateService interface defines duplicate cluster detection
type DuplicateService interface {
	Find(lib *types.Library) DuplicateReport
}

// duplicateService implements the DuplicateService interface
type duplicateService struct{}

// NewDuplicateService creates a new duplicate detection service
func NewDuplicateService() DuplicateService {
	return &duplicateService{}
}

// dupKey is the normalized identity a track is bucketed under.
type dupKey struct {
	artist string
	title  string
	file   string
}

// Find buckets tracks by normalized (artist, title, file basename) and
// returns every bucket holding two or more tracks. Tracks where all three
// components normalize to empty are never grouped. Groups are ordered by
// size descending, then canonical title and artist.
func (s *duplicateService) Find(lib *types.Library) DuplicateReport {
	buckets := make(map[dupKey][]*types.Track)
	order := []dupKey{}

	for _, t := range lib.Tracks {
		key := dupKey{
			artist: normalizeText(t.Artist),
			title:  normalizeText(t.Title),
			file:   strings.ToLower(baseName(t.FilePath)),
		}
		if key.artist == "" && key.title == "" && key.file == "" {
			continue
		}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], t)
	}

	groups := []DuplicateGroup{}
	for _, key := range order {
		tracks := buckets[key]
		if len(tracks) < 2 {
			continue
		}

		names := map[string]bool{}
		trackIDs := make([]string, 0, len(tracks))
		for _, t := range tracks {
			names[baseName(t.FilePath)] = true
			trackIDs = append(trackIDs, t.ID)
		}
		fileNames := make([]string, 0, len(names))
		for name := range names {
			fileNames = append(fileNames, name)
		}
		sort.Strings(fileNames)

		groups = append(groups, DuplicateGroup{
			CanonicalTitle:  tracks[0].Title,
			CanonicalArtist: tracks[0].Artist,
			FileNames:       fileNames,
			TrackIDs:        trackIDs,
			Count:           len(tracks),
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		if groups[i].CanonicalTitle != groups[j].CanonicalTitle {
			return groups[i].CanonicalTitle < groups[j].CanonicalTitle
		}
		return groups[i].CanonicalArtist < groups[j].CanonicalArtist
	})

	return DuplicateReport{
		TotalGroups:     len(groups),
		DuplicateGroups: groups,
	}
}

// normalizeText lowercases and collapses runs of whitespace to single
// spaces, trimming the ends. Punctuation is kept so remixes stay distinct
// from originals.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// baseName returns the final path segment, treating backslashes as
// separators so Windows-style paths bucket with POSIX ones.
func baseName(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
