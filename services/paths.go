package services

import (
	"strings"

	"segue/types"
)

// RewriteExample shows what one track's path would become.
type RewriteExample struct {
	TrackID string `json:"track_id"`
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// RewritePreview reports the blast radius of a path rewrite without
// applying it. Examples holds at most the first five affected tracks.
type RewritePreview struct {
	TotalTracks    int              `json:"total_tracks"`
	AffectedTracks int              `json:"affected_tracks"`
	Examples       []RewriteExample `json:"examples"`
}

// PathService interface defines bulk file path rewriting
type PathService interface {
	Preview(lib *types.Library, search, replace string) RewritePreview
	Apply(lib *types.Library, search, replace string) int
}

// pathService implements the PathService interface
type pathService struct{}

// NewPathService creates a new path rewrite service
func NewPathService() PathService {
	return &pathService{}
}

const maxRewriteExamples = 5

// Preview counts tracks whose path contains the search substring and shows
// the first few replacements.
func (s *pathService) Preview(lib *types.Library, search, replace string) RewritePreview {
	preview := RewritePreview{
		TotalTracks: len(lib.Tracks),
		Examples:    []RewriteExample{},
	}

	for _, t := range lib.Tracks {
		if !strings.Contains(t.FilePath, search) {
			continue
		}
		preview.AffectedTracks++
		if len(preview.Examples) < maxRewriteExamples {
			preview.Examples = append(preview.Examples, RewriteExample{
				TrackID: t.ID,
				OldPath: t.FilePath,
				NewPath: strings.ReplaceAll(t.FilePath, search, replace),
			})
		}
	}
	return preview
}

// Apply rewrites every occurrence of the search substring in every track
// path and returns how many tracks changed.
func (s *pathService) Apply(lib *types.Library, search, replace string) int {
	changed := 0
	for _, t := range lib.Tracks {
		if strings.Contains(t.FilePath, search) {
			t.FilePath = strings.ReplaceAll(t.FilePath, search, replace)
			changed++
		}
	}
	return changed
}
