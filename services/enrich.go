package services

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"segue/types"
)

// EnrichReport counts what an enrichment pass touched.
type EnrichReport struct {
	EnrichedTracks int `json:"enriched_tracks"`
	ScannedFiles   int `json:"scanned_files"`
}

// EnrichService interface defines metadata enrichment from local audio files
type EnrichService interface {
	Enrich(lib *types.Library, root string) EnrichReport
}

// enrichService implements the EnrichService interface
type enrichService struct{}

// NewEnrichService creates a new enrichment service
func NewEnrichService() EnrichService {
	return &enrichService{}
}

// Enrich reads embedded metadata from each track's file and fills fields the
// import left empty. Existing values are never overwritten. Tracks whose
// files are missing, unreadable or untagged are skipped.
func (s *enrichService) Enrich(lib *types.Library, root string) EnrichReport {
	report := EnrichReport{}

	for _, t := range lib.Tracks {
		if t.FilePath == "" {
			continue
		}
		path := t.FilePath
		if root != "" {
			path = filepath.Join(root, t.FilePath)
		}

		meta, ok := readFileTags(path)
		if !ok {
			continue
		}
		report.ScannedFiles++

		changed := false
		if strings.TrimSpace(t.Title) == "" && meta.Title() != "" {
			t.Title = meta.Title()
			changed = true
		}
		if strings.TrimSpace(t.Artist) == "" && meta.Artist() != "" {
			t.Artist = meta.Artist()
			changed = true
		}
		if t.Year == nil {
			if y := meta.Year(); y > 0 {
				t.Year = &y
				changed = true
			}
		}

		if changed {
			report.EnrichedTracks++
		}
	}

	return report
}

// readFileTags opens an audio file and parses its embedded metadata, using
// the dhowden/tag library (supports FLAC, MP3, M4A and more).
func readFileTags(path string) (tag.Metadata, bool) {
	file, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return nil, false
	}
	return meta, true
}
