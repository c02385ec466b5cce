package services

import (
	"math"
	"sort"
	"strings"

	"segue/types"
)

// BPMStats summarizes the BPM distribution. All three are null when no
// track has a BPM.
type BPMStats struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
	Avg *float64 `json:"avg"`
}

// YearStats summarizes the release year range, null when no track has one.
type YearStats struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// ArtistCount is one entry of the top artist ranking.
type ArtistCount struct {
	Artist string `json:"artist"`
	Count  int    `json:"count"`
}

// DurationStats totals play time, substituting the fallback length for
// unknown durations.
type DurationStats struct {
	TotalMinutes float64 `json:"total_minutes"`
}

// StatsReport is the aggregate view of one library.
type StatsReport struct {
	TrackCount    int            `json:"track_count"`
	PlaylistCount int            `json:"playlist_count"`
	BPM           BPMStats       `json:"bpm"`
	Year          YearStats      `json:"year"`
	Keys          map[string]int `json:"keys"`
	TopArtists    []ArtistCount  `json:"top_artists"`
	Duration      DurationStats  `json:"duration"`
}

// HealthIssues holds track ids per hygiene category.
type HealthIssues struct {
	MissingFilePath   []string `json:"missing_file_path"`
	UnknownExtension  []string `json:"unknown_extension"`
	VeryShortDuration []string `json:"very_short_duration"`
	UnusualBPM        []string `json:"unusual_bpm"`
	UnusualYear       []string `json:"unusual_year"`
}

// HealthReport flags tracks whose fields look implausible or would break a
// file-based workflow. Thresholds differ from the metadata issue scan on
// purpose; this one is about plumbing, not completeness.
type HealthReport struct {
	TrackCount int          `json:"track_count"`
	Issues     HealthIssues `json:"issues"`
}

// StatsService interface defines library aggregation and health reporting
type StatsService interface {
	Stats(lib *types.Library) StatsReport
	Health(lib *types.Library) HealthReport
}

// statsService implements the StatsService interface
type statsService struct{}

// NewStatsService creates a new stats service
func NewStatsService() StatsService {
	return &statsService{}
}

// audioExtensions are the file extensions the health report accepts.
var audioExtensions = map[string]bool{
	"mp3":  true,
	"wav":  true,
	"flac": true,
	"aiff": true,
	"aif":  true,
	"ogg":  true,
	"m4a":  true,
	"aac":  true,
}

// Stats aggregates counts, BPM and year ranges, key usage, the top five
// artists and total play time.
func (s *statsService) Stats(lib *types.Library) StatsReport {
	report := StatsReport{
		TrackCount:    len(lib.Tracks),
		PlaylistCount: len(lib.Playlists),
		Keys:          map[string]int{},
		TopArtists:    []ArtistCount{},
	}

	bpmSum := 0.0
	bpmN := 0
	totalSec := 0
	artistCounts := map[string]int{}

	for _, t := range lib.Tracks {
		if t.BPM != nil {
			v := *t.BPM
			if report.BPM.Min == nil || v < *report.BPM.Min {
				report.BPM.Min = floatPtr(v)
			}
			if report.BPM.Max == nil || v > *report.BPM.Max {
				report.BPM.Max = floatPtr(v)
			}
			bpmSum += v
			bpmN++
		}

		if t.Year != nil {
			y := *t.Year
			if report.Year.Min == nil || y < *report.Year.Min {
				report.Year.Min = intPtr(y)
			}
			if report.Year.Max == nil || y > *report.Year.Max {
				report.Year.Max = intPtr(y)
			}
		}

		if t.Key != nil && *t.Key != "" {
			report.Keys[*t.Key]++
		}

		if t.Artist != "" {
			artistCounts[t.Artist]++
		}

		totalSec += effectiveDuration(t)
	}

	if bpmN > 0 {
		report.BPM.Avg = floatPtr(math.Round(bpmSum/float64(bpmN)*100) / 100)
	}

	for artist, count := range artistCounts {
		report.TopArtists = append(report.TopArtists, ArtistCount{Artist: artist, Count: count})
	}
	sort.Slice(report.TopArtists, func(i, j int) bool {
		if report.TopArtists[i].Count != report.TopArtists[j].Count {
			return report.TopArtists[i].Count > report.TopArtists[j].Count
		}
		return report.TopArtists[i].Artist < report.TopArtists[j].Artist
	})
	if len(report.TopArtists) > 5 {
		report.TopArtists = report.TopArtists[:5]
	}

	report.Duration.TotalMinutes = math.Round(float64(totalSec)/60*10) / 10

	return report
}

// Health flags tracks with no path, an unrecognized audio extension, very
// short durations, or BPM and year values outside plausible DJ ranges.
func (s *statsService) Health(lib *types.Library) HealthReport {
	issues := HealthIssues{
		MissingFilePath:   []string{},
		UnknownExtension:  []string{},
		VeryShortDuration: []string{},
		UnusualBPM:        []string{},
		UnusualYear:       []string{},
	}

	for _, t := range lib.Tracks {
		if t.FilePath == "" {
			issues.MissingFilePath = append(issues.MissingFilePath, t.ID)
		} else if !audioExtensions[fileExtension(t.FilePath)] {
			issues.UnknownExtension = append(issues.UnknownExtension, t.ID)
		}

		if t.DurationSeconds != nil && *t.DurationSeconds < 60 {
			issues.VeryShortDuration = append(issues.VeryShortDuration, t.ID)
		}

		if t.BPM != nil && (*t.BPM < 60 || *t.BPM > 200) {
			issues.UnusualBPM = append(issues.UnusualBPM, t.ID)
		}

		if t.Year != nil && (*t.Year < 1950 || *t.Year > 2030) {
			issues.UnusualYear = append(issues.UnusualYear, t.ID)
		}
	}

	return HealthReport{
		TrackCount: len(lib.Tracks),
		Issues:     issues,
	}
}

// fileExtension returns the lowercased extension without the dot, empty
// when the basename has none.
func fileExtension(path string) string {
	base := baseName(path)
	if i := strings.LastIndex(base, "."); i > 0 {
		return strings.ToLower(base[i+1:])
	}
	return ""
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
