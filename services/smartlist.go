package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"segue/types"
)

// GeneratedPlaylist describes a playlist created by the generator or a
// merge. ApproxDurationMinutes is zero when nothing was selected.
type GeneratedPlaylist struct {
	PlaylistID            string `json:"playlist_id"`
	Name                  string `json:"name"`
	TrackCount            int    `json:"track_count"`
	ApproxDurationMinutes int    `json:"approx_duration_minutes"`
}

// SmartlistService interface defines smart playlist generation
type SmartlistService interface {
	GenerateV1(lib *types.Library, targetMinutes int, keyword string) (GeneratedPlaylist, error)
	GenerateV2(lib *types.Library, req types.SmartPlaylistV2Request) (GeneratedPlaylist, error)
}

// smartlistService implements the SmartlistService interface
type smartlistService struct{}

// NewSmartlistService creates a new smart playlist service
func NewSmartlistService() SmartlistService {
	return &smartlistService{}
}

// GenerateV1 fills a playlist up to the target length from tracks matching
// the keyword in title or artist, in library order.
func (s *smartlistService) GenerateV1(lib *types.Library, targetMinutes int, keyword string) (GeneratedPlaylist, error) {
	candidates := lib.Tracks
	if keyword != "" {
		ql := strings.ToLower(keyword)
		filtered := make([]*types.Track, 0, len(candidates))
		for _, t := range candidates {
			if strings.Contains(strings.ToLower(t.Title), ql) ||
				strings.Contains(strings.ToLower(t.Artist), ql) {
				filtered = append(filtered, t)
			}
		}
		candidates = filtered
	}

	name := fmt.Sprintf("Auto %d min", targetMinutes)
	return buildPlaylist(lib, name, candidates, targetMinutes)
}

// GenerateV2 filters on keyword, BPM and year bounds and a key whitelist,
// orders the candidates, then fills up to the target length. Tracks with no
// key never pass a key whitelist.
func (s *smartlistService) GenerateV2(lib *types.Library, req types.SmartPlaylistV2Request) (GeneratedPlaylist, error) {
	target := req.Target()

	allowedKeys := map[string]bool{}
	for _, k := range req.Keys {
		allowedKeys[strings.ToUpper(k)] = true
	}

	candidates := make([]*types.Track, 0, len(lib.Tracks))
	for _, t := range lib.Tracks {
		if matchesV2(t, req, allowedKeys) {
			candidates = append(candidates, t)
		}
	}

	switch req.Sort() {
	case "bpm":
		sort.SliceStable(candidates, func(i, j int) bool {
			return lessNilLast(candidates[i].BPM == nil, candidates[j].BPM == nil, func() bool {
				return *candidates[i].BPM < *candidates[j].BPM
			})
		})
	case "year":
		sort.SliceStable(candidates, func(i, j int) bool {
			return lessNilLast(candidates[i].Year == nil, candidates[j].Year == nil, func() bool {
				return *candidates[i].Year < *candidates[j].Year
			})
		})
	case "key":
		sort.SliceStable(candidates, func(i, j int) bool {
			return lessNilLast(candidates[i].Key == nil, candidates[j].Key == nil, func() bool {
				return *candidates[i].Key < *candidates[j].Key
			})
		})
	case "random":
		seed := time.Now().UnixNano()
		if req.Seed != nil {
			seed = *req.Seed
		}
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}

	name := strings.TrimSpace(req.PlaylistName)
	if name == "" {
		name = fmt.Sprintf("Smart %d min", target)
	}
	return buildPlaylist(lib, name, candidates, target)
}

// matchesV2 applies every active filter. Bounds exclude tracks missing the
// bounded field.
func matchesV2(t *types.Track, req types.SmartPlaylistV2Request, allowedKeys map[string]bool) bool {
	if req.Keyword != "" {
		hay := strings.ToLower(t.Title + " " + t.Artist + " " + t.FilePath)
		if !strings.Contains(hay, strings.ToLower(req.Keyword)) {
			return false
		}
	}

	if req.MinBPM != nil && (t.BPM == nil || *t.BPM < *req.MinBPM) {
		return false
	}
	if req.MaxBPM != nil && (t.BPM == nil || *t.BPM > *req.MaxBPM) {
		return false
	}
	if req.MinYear != nil && (t.Year == nil || *t.Year < *req.MinYear) {
		return false
	}
	if req.MaxYear != nil && (t.Year == nil || *t.Year > *req.MaxYear) {
		return false
	}

	if len(allowedKeys) > 0 {
		if t.Key == nil || *t.Key == "" {
			return false
		}
		if !allowedKeys[strings.ToUpper(*t.Key)] {
			return false
		}
	}
	return true
}

// buildPlaylist greedily takes candidates in order until the running total
// reaches the target. The check happens before each append, so the playlist
// may overshoot by at most one track.
func buildPlaylist(lib *types.Library, name string, candidates []*types.Track, targetMinutes int) (GeneratedPlaylist, error) {
	totalSec := 0
	selected := []string{}
	for _, t := range candidates {
		if totalSec >= targetMinutes*60 {
			break
		}
		selected = append(selected, t.ID)
		totalSec += effectiveDuration(t)
	}

	pl, err := lib.AddPlaylist(name, selected)
	if err != nil {
		return GeneratedPlaylist{}, err
	}

	approx := 0
	if len(selected) > 0 {
		approx = int(math.Round(float64(totalSec) / 60))
	}
	return GeneratedPlaylist{
		PlaylistID:            pl.ID,
		Name:                  name,
		TrackCount:            len(selected),
		ApproxDurationMinutes: approx,
	}, nil
}

// effectiveDuration substitutes the fallback length for unknown or zero
// durations. Parsing never invents durations, so the substitution happens
// here, at consumption.
func effectiveDuration(t *types.Track) int {
	if t.DurationSeconds == nil || *t.DurationSeconds == 0 {
		return types.FallbackDurationSeconds
	}
	return *t.DurationSeconds
}

// lessNilLast orders nil values after concrete ones, comparing values only
// when both sides are set.
func lessNilLast(iNil, jNil bool, less func() bool) bool {
	if iNil != jNil {
		return jNil
	}
	if iNil {
		return false
	}
	return less()
}
