package services

import (
	"math"
	"sort"
	"strings"

	"segue/types"
)

// TransitionCandidate is one suggested next track. BPMDiff is null when
// either side has no BPM.
type TransitionCandidate struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	BPM      *float64 `json:"bpm"`
	Key      *string  `json:"key"`
	BPMDiff  *float64 `json:"bpm_diff"`
	KeyMatch bool     `json:"key_match"`
}

// TransitionService interface defines next-track candidate ranking
type TransitionService interface {
	Candidates(lib *types.Library, req types.TransitionsRequest) ([]TransitionCandidate, error)
}

// transitionService implements the TransitionService interface
type transitionService struct{}

// NewTransitionService creates a new transition service
func NewTransitionService() TransitionService {
	return &transitionService{}
}

// Candidates ranks every other track against the seed track. Key matches
// rank first, then smaller BPM differences; tracks with unknown BPM rank
// last and are dropped entirely once a tolerance is set. Ties keep library
// order.
func (s *transitionService) Candidates(lib *types.Library, req types.TransitionsRequest) ([]TransitionCandidate, error) {
	seed, ok := lib.TrackByID(req.FromTrackID)
	if !ok {
		return nil, &types.NotFoundError{Kind: "track", ID: req.FromTrackID}
	}

	tolerance := req.Tolerance()
	seedKey := normalizedKey(seed.Key)

	candidates := []TransitionCandidate{}
	for _, t := range lib.Tracks {
		if t.ID == seed.ID {
			continue
		}

		var diff *float64
		if seed.BPM != nil && t.BPM != nil {
			d := math.Abs(*seed.BPM - *t.BPM)
			diff = &d
		}
		if tolerance > 0 && (diff == nil || *diff > tolerance) {
			continue
		}

		candKey := normalizedKey(t.Key)
		candidates = append(candidates, TransitionCandidate{
			ID:       t.ID,
			Title:    t.Title,
			Artist:   t.Artist,
			BPM:      t.BPM,
			Key:      t.Key,
			BPMDiff:  diff,
			KeyMatch: seedKey != "" && seedKey == candKey,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].KeyMatch != candidates[j].KeyMatch {
			return candidates[i].KeyMatch
		}
		return diffOrInf(candidates[i]) < diffOrInf(candidates[j])
	})

	if limit := req.Limit(); len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// normalizedKey trims and uppercases a key for comparison, mapping nil to
// the empty string.
func normalizedKey(key *string) string {
	if key == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*key))
}

// diffOrInf makes unknown BPM differences sort after every finite one.
func diffOrInf(c TransitionCandidate) float64 {
	if c.BPMDiff == nil {
		return math.Inf(1)
	}
	return *c.BPMDiff
}
