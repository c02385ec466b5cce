package services

import (
	"strings"

	"segue/types"
)

// PlaylistRef identifies a playlist a search hit appears in.
type PlaylistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchResult pairs a matching track with every playlist that contains it.
type SearchResult struct {
	Track     *types.Track  `json:"track"`
	Playlists []PlaylistRef `json:"playlists"`
}

// SearchService interface defines library search and track listing
type SearchService interface {
	Search(lib *types.Library, query string) []SearchResult
	FilterTracks(lib *types.Library, query, playlistID string) ([]*types.Track, error)
}

// searchService implements the SearchService interface
type searchService struct{}

// NewSearchService creates a new search service
func NewSearchService() SearchService {
	return &searchService{}
}

// Search matches the query case-insensitively against title, artist and
// file path, annotating each hit with the playlists that use it.
func (s *searchService) Search(lib *types.Library, query string) []SearchResult {
	usage := playlistUsage(lib)
	ql := strings.ToLower(query)

	results := []SearchResult{}
	for _, t := range lib.Tracks {
		if !trackMatches(t, ql) {
			continue
		}
		refs := usage[t.ID]
		if refs == nil {
			refs = []PlaylistRef{}
		}
		results = append(results, SearchResult{Track: t, Playlists: refs})
	}
	return results
}

// FilterTracks lists tracks in library order, optionally restricted to a
// playlist's members and filtered by a query. An unknown playlist id is an
// error rather than an empty result.
func (s *searchService) FilterTracks(lib *types.Library, query, playlistID string) ([]*types.Track, error) {
	tracks := lib.Tracks

	if playlistID != "" {
		pl, ok := lib.PlaylistByID(playlistID)
		if !ok {
			return nil, &types.NotFoundError{Kind: "playlist", ID: playlistID}
		}
		member := make(map[string]bool, len(pl.TrackIDs))
		for _, tid := range pl.TrackIDs {
			member[tid] = true
		}
		filtered := make([]*types.Track, 0, len(member))
		for _, t := range tracks {
			if member[t.ID] {
				filtered = append(filtered, t)
			}
		}
		tracks = filtered
	}

	if query != "" {
		ql := strings.ToLower(query)
		filtered := make([]*types.Track, 0, len(tracks))
		for _, t := range tracks {
			if trackMatches(t, ql) {
				filtered = append(filtered, t)
			}
		}
		tracks = filtered
	}

	if len(tracks) == 0 {
		return []*types.Track{}, nil
	}
	return tracks, nil
}

// trackMatches reports whether the lowercased query occurs in title, artist
// or file path.
func trackMatches(t *types.Track, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(t.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(t.Artist), lowerQuery) ||
		strings.Contains(strings.ToLower(t.FilePath), lowerQuery)
}

// playlistUsage builds the reverse index from track id to the playlists
// containing it, in playlist order. A track repeated inside one playlist is
// still listed once for it.
func playlistUsage(lib *types.Library) map[string][]PlaylistRef {
	usage := map[string][]PlaylistRef{}
	for _, p := range lib.Playlists {
		ref := PlaylistRef{ID: p.ID, Name: p.Name}
		seen := map[string]bool{}
		for _, tid := range p.TrackIDs {
			if seen[tid] {
				continue
			}
			seen[tid] = true
			usage[tid] = append(usage[tid], ref)
		}
	}
	return usage
}
