package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"segue/services"
	"segue/types"
)

// SearchHandler handles track search and transition suggestion endpoints
type SearchHandler struct {
	store       services.LibraryStore
	search      services.SearchService
	transitions services.TransitionService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(store services.LibraryStore, search services.SearchService, transitions services.TransitionService) *SearchHandler {
	return &SearchHandler{
		store:       store,
		search:      search,
		transitions: transitions,
	}
}

// Search finds tracks matching the query and reports the playlists each hit
// appears in.
func (h *SearchHandler) Search(c *gin.Context) {
	id := c.Param("id")
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	err := h.store.Read(id, func(lib *types.Library) error {
		c.JSON(http.StatusOK, gin.H{
			"query":   query,
			"results": h.search.Search(lib, query),
		})
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// Transitions suggests tracks to mix into from a seed track, ranked by key
// match and BPM distance.
func (h *SearchHandler) Transitions(c *gin.Context) {
	id := c.Param("id")

	req := types.TransitionsRequest{FromTrackID: c.Query("from_track_id")}
	if s := c.Query("bpm_tolerance"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bpm_tolerance must be a number"})
			return
		}
		req.BPMTolerance = &v
	}
	if s := c.Query("max_results"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_results must be an integer"})
			return
		}
		req.MaxResults = &v
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	err := h.store.Read(id, func(lib *types.Library) error {
		candidates, err := h.transitions.Candidates(lib, req)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{"candidates": candidates})
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}
