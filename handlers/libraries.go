package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"segue/formats"
	"segue/services"
	"segue/types"
	"segue/websocket"
)

// LibraryHandler handles library import, listing and lifecycle endpoints
type LibraryHandler struct {
	store  services.LibraryStore
	search services.SearchService
	hub    websocket.Hub
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(store services.LibraryStore, search services.SearchService, hub websocket.Hub) *LibraryHandler {
	return &LibraryHandler{
		store:  store,
		search: search,
		hub:    hub,
	}
}

// Import accepts a playlist file upload, detects its format and registers
// the parsed library.
func (h *LibraryHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file form field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}

	lib, err := formats.DetectAndParse(fileHeader.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	// Snapshot counts and the event before the store takes ownership.
	trackCount := len(lib.Tracks)
	playlistCount := len(lib.Playlists)
	sourceFormat := lib.SourceFormat
	event := types.NewLibraryEvent(lib, types.EventImported, fileHeader.Filename)

	id := h.store.Put(lib)
	h.hub.BroadcastEvent(event)

	c.JSON(http.StatusOK, gin.H{
		"library_id":     id,
		"track_count":    trackCount,
		"playlist_count": playlistCount,
		"source_format":  sourceFormat,
	})
}

// List returns a summary of every stored library.
func (h *LibraryHandler) List(c *gin.Context) {
	summaries := h.store.Summaries()
	c.JSON(http.StatusOK, gin.H{
		"libraries": summaries,
		"count":     len(summaries),
	})
}

// Get returns one library's summary with its playlist listing.
func (h *LibraryHandler) Get(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Read(id, func(lib *types.Library) error {
		playlists := make([]types.PlaylistSummary, 0, len(lib.Playlists))
		for _, p := range lib.Playlists {
			playlists = append(playlists, types.PlaylistSummary{
				ID:         p.ID,
				Name:       p.Name,
				TrackCount: len(p.TrackIDs),
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"id":             lib.ID,
			"source_format":  lib.SourceFormat,
			"track_count":    len(lib.Tracks),
			"playlist_count": len(lib.Playlists),
			"playlists":      playlists,
		})
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// Delete removes a library from the store.
func (h *LibraryHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.store.Delete(id) {
		respondError(c, &types.NotFoundError{Kind: "library", ID: id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"library_id": id})
}

// Tracks lists a library's tracks, optionally narrowed by a substring query
// and a playlist membership filter.
func (h *LibraryHandler) Tracks(c *gin.Context) {
	id := c.Param("id")
	query := c.Query("q")
	playlistID := c.Query("playlist_id")

	err := h.store.Read(id, func(lib *types.Library) error {
		tracks, err := h.search.FilterTracks(lib, query, playlistID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, tracks)
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}
