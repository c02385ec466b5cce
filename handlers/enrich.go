package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"segue/services"
	"segue/types"
	"segue/websocket"
)

// EnrichHandler handles the file tag enrichment endpoint
type EnrichHandler struct {
	store  services.LibraryStore
	enrich services.EnrichService
	hub    websocket.Hub
}

// NewEnrichHandler creates a new enrich handler
func NewEnrichHandler(store services.LibraryStore, enrich services.EnrichService, hub websocket.Hub) *EnrichHandler {
	return &EnrichHandler{
		store:  store,
		enrich: enrich,
		hub:    hub,
	}
}

// Enrich fills missing track metadata from the audio files on disk.
func (h *EnrichHandler) Enrich(c *gin.Context) {
	id := c.Param("id")

	var req types.EnrichRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	var report services.EnrichReport
	var event types.LibraryEvent
	err := h.store.Update(id, func(lib *types.Library) error {
		report = h.enrich.Enrich(lib, req.Root)
		event = types.NewLibraryEvent(lib, types.EventEnriched, fmt.Sprintf("%d tracks enriched", report.EnrichedTracks))
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastEvent(event)
	c.JSON(http.StatusOK, report)
}
