package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"segue/services"
	"segue/types"
	"segue/websocket"
)

// PathHandler handles file path rewrite endpoints
type PathHandler struct {
	store services.LibraryStore
	paths services.PathService
	hub   websocket.Hub
}

// NewPathHandler creates a new path handler
func NewPathHandler(store services.LibraryStore, paths services.PathService, hub websocket.Hub) *PathHandler {
	return &PathHandler{
		store: store,
		paths: paths,
		hub:   hub,
	}
}

// Preview reports which tracks a path rewrite would touch, without changing
// anything.
func (h *PathHandler) Preview(c *gin.Context) {
	id := c.Param("id")

	req, ok := h.rewriteRequest(c)
	if !ok {
		return
	}

	err := h.store.Read(id, func(lib *types.Library) error {
		c.JSON(http.StatusOK, h.paths.Preview(lib, req.Search, req.Replace))
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// Apply performs the path rewrite on every matching track.
func (h *PathHandler) Apply(c *gin.Context) {
	id := c.Param("id")

	req, ok := h.rewriteRequest(c)
	if !ok {
		return
	}

	var changed int
	var event types.LibraryEvent
	err := h.store.Update(id, func(lib *types.Library) error {
		changed = h.paths.Apply(lib, req.Search, req.Replace)
		event = types.NewLibraryEvent(lib, types.EventPathsRewritten, fmt.Sprintf("%d paths changed", changed))
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastEvent(event)
	c.JSON(http.StatusOK, gin.H{"changed_tracks": changed})
}

// rewriteRequest binds and checks the shared preview/apply body. Returns
// false once an error response has been written.
func (h *PathHandler) rewriteRequest(c *gin.Context) (types.RewritePathsRequest, bool) {
	var req types.RewritePathsRequest
	if !bindOptionalJSON(c, &req) {
		return req, false
	}
	if strings.TrimSpace(req.Search) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search must not be empty"})
		return req, false
	}
	return req, true
}
