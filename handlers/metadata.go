package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"segue/services"
	"segue/types"
	"segue/websocket"
)

// MetadataHandler handles metadata scanning, auto-fixing, tags and custom
// field endpoints
type MetadataHandler struct {
	store    services.LibraryStore
	metadata services.MetadataService
	hub      websocket.Hub
}

// NewMetadataHandler creates a new metadata handler
func NewMetadataHandler(store services.LibraryStore, metadata services.MetadataService, hub websocket.Hub) *MetadataHandler {
	return &MetadataHandler{
		store:    store,
		metadata: metadata,
		hub:      hub,
	}
}

// Issues scans the library and reports metadata problems per category.
func (h *MetadataHandler) Issues(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Read(id, func(lib *types.Library) error {
		c.JSON(http.StatusOK, h.metadata.Scan(lib))
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// AutoFix applies the requested metadata repairs. Omitted options default to
// enabled, so an empty body runs every pass.
func (h *MetadataHandler) AutoFix(c *gin.Context) {
	id := c.Param("id")

	var req types.AutoFixRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	opts := services.FixOptions{
		NormalizeWhitespace: enabled(req.NormalizeWhitespace),
		UpperCaseKeys:       enabled(req.UpperCaseKeys),
		ZeroYearToNull:      enabled(req.ZeroYearToNull),
	}

	var changed int
	var event types.LibraryEvent
	err := h.store.Update(id, func(lib *types.Library) error {
		changed = h.metadata.AutoFix(lib, opts)
		event = types.NewLibraryEvent(lib, types.EventAutoFixed, fmt.Sprintf("%d tracks changed", changed))
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastEvent(event)
	c.JSON(http.StatusOK, gin.H{"changed_tracks": changed})
}

// TrackTags returns one track's tag list.
func (h *MetadataHandler) TrackTags(c *gin.Context) {
	id := c.Param("id")
	trackID := c.Param("trackId")

	err := h.store.Read(id, func(lib *types.Library) error {
		tags, err := h.metadata.Tags(lib, trackID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{"tags": tags})
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// AddTrackTags union-appends tags to one track and returns the full list.
func (h *MetadataHandler) AddTrackTags(c *gin.Context) {
	id := c.Param("id")
	trackID := c.Param("trackId")

	var req types.TagsRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.store.Update(id, func(lib *types.Library) error {
		tags, err := h.metadata.AddTags(lib, trackID, req.Tags)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{"tags": tags})
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// TrackCustomFields returns one track's custom field map.
func (h *MetadataHandler) TrackCustomFields(c *gin.Context) {
	id := c.Param("id")
	trackID := c.Param("trackId")

	err := h.store.Read(id, func(lib *types.Library) error {
		fields, err := h.metadata.CustomFields(lib, trackID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{"custom_fields": fields})
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// MergeTrackCustomFields merges keys into one track's custom field map and
// returns the merged result.
func (h *MetadataHandler) MergeTrackCustomFields(c *gin.Context) {
	id := c.Param("id")
	trackID := c.Param("trackId")

	var req types.CustomFieldsRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.store.Update(id, func(lib *types.Library) error {
		fields, err := h.metadata.MergeCustomFields(lib, trackID, req.CustomFields)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{"custom_fields": fields})
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// AllTags lists every distinct tag used across the library.
func (h *MetadataHandler) AllTags(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Read(id, func(lib *types.Library) error {
		c.JSON(http.StatusOK, gin.H{"tags": h.metadata.AllTags(lib)})
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// CustomFieldKeys lists every distinct custom field key across the library.
func (h *MetadataHandler) CustomFieldKeys(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Read(id, func(lib *types.Library) error {
		c.JSON(http.StatusOK, gin.H{"custom_field_keys": h.metadata.CustomFieldKeys(lib)})
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// enabled resolves an optional toggle, absent meaning on.
func enabled(p *bool) bool {
	return p == nil || *p
}
