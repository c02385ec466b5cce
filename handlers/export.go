package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"segue/formats"
	"segue/services"
	"segue/types"
)

// ExportHandler handles library export endpoints
type ExportHandler struct {
	store services.LibraryStore
}

// NewExportHandler creates a new export handler
func NewExportHandler(store services.LibraryStore) *ExportHandler {
	return &ExportHandler{store: store}
}

// Export renders the library, or one playlist of it, in the requested format
// and serves the result as a download.
func (h *ExportHandler) Export(c *gin.Context) {
	id := c.Param("id")
	format := c.Query("format")
	if format == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format query parameter is required"})
		return
	}
	playlistID := c.Query("playlist_id")

	err := h.store.Read(id, func(lib *types.Library) error {
		payload, adapter, err := formats.ExportSingle(lib, format, playlistID)
		if err != nil {
			return err
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", adapter.FileName()))
		c.Data(http.StatusOK, adapter.ContentType(), payload)
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// ExportBundle renders the library in several formats at once and serves
// them as one zip archive.
func (h *ExportHandler) ExportBundle(c *gin.Context) {
	id := c.Param("id")

	var req types.ExportBundleRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	playlistID := ""
	if req.PlaylistID != nil {
		playlistID = *req.PlaylistID
	}

	err := h.store.Read(id, func(lib *types.Library) error {
		payload, err := formats.ExportBundle(lib, req.Formats, playlistID)
		if err != nil {
			return err
		}
		c.Header("Content-Disposition", `attachment; filename="library_bundle.zip"`)
		c.Data(http.StatusOK, "application/zip", payload)
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}
