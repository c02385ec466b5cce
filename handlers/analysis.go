package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"segue/services"
	"segue/types"
)

// AnalysisHandler handles read-only library analysis endpoints
type AnalysisHandler struct {
	store      services.LibraryStore
	duplicates services.DuplicateService
	stats      services.StatsService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(store services.LibraryStore, duplicates services.DuplicateService, stats services.StatsService) *AnalysisHandler {
	return &AnalysisHandler{
		store:      store,
		duplicates: duplicates,
		stats:      stats,
	}
}

// Duplicates reports clusters of probable duplicate tracks.
func (h *AnalysisHandler) Duplicates(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Read(id, func(lib *types.Library) error {
		c.JSON(http.StatusOK, h.duplicates.Find(lib))
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// Stats returns the library's aggregate statistics.
func (h *AnalysisHandler) Stats(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Read(id, func(lib *types.Library) error {
		c.JSON(http.StatusOK, h.stats.Stats(lib))
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}

// Health returns the library's file-level hygiene report.
func (h *AnalysisHandler) Health(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Read(id, func(lib *types.Library) error {
		c.JSON(http.StatusOK, h.stats.Health(lib))
		return nil
	})
	if err != nil {
		respondError(c, err)
	}
}
