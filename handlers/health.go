package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"segue/services"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store services.LibraryStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store services.LibraryStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "segue",
		"version":   "1.0.0",
		"timestamp": time.Now().Unix(),
	})
}

// APIStatus returns the status of the API
func (h *HealthHandler) APIStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":       "Segue API is running",
		"library_count": h.store.Len(),
	})
}
