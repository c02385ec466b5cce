package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"segue/services"
	"segue/types"
	"segue/websocket"
)

// EventsHandler handles the WebSocket event feed endpoints
type EventsHandler struct {
	store services.LibraryStore
	hub   websocket.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(store services.LibraryStore, hub websocket.Hub) *EventsHandler {
	return &EventsHandler{
		store: store,
		hub:   hub,
	}
}

// LibraryFeed streams events for one library over a WebSocket connection.
func (h *EventsHandler) LibraryFeed(c *gin.Context) {
	id := c.Param("id")

	// Check the library exists before upgrading the connection.
	if !h.store.Exists(id) {
		respondError(c, &types.NotFoundError{Kind: "library", ID: id})
		return
	}

	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, id)
	h.hub.RegisterClient(client)

	// Start client pumps
	client.StartPumps()
}

// Firehose streams events for every library over a WebSocket connection.
func (h *EventsHandler) Firehose(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, "all")
	h.hub.RegisterClient(client)

	// Start client pumps
	client.StartPumps()
}
