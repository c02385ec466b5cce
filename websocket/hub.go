package websocket

import (
	"log"
	"sync"

	"segue/types"
)

// Hub interface defines the methods for managing WebSocket connections
type Hub interface {
	Run()
	BroadcastEvent(event types.LibraryEvent)
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
}

// hub maintains the set of active clients and broadcasts events to them
type hub struct {
	// Registered clients mapped by library ID
	clients map[string]map[*Client]bool

	// Broadcast channel for sending events to all clients of a library
	broadcast chan types.LibraryEvent

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() Hub {
	return &hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan types.LibraryEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main event loop
func (h *hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.libraryID] == nil {
				h.clients[client.libraryID] = make(map[*Client]bool)
			}
			h.clients[client.libraryID][client] = true
			h.mu.Unlock()
			log.Printf("WebSocket client connected for library %s", client.libraryID)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.libraryID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.libraryID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected for library %s", client.libraryID)

		case event := <-h.broadcast:
			h.mu.RLock()
			// Send to clients watching this specific library
			if clients, ok := h.clients[event.LibraryID]; ok {
				for client := range clients {
					select {
					case client.send <- event:
					default:
						close(client.send)
						delete(clients, client)
					}
				}
				if len(clients) == 0 {
					delete(h.clients, event.LibraryID)
				}
			}

			// Also send to "all" clients for any library update
			if allClients, ok := h.clients["all"]; ok {
				for client := range allClients {
					select {
					case client.send <- event:
					default:
						close(client.send)
						delete(allClients, client)
					}
				}
				if len(allClients) == 0 {
					delete(h.clients, "all")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastEvent sends a library event to all clients watching that library
func (h *hub) BroadcastEvent(event types.LibraryEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("WebSocket broadcast channel full, dropping event for library %s", event.LibraryID)
	}
}

// RegisterClient registers a new client with the hub
func (h *hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a client from the hub
func (h *hub) UnregisterClient(client *Client) {
	h.unregister <- client
}
