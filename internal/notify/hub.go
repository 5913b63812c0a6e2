package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// client is one connected SSE stream
type client struct {
	id      string
	changes chan []byte
}

// Hub fans changes out to SSE clients
type Hub struct {
	mu         sync.RWMutex
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan Change
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Change, 256),
	}
}

// Run starts the hub's fan-out loop
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			log.Printf("SSE client connected: %s (total: %d)", c.id, h.ClientCount())

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.changes)
			}
			h.mu.Unlock()
			log.Printf("SSE client disconnected: %s (total: %d)", c.id, h.ClientCount())

		case change := <-h.broadcast:
			data, err := json.Marshal(change)
			if err != nil {
				log.Printf("Failed to marshal change: %v", err)
				continue
			}

			msg := []byte(fmt.Sprintf("data: %s\n\n", data))

			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.changes <- msg:
				default:
					// Client is slow, skip this message
					log.Printf("SSE client %s is slow, skipping change", c.id)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues a change for all connected clients
func (h *Hub) Broadcast(change Change) {
	select {
	case h.broadcast <- change:
	default:
		log.Println("Broadcast channel full, dropping change")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles SSE connections
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	c := &client{
		id:      fmt.Sprintf("%d", time.Now().UnixNano()),
		changes: make(chan []byte, 64),
	}

	h.register <- c
	defer func() {
		h.unregister <- c
	}()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.changes:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
