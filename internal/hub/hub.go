package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultKeepAlive is the interval between SSE keep-alive comments
const DefaultKeepAlive = 30 * time.Second

// Client represents a connected SSE client
type Client struct {
	id     string
	events chan []byte
}

// Hub fans change events out to SSE clients
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan any
	done       chan struct{}
	keepAlive  time.Duration
	seq        uint64
}

// New creates a new Hub
func New() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan any, 256),
		done:       make(chan struct{}),
		keepAlive:  DefaultKeepAlive,
	}
}

// WithKeepAlive sets the keep-alive interval
func (h *Hub) WithKeepAlive(d time.Duration) *Hub {
	h.keepAlive = d
	return h
}

// Run starts the hub's event loop and returns when ctx is done. Connected
// clients are closed on return.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("SSE client connected: %s (total: %d)", client.id, n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.events)
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("SSE client disconnected: %s (total: %d)", client.id, n)

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("Failed to marshal event: %v", err)
				continue
			}

			h.seq++
			msg := []byte(fmt.Sprintf("id: %d\ndata: %s\n\n", h.seq, data))

			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.events <- msg:
				default:
					log.Printf("SSE client %s is slow, skipping message", client.id)
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.events)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast queues an event for every connected client
func (h *Hub) Broadcast(event any) {
	select {
	case h.broadcast <- event:
	default:
		log.Println("Broadcast channel full, dropping event")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP streams events to one client until it disconnects or the hub
// stops
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := &Client{
		id:     uuid.NewString(),
		events: make(chan []byte, 64),
	}

	select {
	case h.register <- client:
	case <-h.done:
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
	}()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.events:
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
