// Package sse implements a server-sent-events hub that fans engine events
// out to connected browsers.
package sse

import (
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jon4hz/yurei/engine"
)

// clientBuffer is the per-client event backlog. A client that falls this far
// behind starts losing events instead of blocking the publisher.
const clientBuffer = 16

type client struct {
	id     string
	events chan engine.Event
	// categoryID filters events to a single category, 0 receives everything.
	categoryID uint
}

// Hub distributes engine events to subscribed SSE clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	log     *log.Logger
}

var _ engine.Broadcaster = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log.Default().WithPrefix("sse"),
	}
}

// Publish sends the event to every matching client. It never blocks: slow
// clients drop events.
func (h *Hub) Publish(event engine.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, cl := range h.clients {
		if cl.categoryID != 0 && event.CategoryID != 0 && cl.categoryID != event.CategoryID {
			continue
		}
		select {
		case cl.events <- event:
		default:
			h.log.Debug("dropping event for slow client", "client", cl.id, "event", event.Type)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(categoryID uint) *client {
	cl := &client{
		id:         uuid.NewString(),
		events:     make(chan engine.Event, clientBuffer),
		categoryID: categoryID,
	}
	h.mu.Lock()
	h.clients[cl.id] = cl
	h.mu.Unlock()
	h.log.Debug("client connected", "client", cl.id, "category", categoryID)
	return cl
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl.id)
	h.mu.Unlock()
	h.log.Debug("client disconnected", "client", cl.id)
}

// Handler streams events to the client until it disconnects. The optional
// "category" query parameter narrows the stream to a single category.
func (h *Hub) Handler(c *gin.Context) {
	var categoryID uint
	if raw := c.Query("category"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid category"})
			return
		}
		categoryID = uint(parsed)
	}

	cl := h.register(categoryID)
	defer h.unregister(cl)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-cl.events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
