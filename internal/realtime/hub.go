// Package realtime pushes freshly published dashboard views to connected
// browsers over websockets, so an order placed in one tab refreshes the
// dashboard in every tab.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/papertrade/portal/internal/common"
)

const (
	// sendQueueSize bounds the per-client backlog. A client that falls this
	// far behind is dropped rather than allowed to stall broadcasts.
	sendQueueSize = 16

	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin portal pages only; the portal serves no cross-origin UI.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one connected browser. Writes go through the send queue and a
// dedicated writer goroutine; broadcasts never touch the connection directly.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// Hub tracks connected websocket clients and broadcasts JSON payloads.
// Broadcasting is non-blocking: a client that cannot keep up is dropped.
type Hub struct {
	logger *common.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *common.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers the client. The read loop
// exists only to detect the peer closing; the write loop drains the client's
// send queue.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Str("error", err.Error()).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client connected")

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.drop(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

// drop unregisters and closes a client. Idempotent; the send queue is never
// closed, so concurrent broadcasts cannot panic.
func (h *Hub) drop(c *client) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		close(c.done)
		_ = c.conn.Close()
	})
}

// BroadcastJSON queues v for every connected client without blocking. A
// client whose queue is full is dropped; the remaining clients are
// unaffected.
func (h *Hub) BroadcastJSON(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn().Str("error", err.Error()).Msg("broadcast marshal failed")
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		case <-c.done:
		default:
			h.logger.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("dropping slow websocket client")
			h.drop(c)
		}
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.drop(c)
	}
}
