package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	// MessageHello is sent once after connecting, carrying the last cycle
	// when there is one.
	MessageHello MessageType = "hello"

	// MessageCycle is broadcast after every finished cycle.
	MessageCycle MessageType = "cycle"
)

// Message is sent to websocket clients.
type Message struct {
	Type  MessageType   `json:"type"`
	Cycle *CycleMessage `json:"cycle,omitempty"`
}

const writeTimeout = 5 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages websocket connections streaming cycle reports.
type Hub struct {
	clients  map[*client]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a new hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]bool),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // The inspector is a local debugging tool
			},
		},
	}
}

// HandleWebSocket upgrades the connection and keeps it registered until
// the client disconnects. hello is sent first.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request, hello Message) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	if data, err := json.Marshal(hello); err == nil {
		if err := c.write(data); err != nil {
			h.drop(c)
			return
		}
	}

	// Clients never send anything useful; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}

// Broadcast sends msg to all clients. Clients that fail are dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("encoding websocket message failed", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.Debug("dropping websocket client", "error", err)
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
	}
}
