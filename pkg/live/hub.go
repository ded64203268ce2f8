package live

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/head/internal/errors"
)

const writeWait = 10 * time.Second

// Source supplies the frames a new client starts from.
type Source interface {
	// WithSnapshot calls fn with the current snapshot frames while no
	// flush can interleave.
	WithSnapshot(fn func(frames [][]byte))
}

// client is a connected websocket. Writes are serialized per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

// Hub manages websocket connections for live head updates.
type Hub struct {
	source   Source
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}

	// OnClientsChanged is called with the new client count after a client
	// joins or leaves.
	OnClientsChanged func(n int)
}

var _ Broadcaster = (*Hub)(nil)

// NewHub creates a hub whose clients start from source's snapshot.
func NewHub(source Source, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		source:  source,
		logger:  logger,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// HandleWebSocket upgrades the request, sends the current snapshot and
// keeps the connection registered until the client disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("head: websocket upgrade failed",
			"remote", req.RemoteAddr,
			"error", errors.New("E402").Wrap(err),
		)
		return
	}

	c := &client{conn: conn}
	joined := false
	h.source.WithSnapshot(func(frames [][]byte) {
		for _, frame := range frames {
			if err := c.write(frame); err != nil {
				h.logger.Debug("head: snapshot write failed", "remote", req.RemoteAddr, "error", err)
				return
			}
		}
		h.add(c)
		joined = true
	})
	if !joined {
		conn.Close()
		return
	}

	// Clients never send frames; reading detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.clientsChanged(n)
}

// remove unregisters and closes c. It reports whether c was registered.
func (h *Hub) remove(c *client) bool {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	c.conn.Close()
	if ok {
		h.clientsChanged(n)
	}
	return ok
}

func (h *Hub) clientsChanged(n int) {
	if h.OnClientsChanged != nil {
		h.OnClientsChanged(n)
	}
}

// Broadcast sends frame to every client. Clients whose write fails are
// dropped. It returns the number of clients that received the frame.
func (h *Hub) Broadcast(frame []byte) int {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range clients {
		if err := c.write(frame); err != nil {
			h.logger.Debug("head: dropping client", "remote", c.conn.RemoteAddr().String(), "error", err)
			h.remove(c)
			continue
		}
		sent++
	}
	return sent
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
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		c.conn.Close()
	}
	if len(clients) > 0 {
		h.clientsChanged(0)
	}
}
