package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"go.uber.org/zap"
)

// WebSocket message types.
const (
	MessageConnected         = "connected"
	MessagePriceUpdate       = "price_update"
	MessageTradeExecuted     = "trade_executed"
	MessageLeaderboardUpdate = "leaderboard_update"
	MessageTournamentStatus  = "tournament_status"
)

const (
	clientSendBuffer = 32
	writeTimeout     = 10 * time.Second
)

// Message is the envelope of every WebSocket message.
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub keeps the connected WebSocket clients and fans messages out to them.
// A client that cannot keep up is disconnected instead of blocking the sender.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	upgrader websocket.Upgrader
	logger   *logger.Logger
	now      func() time.Time
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		mu:      sync.RWMutex{},
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		logger: log,
		now:    time.Now,
	}
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("WebSocket upgrade failed", zap.Error(err))

		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
		once: sync.Once{},
	}

	// Queued before registration so it is always the first message.
	if payload, err := h.encode(MessageConnected, map[string]string{"clientId": c.id}); err == nil {
		c.send <- payload
	}

	h.mu.Lock()
	h.clients[c.id] = c
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("WebSocket client connected", zap.String("client_id", c.id), zap.Int("clients", count))

	go h.writePump(c)

	h.readPump(c)
}

// readPump discards client input and unregisters the client once the
// connection fails or is closed.
func (h *Hub) readPump(c *client) {
	defer h.remove(c.id)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(c.id)

			return
		}
	}

	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	delete(h.clients, id)
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.close()
		h.logger.Info("WebSocket client disconnected", zap.String("client_id", id), zap.Int("clients", count))
	}
}

func (h *Hub) encode(msgType string, data any) ([]byte, error) {
	return json.Marshal(Message{
		Type:      msgType,
		Timestamp: h.now(),
		Data:      data,
	})
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(msgType string, data any) error {
	payload, err := h.encode(msgType, data)
	if err != nil {
		return err
	}

	var slow []string

	h.mu.RLock()
	for id, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.logger.Warn("Dropping slow WebSocket client", zap.String("client_id", id))
		h.remove(id)
	}

	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
