package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/shopline/shop-api/models"
)

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusUpdated = "order_status_updated"

	writeWait  = 5 * time.Second
	sendBuffer = 64
)

// OrderEvent is one message on the order feed.
type OrderEvent struct {
	Event string       `json:"event"`
	Order models.Order `json:"order"`
}

// Hub fans order events out to every connected websocket client. Each client has
// its own writer goroutine; Broadcast only queues.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	closed   bool
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// GET /ws/orders
func (h *Hub) OrderWebSocketHandler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.add(cl) {
		conn.Close()
		return
	}
	go h.writePump(cl)
	defer h.remove(cl)

	// The feed is one-way; reading only detects the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump drains the client's queue until it is closed, then says goodbye.
func (h *Hub) writePump(cl *client) {
	defer cl.conn.Close()
	for data := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(cl)
			return
		}
	}
	cl.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(writeWait))
}

func (h *Hub) add(cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[cl] = struct{}{}
	return true
}

// remove unregisters cl and closes its queue, which stops its writer.
func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(cl)
}

func (h *Hub) dropLocked(cl *client) {
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues one event per order for every client without blocking.
// A client whose queue is full is dropped.
func (h *Hub) Broadcast(event string, orders ...models.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, o := range orders {
		data, err := json.Marshal(OrderEvent{Event: event, Order: o})
		if err != nil {
			h.log.WithError(err).Error("encode order event")
			continue
		}
		for cl := range h.clients {
			select {
			case cl.send <- data:
			default:
				h.log.Warn("order feed client too slow; disconnecting")
				h.dropLocked(cl)
			}
		}
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		h.dropLocked(cl)
	}
}
