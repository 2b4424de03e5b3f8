package mockapi

import (
	"encoding/json"
	"sync"
	"time"

	"codeberg.org/fleetdesk/console/internal/logger"
	"codeberg.org/fleetdesk/console/internal/realtime"
	"github.com/gorilla/websocket"
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size accepted from the console
	maxMessageSize = 16 * 1024

	// outbound queue per client
	sendBufferSize = 64
)

// one connected console
type Client struct {
	ID     string
	UserID string

	conn *websocket.Conn
	hub  *Hub
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// fans realtime events out to every connected console
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan realtime.Event

	mu       sync.RWMutex
	clients  map[string]*Client
	shutdown chan struct{}
	done     chan struct{}
	once     sync.Once
	metrics  *Metrics
}

func NewHub(metrics *Metrics) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan realtime.Event, 256),
		clients:    make(map[string]*Client),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		metrics:    metrics,
	}
}

// starts the hub's main loop
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.gauge()

			logger.Info("realtime client registered", "client_id", client.ID, "user_id", client.UserID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				client.close()
			}
			h.mu.Unlock()
			h.gauge()

			logger.Info("realtime client unregistered", "client_id", client.ID)

		case ev := <-h.Broadcast:
			h.deliver(ev)

		case <-h.shutdown:
			h.mu.Lock()
			for id, c := range h.clients {
				c.close()
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.gauge()
			return
		}
	}
}

func (h *Hub) deliver(ev realtime.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.ErrorErr(err, "failed to marshal realtime event", "type", ev.Type)
		return
	}

	if h.metrics != nil {
		h.metrics.wsEvents.WithLabelValues(ev.Type).Inc()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		c.enqueue(data)
	}
}

// queues an event for every client. never blocks the caller.
func (h *Hub) Publish(eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorErr(err, "failed to marshal realtime payload", "type", eventType)
		return
	}

	select {
	case h.Broadcast <- realtime.Event{Type: eventType, Payload: raw, Timestamp: time.Now()}:
	default:
		logger.Warn("realtime broadcast queue full, dropping event", "type", eventType)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closes all connections and stops the loop
func (h *Hub) Shutdown() {
	h.once.Do(func() {
		close(h.shutdown)
	})
	<-h.done
}

func (h *Hub) gauge() {
	if h.metrics != nil {
		h.metrics.wsClients.Set(float64(h.ClientCount()))
	}
}

func newClient(id, userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBufferSize),
	}
}

// drops the message when the client is too slow to keep up
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		logger.Warn("realtime client buffer full, dropping event", "client_id", c.ID)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// reads events from the console until the connection drops
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		var ev realtime.Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket error", "client_id", c.ID, "error", err)
			}
			return
		}

		logger.Debug("realtime event from console", "client_id", c.ID, "type", ev.Type)
	}
}

// writes queued events and keeps the connection alive
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
