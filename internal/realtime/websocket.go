package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"codeberg.org/fleetdesk/console/internal/logger"
	"codeberg.org/fleetdesk/console/internal/session"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// realtime channel over a websocket to the backend
type WSChannel struct {
	registry

	endpoint string
	session  *session.Session
	dialer   *websocket.Dialer
	limiter  *rate.Limiter

	mu         sync.Mutex
	conn       *websocket.Conn
	connected  bool
	done       chan struct{}
	cancelDial context.CancelFunc
	dialConn   net.Conn
	aborted    bool
}

func NewWSChannel(endpoint string, sess *session.Session) *WSChannel {
	c := &WSChannel{
		endpoint: endpoint,
		session:  sess,
		limiter:  rate.NewLimiter(emitsPerSecond, emitBurst),
	}

	c.dialer = &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
		NetDialContext:   c.netDial,
	}

	return c
}

// dials tcp and remembers the socket so Disconnect can abort the handshake
func (c *WSChannel) netDial(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.aborted {
		conn.Close() //nolint:errcheck,gosec // G104: aborted dial
		return nil, ErrConnectAborted
	}

	c.dialConn = conn
	return conn, nil
}

// establishes the websocket connection and starts the pumps. the lock is
// not held during the handshake; Disconnect cancels a dial in flight.
func (c *WSChannel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	if c.cancelDial != nil {
		c.mu.Unlock()
		return ErrConnectInProgress
	}

	dialCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.cancelDial = cancel
	c.aborted = false
	c.mu.Unlock()

	header := http.Header{}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, _, err := c.dialer.DialContext(dialCtx, c.endpoint, header)

	c.mu.Lock()
	aborted := c.aborted
	c.cancelDial = nil
	c.dialConn = nil
	c.aborted = false

	if aborted {
		c.mu.Unlock()
		if conn != nil {
			conn.Close() //nolint:errcheck,gosec // G104: discarded connection
		}
		return ErrConnectAborted
	}

	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to connect: %w", err)
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	c.conn = conn
	c.connected = true
	c.done = make(chan struct{})

	go c.readPump(conn, c.done)
	go c.pingPump(conn, c.done)

	c.mu.Unlock()

	logger.Info("realtime connected", "endpoint", c.endpoint)
	c.dispatch(EventConnect, nil)

	return nil
}

// continuously reads events and routes them to handlers
func (c *WSChannel) readPump(conn *websocket.Conn, done chan struct{}) {
	defer c.teardown(conn, done)

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("realtime read failed", "error", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket timing

		if ev.Type == "" {
			continue
		}

		c.dispatch(ev.Type, ev.Payload)
	}
}

// sends periodic pings to keep the connection alive
func (c *WSChannel) pingPump(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.mu.Unlock()

			if err != nil {
				return
			}
		}
	}
}

// marks the channel down once per connection and reports the disconnect
func (c *WSChannel) teardown(conn *websocket.Conn, done chan struct{}) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}

	c.conn = nil
	c.connected = false
	close(done)
	c.mu.Unlock()

	conn.Close() //nolint:errcheck,gosec // G104: defer cleanup

	logger.Info("realtime disconnected", "endpoint", c.endpoint)
	c.dispatch(EventDisconnect, nil)
}

// sends an event to the backend. emits beyond the rate budget fail fast.
func (c *WSChannel) Emit(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.conn == nil {
		return ErrNotConnected
	}

	if !c.limiter.Allow() {
		return ErrRateLimited
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

	if err := c.conn.WriteJSON(Event{Type: event, Payload: payload, Timestamp: time.Now()}); err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}

	return nil
}

// closes the connection and reports the disconnect
func (c *WSChannel) Disconnect() error {
	c.mu.Lock()
	if c.cancelDial != nil {
		c.aborted = true
		c.cancelDial()
		if c.dialConn != nil {
			c.dialConn.Close() //nolint:errcheck,gosec // G104: aborts the handshake
		}
	}

	conn, done := c.conn, c.done
	if conn == nil {
		c.mu.Unlock()
		return nil
	}

	conn.WriteControl( //nolint:errcheck,gosec // best-effort close frame
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	c.mu.Unlock()

	c.teardown(conn, done)
	return nil
}

func (c *WSChannel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
