package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// event names
const (
	// synthesized when the channel is up
	EventConnect = "connect"

	// synthesized when the channel goes down
	EventDisconnect = "disconnect"

	// is pushed when a vehicle reports a new position
	EventVehicleLocation = "vehicle:location"

	// is pushed when a trip changes state
	EventTripUpdated = "trip:updated"

	// is pushed when the backend creates a notification
	EventNotification = "notification"
)

const (
	// delay before the stub reports itself connected
	DefaultConnectDelay = 1 * time.Second

	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size accepted from the backend
	maxMessageSize = 64 * 1024

	// outbound emit budget
	emitsPerSecond = 5
	emitBurst      = 10
)

var (
	ErrNotConnected = errors.New("realtime channel not connected")
	ErrRateLimited  = errors.New("realtime emit rate limit exceeded")

	ErrConnectInProgress = errors.New("realtime connect already in progress")
	ErrConnectAborted    = errors.New("realtime connect aborted by disconnect")
)

// wire envelope for every realtime message
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// receives an event's payload
type Handler func(payload json.RawMessage)

// a realtime connection to the backend
type Channel interface {
	Connect(ctx context.Context) error
	On(event string, h Handler)
	Emit(event string, data any) error
	Disconnect() error
}

// keeps the handlers registered per event
type registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func (r *registry) On(event string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handlers == nil {
		r.handlers = make(map[string][]Handler)
	}
	r.handlers[event] = append(r.handlers[event], h)
}

func (r *registry) dispatch(event string, payload json.RawMessage) {
	r.mu.RLock()
	handlers := append([]Handler(nil), r.handlers[event]...)
	r.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}
