package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codeberg.org/fleetdesk/console/internal/config"
	"codeberg.org/fleetdesk/console/internal/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsServer struct {
	*httptest.Server
	authHeader chan string
	received   chan Event
}

// echoes a vehicle:location event on connect and records everything sent
func newWSServer(t *testing.T) *wsServer {
	t.Helper()

	s := &wsServer{
		authHeader: make(chan string, 1),
		received:   make(chan Event, 16),
	}

	upgrader := websocket.Upgrader{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.authHeader <- r.Header.Get("Authorization")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.WriteJSON(Event{
			Type:    EventVehicleLocation,
			Payload: json.RawMessage(`{"vehicle_id":7,"lat":52.1,"lng":4.3}`),
		})

		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			s.received <- ev
		}
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *wsServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestWSChannel_ConnectDispatchesEvents(t *testing.T) {
	srv := newWSServer(t)

	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.SetToken(context.Background(), "tok-1"))

	ch := NewWSChannel(srv.wsURL(), sess)

	connected := make(chan struct{}, 1)
	locations := make(chan json.RawMessage, 1)
	ch.On(EventConnect, func(json.RawMessage) { connected <- struct{}{} })
	ch.On(EventVehicleLocation, func(p json.RawMessage) { locations <- p })

	require.NoError(t, ch.Connect(context.Background()))
	t.Cleanup(func() { _ = ch.Disconnect() })

	assert.Equal(t, "Bearer tok-1", <-srv.authHeader)

	select {
	case <-connected:
	case <-time.After(time.Second):
		t.Fatal("connect handler not invoked")
	}

	select {
	case p := <-locations:
		assert.JSONEq(t, `{"vehicle_id":7,"lat":52.1,"lng":4.3}`, string(p))
	case <-time.After(time.Second):
		t.Fatal("location event not dispatched")
	}
}

func TestWSChannel_EmitSendsEnvelope(t *testing.T) {
	srv := newWSServer(t)

	ch := NewWSChannel(srv.wsURL(), nil)
	require.NoError(t, ch.Connect(context.Background()))
	t.Cleanup(func() { _ = ch.Disconnect() })

	assert.Empty(t, <-srv.authHeader)

	require.NoError(t, ch.Emit("trip:assign", map[string]int{"trip_id": 3}))

	select {
	case ev := <-srv.received:
		assert.Equal(t, "trip:assign", ev.Type)
		assert.JSONEq(t, `{"trip_id":3}`, string(ev.Payload))
	case <-time.After(time.Second):
		t.Fatal("server did not receive the event")
	}
}

func TestWSChannel_EmitRateLimited(t *testing.T) {
	srv := newWSServer(t)

	ch := NewWSChannel(srv.wsURL(), nil)
	require.NoError(t, ch.Connect(context.Background()))
	t.Cleanup(func() { _ = ch.Disconnect() })

	var limited bool
	for i := 0; i < emitBurst+5; i++ {
		if err := ch.Emit("ping", i); err != nil {
			assert.ErrorIs(t, err, ErrRateLimited)
			limited = true
			break
		}
	}

	assert.True(t, limited, "burst should be exhausted")
}

func TestWSChannel_EmitNotConnected(t *testing.T) {
	ch := NewWSChannel("ws://127.0.0.1:1/ws", nil)
	assert.ErrorIs(t, ch.Emit("x", nil), ErrNotConnected)
}

func TestWSChannel_DisconnectDispatchesOnce(t *testing.T) {
	srv := newWSServer(t)

	ch := NewWSChannel(srv.wsURL(), nil)

	disconnects := make(chan struct{}, 4)
	ch.On(EventDisconnect, func(json.RawMessage) { disconnects <- struct{}{} })

	require.NoError(t, ch.Connect(context.Background()))
	require.True(t, ch.Connected())

	require.NoError(t, ch.Disconnect())
	require.NoError(t, ch.Disconnect())

	assert.False(t, ch.Connected())

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, disconnects, 1)
}

func TestWSChannel_ConnectFails(t *testing.T) {
	ch := NewWSChannel("ws://127.0.0.1:1/ws", nil)

	err := ch.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, ch.Connected())
}

// a server that accepts the tcp connection but never answers the handshake
func newStalledServer(t *testing.T) (*httptest.Server, <-chan struct{}) {
	t.Helper()

	entered := make(chan struct{}, 1)
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	return srv, entered
}

func TestWSChannel_HandshakeDoesNotHoldLock(t *testing.T) {
	srv, entered := newStalledServer(t)
	ch := NewWSChannel("ws"+strings.TrimPrefix(srv.URL, "http"), nil)

	result := make(chan error, 1)
	go func() { result <- ch.Connect(context.Background()) }()
	t.Cleanup(func() {
		_ = ch.Disconnect()
		<-result
	})

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("handshake never reached the server")
	}

	calls := make(chan error, 1)
	go func() {
		_ = ch.Connected()
		calls <- ch.Emit("ping", nil)
	}()

	select {
	case err := <-calls:
		assert.ErrorIs(t, err, ErrNotConnected)
	case <-time.After(time.Second):
		t.Fatal("channel blocked while the handshake was pending")
	}

	assert.ErrorIs(t, ch.Connect(context.Background()), ErrConnectInProgress)
}

func TestWSChannel_DisconnectAbortsPendingDial(t *testing.T) {
	srv, entered := newStalledServer(t)
	ch := NewWSChannel("ws"+strings.TrimPrefix(srv.URL, "http"), nil)

	connects := make(chan struct{}, 1)
	ch.On(EventConnect, func(json.RawMessage) { connects <- struct{}{} })

	result := make(chan error, 1)
	go func() { result <- ch.Connect(context.Background()) }()

	<-entered
	require.NoError(t, ch.Disconnect())

	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrConnectAborted)
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect did not abort the pending dial")
	}

	assert.False(t, ch.Connected())
	assert.Empty(t, connects)
}

func TestNew_SelectsImplementation(t *testing.T) {
	_, isStub := New(&config.Config{RealtimeMode: config.RealtimeStub}, nil).(*Stub)
	assert.True(t, isStub)

	_, isStub = New(nil, nil).(*Stub)
	assert.True(t, isStub)

	ws, isWS := New(&config.Config{RealtimeMode: config.RealtimeWebSocket, RealtimeURL: "ws://x/ws"}, nil).(*WSChannel)
	require.True(t, isWS)
	assert.Equal(t, "ws://x/ws", ws.endpoint)
}
