package realtime

import (
	"context"
	"sync"
	"time"

	"codeberg.org/fleetdesk/console/internal/logger"
)

// stands in for a realtime transport: nothing is dialed, Connect reports
// success after a fixed delay and Emit only logs
type Stub struct {
	registry

	delay     time.Duration
	mu        sync.Mutex
	timer     *time.Timer
	gen       uint64
	connected bool
}

// creates a stub. delay <= 0 uses DefaultConnectDelay.
func NewStub(delay time.Duration) *Stub {
	if delay <= 0 {
		delay = DefaultConnectDelay
	}

	return &Stub{delay: delay}
}

// schedules the connect event. calling it again while pending or connected
// is a no-op.
func (s *Stub) Connect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected || s.timer != nil {
		return nil
	}

	s.gen++
	gen := s.gen

	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.gen != gen || s.timer == nil {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.connected = true
		s.mu.Unlock()

		logger.Debug("realtime stub connected")
		s.dispatch(EventConnect, nil)
	})

	return nil
}

func (s *Stub) Emit(event string, data any) error {
	logger.Debug("realtime stub emit", "event", event, "data", data)
	return nil
}

// cancels a pending connect and reports the disconnect if it was connected
func (s *Stub) Disconnect() error {
	s.mu.Lock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++

	wasConnected := s.connected
	s.connected = false
	s.mu.Unlock()

	if wasConnected {
		s.dispatch(EventDisconnect, nil)
	}

	return nil
}

func (s *Stub) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
