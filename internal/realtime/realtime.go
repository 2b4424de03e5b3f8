package realtime

import (
	"codeberg.org/fleetdesk/console/internal/config"
	"codeberg.org/fleetdesk/console/internal/session"
)

// picks the channel implementation configured for this run
func New(cfg *config.Config, sess *session.Session) Channel {
	if cfg != nil && cfg.RealtimeMode == config.RealtimeWebSocket {
		return NewWSChannel(cfg.RealtimeURL, sess)
	}

	return NewStub(DefaultConnectDelay)
}
