package session

import (
	"context"
	"fmt"

	"codeberg.org/fleetdesk/console/internal/config"
)

// builds the store selected by the configuration
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.SessionStore {
	case config.SessionMemory:
		return NewMemoryStore(), nil
	case config.SessionFile:
		return NewFileStore(cfg.SessionFile), nil
	case config.SessionRedis:
		return NewRedisStore(ctx, cfg.RedisURL, "", 0)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
