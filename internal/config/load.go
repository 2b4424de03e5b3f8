package config

import (
	"fmt"
	"net/url"
	"time"
)

// builds the Config from the resolver, using the file config as the
// fallback for every key the environment does not set
func Load(r *Resolver, file *FileConfig) (*Config, error) {
	if file == nil {
		file = &FileConfig{}
	}

	cfg := &Config{
		APIURL:       r.Resolve(KeyAPIURL, orDefault(file.APIURL, DefaultAPIURL)),
		RealtimeURL:  r.Resolve(KeyRealtimeURL, orDefault(file.RealtimeURL, DefaultRealtimeURL)),
		RealtimeMode: r.Resolve(KeyRealtimeMode, orDefault(file.RealtimeMode, RealtimeStub)),
		Environment:  r.Resolve(KeyEnvironment, "development"),
		Timeout:      RequestTimeout,
		SessionStore: r.Resolve(KeySessionStore, orDefault(file.SessionStore, SessionFile)),
		SessionFile:  r.Resolve(KeySessionFile, ""),
		RedisURL:     r.Resolve(KeyRedisURL, file.RedisURL),
		LogFile:      r.Resolve(KeyLogFile, DefaultLogFile),
		InsightsTTL:  DefaultInsightsTTL,
	}

	if raw := r.Resolve(KeyInsightsCache, ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a duration: %w", KeyInsightsCache, err)
		}
		cfg.InsightsTTL = ttl
	}

	if cfg.SessionStore == SessionFile && cfg.SessionFile == "" {
		path, err := DefaultSessionPath()
		if err != nil {
			return nil, err
		}
		cfg.SessionFile = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applies non-empty command-line overrides and re-validates
func (c *Config) ApplyFlags(f Flags) error {
	if f.APIURL != "" {
		c.APIURL = f.APIURL
	}

	if f.RealtimeMode != "" {
		c.RealtimeMode = f.RealtimeMode
	}

	if f.SessionStore != "" {
		c.SessionStore = f.SessionStore
	}

	return c.Validate()
}

// checks that the configuration is usable
func (c *Config) Validate() error {
	if err := validateURL(KeyAPIURL, c.APIURL, "http", "https"); err != nil {
		return err
	}

	switch c.RealtimeMode {
	case RealtimeStub:
	case RealtimeWebSocket:
		if err := validateURL(KeyRealtimeURL, c.RealtimeURL, "ws", "wss"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", KeyRealtimeMode, RealtimeStub, RealtimeWebSocket, c.RealtimeMode)
	}

	switch c.SessionStore {
	case SessionMemory, SessionFile:
	case SessionRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%s is required when %s=%s", KeyRedisURL, KeySessionStore, SessionRedis)
		}
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}

	return nil
}

// reports whether the console runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func validateURL(key, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}

	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}

	return fmt.Errorf("%s must be an absolute %s URL, got %q", key, schemes[0], raw)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
