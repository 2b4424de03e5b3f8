package config

import "time"

// environment keys consulted by Load
const (
	KeyAPIURL        = "VITE_API_URL"
	KeyRealtimeURL   = "VITE_WS_URL"
	KeyRealtimeMode  = "VITE_REALTIME_MODE"
	KeyEnvironment   = "FLEETDESK_ENV"
	KeySessionStore  = "FLEETDESK_SESSION_STORE"
	KeySessionFile   = "FLEETDESK_SESSION_FILE"
	KeyRedisURL      = "FLEETDESK_REDIS_URL"
	KeyLogFile       = "FLEETDESK_LOG_FILE"
	KeyInsightsCache = "FLEETDESK_INSIGHTS_TTL"
)

const (
	DefaultAPIURL      = "http://localhost:8000/api"
	DefaultRealtimeURL = "ws://localhost:8000/api/ws"
	DefaultLogFile     = "fleetdesk.log"

	// fixed transport-level timeout for every API call
	RequestTimeout = 10 * time.Second

	DefaultInsightsTTL = 5 * time.Minute
)

// session token backends
const (
	SessionMemory = "memory"
	SessionFile   = "file"
	SessionRedis  = "redis"
)

// realtime channel implementations
const (
	RealtimeStub      = "stub"
	RealtimeWebSocket = "ws"
)

// resolved once at startup and passed to every component
type Config struct {
	APIURL       string
	RealtimeURL  string
	RealtimeMode string
	Environment  string
	Timeout      time.Duration
	SessionStore string
	SessionFile  string
	RedisURL     string
	LogFile      string
	InsightsTTL  time.Duration
}

// persisted settings in ~/.fleetdesk/config.yml
type FileConfig struct {
	APIURL       string `yaml:"api_url,omitempty"`
	RealtimeURL  string `yaml:"realtime_url,omitempty"`
	RealtimeMode string `yaml:"realtime_mode,omitempty"`
	SessionStore string `yaml:"session_store,omitempty"`
	RedisURL     string `yaml:"redis_url,omitempty"`
}

// command-line overrides, applied after environment and file config
type Flags struct {
	APIURL       string
	RealtimeMode string
	SessionStore string
	ConfigPath   string
	EnvFile      string
}
