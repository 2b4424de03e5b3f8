// Package mockapi is an in-memory fleet backend serving every endpoint the
// console calls. It backs local development and end-to-end tests.
package mockapi

import (
	"time"

	"codeberg.org/fleetdesk/console/internal/api"
)

const (
	DefaultAddr         = ":8000"
	DefaultPushInterval = 3 * time.Second
	DefaultRateLimit    = 300
	DefaultRatePeriod   = time.Minute

	// degrees moved per simulation tick
	driftStep = 0.0008
)

type Options struct {
	// HS256 secret for issued tokens
	JWTSecret string
	TokenTTL  time.Duration

	// requests per period per client IP; zero disables limiting
	RateLimit  int64
	RatePeriod time.Duration

	AllowOrigins []string

	// how often on-trip vehicles report a position; zero disables the simulation
	PushInterval time.Duration
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Clients int    `json:"realtime_clients"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type locationPayload struct {
	VehicleID int64        `json:"vehicle_id"`
	Location  api.Location `json:"location"`
}
