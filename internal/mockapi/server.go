package mockapi

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/fleetdesk/console/internal/logger"
	"codeberg.org/fleetdesk/console/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Server struct {
	opts    Options
	store   *Store
	issuer  *TokenIssuer
	hub     *Hub
	metrics *Metrics
	router  *gin.Engine
}

// creates a server with seeded fixtures. Start runs the realtime hub.
func New(opts Options) *Server {
	if opts.RatePeriod <= 0 {
		opts.RatePeriod = DefaultRatePeriod
	}

	metrics := NewMetrics()

	s := &Server{
		opts:    opts,
		store:   NewStore(),
		issuer:  NewTokenIssuer(opts.JWTSecret, opts.TokenTTL),
		hub:     NewHub(metrics),
		metrics: metrics,
		router:  gin.New(),
	}

	RegisterRoutes(s.router, s)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) Issuer() *TokenIssuer {
	return s.issuer
}

// runs the hub and the position simulation until ctx is done
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run()

	if s.opts.PushInterval > 0 {
		go s.simulate(ctx, s.opts.PushInterval)
	}
}

func (s *Server) Shutdown() {
	s.hub.Shutdown()
}

// nudges on-trip vehicles forward and pushes their new positions
func (s *Server) simulate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, v := range s.store.Drift(driftStep) {
				s.hub.Publish(realtime.EventVehicleLocation, locationPayload{VehicleID: v.ID, Location: *v.Location})
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// upgrades an authenticated request to a realtime connection
func (s *Server) serveWS(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.ErrorErr(err, "failed to upgrade connection")
		return
	}

	client := newClient(uuid.NewString(), userID, conn, s.hub)

	select {
	case s.hub.Register <- client:
	case <-s.hub.done:
		conn.Close() //nolint:errcheck,gosec // hub stopped
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
