package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"codeberg.org/fleetdesk/console/internal/config"
	"codeberg.org/fleetdesk/console/internal/logger"
	"codeberg.org/fleetdesk/console/internal/mockapi"
	"github.com/gin-gonic/gin"
)

func main() {
	env := config.DefaultResolver(".env")

	logger.Configure(env.Resolve(config.KeyEnvironment, "development"), os.Stdout)
	logger.Info("starting fleetdesk mock backend")

	if env.Resolve(config.KeyEnvironment, "development") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := mockapi.Options{
		JWTSecret:    env.Resolve("MOCKAPI_JWT_SECRET", "fleetdesk-dev-secret"),
		TokenTTL:     durationOr(env.Resolve("MOCKAPI_TOKEN_TTL", ""), 12*time.Hour),
		RateLimit:    int64OrDefault(env.Resolve("MOCKAPI_RATE_LIMIT", ""), mockapi.DefaultRateLimit),
		RatePeriod:   mockapi.DefaultRatePeriod,
		AllowOrigins: splitList(env.Resolve("MOCKAPI_ALLOW_ORIGINS", "")),
		PushInterval: durationOr(env.Resolve("MOCKAPI_PUSH_INTERVAL", ""), mockapi.DefaultPushInterval),
	}

	srv := mockapi.New(opts)

	addr := env.Resolve("MOCKAPI_ADDR", mockapi.DefaultAddr)
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     srv.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv.Start(ctx)

	go func() {
		logger.Info("mock backend listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down mock backend")

	// stop the simulation, then close websocket clients before draining http
	cancel()
	srv.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("mock backend stopped")
}

func durationOr(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		logger.Warn("ignoring invalid duration", "value", raw, "error", err)
		return def
	}
	return d
}

func int64OrDefault(raw string, def int64) int64 {
	if raw == "" {
		return def
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn("ignoring invalid number", "value", raw, "error", err)
		return def
	}
	return n
}

// comma-separated values with blanks dropped; empty allows every origin
func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
