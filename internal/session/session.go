// Package session holds the console's auth token behind an explicit object
// that is handed to the API gateway.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeberg.org/fleetdesk/console/internal/logger"
	"github.com/golang-jwt/jwt/v5"
)

// storage key for the auth token
const TokenKey = "token"

// bound for a single store round-trip when reading the token
const storeTimeout = 2 * time.Second

var ErrNotFound = errors.New("session key not found")

// persists session values
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// claims carried by tokens issued by the backend
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Session struct {
	mu    sync.Mutex
	store Store
}

func New(store Store) *Session {
	return &Session{store: store}
}

// returns the stored token, or "" when none is stored. store failures are
// logged and treated as an absent token so requests proceed unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	token, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("failed to read session token", "error", err)
		}
		return ""
	}

	return token
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	return nil
}

// removes the stored token. clearing an empty session is a no-op.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, TokenKey); err != nil && !errors.Is(err, ErrNotFound) {
		logger.Warn("failed to clear session token", "error", err)
	}
}

// reports whether a token is stored
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// decodes the stored token's claims without verifying the signature; the
// console only uses them for display and the backend remains the authority.
func (s *Session) Claims() (*Claims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotFound
	}

	return ParseClaims(token)
}

func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}

	return claims, nil
}

// reports whether the token's exp claim is in the past. tokens without an
// expiry never expire here.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}

	return !now.Before(c.ExpiresAt.Time)
}
