package gateway

import (
	"net/http"

	"codeberg.org/fleetdesk/console/internal/session"
	"github.com/google/uuid"
)

// attaches the stored token as a bearer credential. no token, no header.
func AuthMiddleware(sess *session.Session) RequestMiddleware {
	return func(req *http.Request) error {
		if sess == nil {
			return nil
		}

		if token := sess.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		return nil
	}
}

// tags each request with an X-Request-ID unless the caller set one
func RequestIDMiddleware() RequestMiddleware {
	return func(req *http.Request) error {
		if req.Header.Get("X-Request-ID") == "" {
			req.Header.Set("X-Request-ID", uuid.NewString())
		}

		return nil
	}
}
