package api

import (
	"context"
	"fmt"
	"net/http"

	"codeberg.org/fleetdesk/console/internal/gateway"
	"codeberg.org/fleetdesk/console/internal/session"
)

type Auth struct {
	r       Requester
	session *session.Session
}

// exchanges credentials for a token and stores it in the session
func (a *Auth) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := a.r.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/auth/login", Body: creds}, &resp); err != nil {
		return nil, err
	}

	if a.session != nil && resp.Token != "" {
		if err := a.session.SetToken(ctx, resp.Token); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	return &resp, nil
}

// ends the session on the backend, then locally. the local token is cleared
// even when the backend call fails.
func (a *Auth) Logout(ctx context.Context) error {
	err := a.r.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/auth/logout"}, nil)

	if a.session != nil {
		a.session.Clear()
	}

	return err
}

func (a *Auth) Me(ctx context.Context) (*User, error) {
	var u User
	if err := a.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/auth/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// trades the current token for a fresh one
func (a *Auth) Refresh(ctx context.Context) (*LoginResponse, error) {
	var resp LoginResponse
	if err := a.r.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/auth/refresh"}, &resp); err != nil {
		return nil, err
	}

	if a.session != nil && resp.Token != "" {
		if err := a.session.SetToken(ctx, resp.Token); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	return &resp, nil
}
