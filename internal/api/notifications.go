package api

import (
	"context"
	"net/http"
	"net/url"

	"codeberg.org/fleetdesk/console/internal/gateway"
)

type Notifications struct {
	r Requester
}

func (n *Notifications) List(ctx context.Context, unreadOnly bool) (*NotificationList, error) {
	q := url.Values{}
	if unreadOnly {
		q.Set("unread", "true")
	}

	var out NotificationList
	if err := n.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/notifications", Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (n *Notifications) MarkRead(ctx context.Context, id int64) error {
	return n.r.Do(ctx, gateway.Request{Method: http.MethodPut, Path: gateway.Path("/notifications/{id}/read", id)}, nil)
}

func (n *Notifications) MarkAllRead(ctx context.Context) error {
	return n.r.Do(ctx, gateway.Request{Method: http.MethodPut, Path: "/notifications/read-all"}, nil)
}

func (n *Notifications) Delete(ctx context.Context, id int64) error {
	return n.r.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: gateway.Path("/notifications/{id}", id)}, nil)
}
