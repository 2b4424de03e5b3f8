package api

import (
	"context"
	"net/http"
	"net/url"

	"codeberg.org/fleetdesk/console/internal/gateway"
)

// reporting periods accepted by /analytics/trips
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

type Analytics struct {
	r Requester
}

func (a *Analytics) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := a.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/analytics/dashboard"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Analytics) Fleet(ctx context.Context) (*FleetStats, error) {
	var out FleetStats
	if err := a.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/analytics/fleet"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Analytics) Trips(ctx context.Context, period string) (*TripStats, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}

	var out TripStats
	if err := a.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/analytics/trips", Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Analytics) Drivers(ctx context.Context) ([]DriverPerformance, error) {
	var out []DriverPerformance
	if err := a.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/analytics/drivers"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
