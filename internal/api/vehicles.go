package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"codeberg.org/fleetdesk/console/internal/gateway"
)

type Vehicles struct {
	r Requester
}

func (v *Vehicles) List(ctx context.Context, f VehicleFilter) ([]Vehicle, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	pageQuery(q, f.Page, f.PerPage)

	var out []Vehicle
	if err := v.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/vehicles", Query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *Vehicles) GetByID(ctx context.Context, id int64) (*Vehicle, error) {
	var out Vehicle
	if err := v.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: gateway.Path("/vehicles/{id}", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (v *Vehicles) Create(ctx context.Context, in VehicleInput) (*Vehicle, error) {
	var out Vehicle
	if err := v.r.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/vehicles", Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (v *Vehicles) Update(ctx context.Context, id int64, in VehicleInput) (*Vehicle, error) {
	var out Vehicle
	if err := v.r.Do(ctx, gateway.Request{Method: http.MethodPut, Path: gateway.Path("/vehicles/{id}", id), Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (v *Vehicles) Delete(ctx context.Context, id int64) error {
	return v.r.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: gateway.Path("/vehicles/{id}", id)}, nil)
}

// returns recorded positions between from and to; zero times are omitted
func (v *Vehicles) History(ctx context.Context, id int64, from, to time.Time) ([]HistoryPoint, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		q.Set("to", to.UTC().Format(time.RFC3339))
	}

	var out []HistoryPoint
	if err := v.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: gateway.Path("/vehicles/{id}/history", id), Query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *Vehicles) Location(ctx context.Context, id int64) (*Location, error) {
	var out Location
	if err := v.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: gateway.Path("/vehicles/{id}/location", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
