package api

import (
	"context"
	"net/http"
	"net/url"

	"codeberg.org/fleetdesk/console/internal/gateway"
)

type Drivers struct {
	r Requester
}

func (d *Drivers) List(ctx context.Context, status string) ([]Driver, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}

	var out []Driver
	if err := d.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/drivers", Query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Drivers) GetByID(ctx context.Context, id int64) (*Driver, error) {
	var out Driver
	if err := d.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: gateway.Path("/drivers/{id}", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *Drivers) Create(ctx context.Context, in DriverInput) (*Driver, error) {
	var out Driver
	if err := d.r.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/drivers", Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *Drivers) Update(ctx context.Context, id int64, in DriverInput) (*Driver, error) {
	var out Driver
	if err := d.r.Do(ctx, gateway.Request{Method: http.MethodPut, Path: gateway.Path("/drivers/{id}", id), Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *Drivers) Delete(ctx context.Context, id int64) error {
	return d.r.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: gateway.Path("/drivers/{id}", id)}, nil)
}

func (d *Drivers) Schedule(ctx context.Context, id int64) ([]Shift, error) {
	var out []Shift
	if err := d.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: gateway.Path("/drivers/{id}/schedule", id)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
