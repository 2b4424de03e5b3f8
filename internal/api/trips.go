package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"codeberg.org/fleetdesk/console/internal/gateway"
)

type Trips struct {
	r Requester
}

func (t *Trips) List(ctx context.Context, f TripFilter) ([]Trip, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.VehicleID > 0 {
		q.Set("vehicle_id", strconv.FormatInt(f.VehicleID, 10))
	}
	if f.DriverID > 0 {
		q.Set("driver_id", strconv.FormatInt(f.DriverID, 10))
	}
	pageQuery(q, f.Page, f.PerPage)

	var out []Trip
	if err := t.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/trips", Query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Trips) GetByID(ctx context.Context, id int64) (*Trip, error) {
	var out Trip
	if err := t.r.Do(ctx, gateway.Request{Method: http.MethodGet, Path: gateway.Path("/trips/{id}", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Trips) Create(ctx context.Context, in TripInput) (*Trip, error) {
	var out Trip
	if err := t.r.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/trips", Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Trips) Update(ctx context.Context, id int64, in TripInput) (*Trip, error) {
	var out Trip
	if err := t.r.Do(ctx, gateway.Request{Method: http.MethodPut, Path: gateway.Path("/trips/{id}", id), Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Trips) Assign(ctx context.Context, id, vehicleID, driverID int64) (*Trip, error) {
	var out Trip
	body := Assignment{VehicleID: vehicleID, DriverID: driverID}
	if err := t.r.Do(ctx, gateway.Request{Method: http.MethodPost, Path: gateway.Path("/trips/{id}/assign", id), Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *Trips) Cancel(ctx context.Context, id int64, reason string) (*Trip, error) {
	var out Trip
	body := map[string]string{"reason": reason}
	if err := t.r.Do(ctx, gateway.Request{Method: http.MethodPost, Path: gateway.Path("/trips/{id}/cancel", id), Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
