package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apierrors "codeberg.org/fleetdesk/console/internal/errors"
	"codeberg.org/fleetdesk/console/internal/gateway"
	"codeberg.org/fleetdesk/console/internal/notify"
	"codeberg.org/fleetdesk/console/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// records every request and answers with a canned body
type fakeRequester struct {
	requests []gateway.Request
	body     string
	err      error
}

func (f *fakeRequester) Do(_ context.Context, req gateway.Request, out any) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	if out != nil && f.body != "" {
		return json.Unmarshal([]byte(f.body), out)
	}
	return nil
}

func (f *fakeRequester) last(t *testing.T) gateway.Request {
	t.Helper()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func TestFacadeRoutes(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		body   string
		call   func(a *API) error
		method string
		path   string
		query  string
	}{
		{"vehicles list", `[]`, func(a *API) error {
			_, err := a.Vehicles.List(ctx, VehicleFilter{Status: VehicleAvailable, Page: 2, PerPage: 25})
			return err
		}, http.MethodGet, "/vehicles", "page=2&per_page=25&status=available"},
		{"vehicles get", `{}`, func(a *API) error { _, err := a.Vehicles.GetByID(ctx, 42); return err }, http.MethodGet, "/vehicles/42", ""},
		{"vehicles create", `{}`, func(a *API) error { _, err := a.Vehicles.Create(ctx, VehicleInput{Plate: "KX-1"}); return err }, http.MethodPost, "/vehicles", ""},
		{"vehicles update", `{}`, func(a *API) error { _, err := a.Vehicles.Update(ctx, 3, VehicleInput{}); return err }, http.MethodPut, "/vehicles/3", ""},
		{"vehicles delete", ``, func(a *API) error { return a.Vehicles.Delete(ctx, 3) }, http.MethodDelete, "/vehicles/3", ""},
		{"vehicles history", `[]`, func(a *API) error { _, err := a.Vehicles.History(ctx, 9, from, to); return err }, http.MethodGet, "/vehicles/9/history", "from=2026-10-01T00%3A00%3A00Z&to=2026-10-02T00%3A00%3A00Z"},
		{"vehicles location", `{}`, func(a *API) error { _, err := a.Vehicles.Location(ctx, 9); return err }, http.MethodGet, "/vehicles/9/location", ""},
		{"trips list", `[]`, func(a *API) error { _, err := a.Trips.List(ctx, TripFilter{Status: TripPending, DriverID: 4}); return err }, http.MethodGet, "/trips", "driver_id=4&status=pending"},
		{"trips get", `{}`, func(a *API) error { _, err := a.Trips.GetByID(ctx, 11); return err }, http.MethodGet, "/trips/11", ""},
		{"trips create", `{}`, func(a *API) error { _, err := a.Trips.Create(ctx, TripInput{Origin: "A"}); return err }, http.MethodPost, "/trips", ""},
		{"trips update", `{}`, func(a *API) error { _, err := a.Trips.Update(ctx, 11, TripInput{}); return err }, http.MethodPut, "/trips/11", ""},
		{"trips assign", `{}`, func(a *API) error { _, err := a.Trips.Assign(ctx, 11, 3, 4); return err }, http.MethodPost, "/trips/11/assign", ""},
		{"trips cancel", `{}`, func(a *API) error { _, err := a.Trips.Cancel(ctx, 11, "weather"); return err }, http.MethodPost, "/trips/11/cancel", ""},
		{"drivers list", `[]`, func(a *API) error { _, err := a.Drivers.List(ctx, "on_duty"); return err }, http.MethodGet, "/drivers", "status=on_duty"},
		{"drivers get", `{}`, func(a *API) error { _, err := a.Drivers.GetByID(ctx, 4); return err }, http.MethodGet, "/drivers/4", ""},
		{"drivers create", `{}`, func(a *API) error { _, err := a.Drivers.Create(ctx, DriverInput{Name: "R"}); return err }, http.MethodPost, "/drivers", ""},
		{"drivers update", `{}`, func(a *API) error { _, err := a.Drivers.Update(ctx, 4, DriverInput{}); return err }, http.MethodPut, "/drivers/4", ""},
		{"drivers delete", ``, func(a *API) error { return a.Drivers.Delete(ctx, 4) }, http.MethodDelete, "/drivers/4", ""},
		{"drivers schedule", `[]`, func(a *API) error { _, err := a.Drivers.Schedule(ctx, 4); return err }, http.MethodGet, "/drivers/4/schedule", ""},
		{"analytics dashboard", `{}`, func(a *API) error { _, err := a.Analytics.Dashboard(ctx); return err }, http.MethodGet, "/analytics/dashboard", ""},
		{"analytics fleet", `{}`, func(a *API) error { _, err := a.Analytics.Fleet(ctx); return err }, http.MethodGet, "/analytics/fleet", ""},
		{"analytics trips", `{}`, func(a *API) error { _, err := a.Analytics.Trips(ctx, PeriodWeek); return err }, http.MethodGet, "/analytics/trips", "period=week"},
		{"analytics drivers", `[]`, func(a *API) error { _, err := a.Analytics.Drivers(ctx); return err }, http.MethodGet, "/analytics/drivers", ""},
		{"notifications list", `{}`, func(a *API) error { _, err := a.Notifications.List(ctx, true); return err }, http.MethodGet, "/notifications", "unread=true"},
		{"notifications read", ``, func(a *API) error { return a.Notifications.MarkRead(ctx, 5) }, http.MethodPut, "/notifications/5/read", ""},
		{"notifications read all", ``, func(a *API) error { return a.Notifications.MarkAllRead(ctx) }, http.MethodPut, "/notifications/read-all", ""},
		{"notifications delete", ``, func(a *API) error { return a.Notifications.Delete(ctx, 5) }, http.MethodDelete, "/notifications/5", ""},
		{"auth me", `{}`, func(a *API) error { _, err := a.Auth.Me(ctx); return err }, http.MethodGet, "/auth/me", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRequester{body: tt.body}
			a := New(fake, nil)

			require.NoError(t, tt.call(a))

			req := fake.last(t)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.query, req.Query.Encode())
		})
	}
}

func TestFacadeErrorsPropagateUnchanged(t *testing.T) {
	sentinel := &apierrors.APIError{Kind: apierrors.KindServer, Status: 500}
	a := New(&fakeRequester{err: sentinel}, nil)

	_, err := a.Trips.GetByID(context.Background(), 1)
	assert.Same(t, sentinel, err)

	err = a.Drivers.Delete(context.Background(), 1)
	assert.Same(t, sentinel, err)
}

func TestTripAssignBody(t *testing.T) {
	fake := &fakeRequester{body: `{"id":11,"status":"assigned","vehicle_id":3,"driver_id":4}`}
	trip, err := New(fake, nil).Trips.Assign(context.Background(), 11, 3, 4)
	require.NoError(t, err)

	assert.Equal(t, Assignment{VehicleID: 3, DriverID: 4}, fake.last(t).Body)
	assert.Equal(t, TripAssigned, trip.Status)
	require.NotNil(t, trip.VehicleID)
	assert.Equal(t, int64(3), *trip.VehicleID)
}

func TestLoginStoresToken(t *testing.T) {
	sess := session.New(session.NewMemoryStore())
	fake := &fakeRequester{body: `{"token":"jwt-value","user":{"id":1,"name":"Ops"}}`}

	resp, err := New(fake, sess).Auth.Login(context.Background(), Credentials{Email: "ops@fleetdesk.test", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "Ops", resp.User.Name)
	assert.Equal(t, "jwt-value", sess.Token())
	assert.Equal(t, "/auth/login", fake.last(t).Path)
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	sess := session.New(session.NewMemoryStore())
	fake := &fakeRequester{err: errors.New("bad credentials")}

	_, err := New(fake, sess).Auth.Login(context.Background(), Credentials{})
	assert.Error(t, err)
	assert.Equal(t, "", sess.Token())
}

func TestLogoutClearsEvenOnFailure(t *testing.T) {
	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.SetToken(context.Background(), "tok"))

	err := New(&fakeRequester{err: errors.New("offline")}, sess).Auth.Logout(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "", sess.Token())
}

func TestRefreshReplacesToken(t *testing.T) {
	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.SetToken(context.Background(), "old"))

	_, err := New(&fakeRequester{body: `{"token":"new"}`}, sess).Auth.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", sess.Token())
}

func TestGetByIDThroughGateway(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":42,"plate":"KX-4412","status":"available","capacity":12}`) //nolint:errcheck
	}))
	defer srv.Close()

	sess := session.New(session.NewMemoryStore())
	client := gateway.New(gateway.Options{BaseURL: srv.URL, Session: sess, Notifier: &notify.Recorder{}})

	v, err := New(client, sess).Vehicles.GetByID(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "/vehicles/42", path)
	assert.Equal(t, &Vehicle{ID: 42, Plate: "KX-4412", Status: VehicleAvailable, Capacity: 12}, v)
}
