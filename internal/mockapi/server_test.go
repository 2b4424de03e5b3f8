package mockapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codeberg.org/fleetdesk/console/internal/api"
	"codeberg.org/fleetdesk/console/internal/errors"
	"codeberg.org/fleetdesk/console/internal/gateway"
	"codeberg.org/fleetdesk/console/internal/notify"
	"codeberg.org/fleetdesk/console/internal/realtime"
	"codeberg.org/fleetdesk/console/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type console struct {
	srv       *Server
	http      *httptest.Server
	session   *session.Session
	notes     *notify.Recorder
	navigated []string
	api       *api.API
}

// starts a mock backend and a console API wired to it through the gateway
func newConsole(t *testing.T, opts Options) *console {
	t.Helper()

	if opts.JWTSecret == "" {
		opts.JWTSecret = testSecret
	}

	srv := New(opts)
	srv.Start(context.Background())
	t.Cleanup(srv.Shutdown)

	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	c := &console{
		srv:     srv,
		http:    hs,
		session: session.New(session.NewMemoryStore()),
		notes:   &notify.Recorder{},
	}

	client := gateway.New(gateway.Options{
		BaseURL:   hs.URL + "/api",
		Session:   c.session,
		Notifier:  c.notes,
		Navigator: gateway.NavigatorFunc(func(p string) { c.navigated = append(c.navigated, p) }),
	})
	c.api = api.New(client, c.session)

	return c
}

func (c *console) lastNote(t *testing.T) string {
	t.Helper()

	toast, ok := c.notes.Last()
	require.True(t, ok, "expected a notification")
	return toast.Message
}

func (c *console) login(t *testing.T) {
	t.Helper()

	_, err := c.api.Auth.Login(context.Background(), api.Credentials{Email: "dispatcher@fleetdesk.dev", Password: "dispatch"})
	require.NoError(t, err)
}

func TestLoginStoresToken(t *testing.T) {
	c := newConsole(t, Options{})

	resp, err := c.api.Auth.Login(context.Background(), api.Credentials{Email: "dispatcher@fleetdesk.dev", Password: "dispatch"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, resp.Token, c.session.Token())
	assert.Equal(t, "dispatcher", resp.User.Role)

	claims, err := c.srv.Issuer().Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "dispatcher@fleetdesk.dev", claims.Email)

	me, err := c.api.Auth.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), me.ID)
}

func TestLoginBadCredentialsIsValidationError(t *testing.T) {
	c := newConsole(t, Options{})

	_, err := c.api.Auth.Login(context.Background(), api.Credentials{Email: "dispatcher@fleetdesk.dev", Password: "nope"})

	var verr *errors.ValidationError
	require.True(t, stderrors.As(err, &verr))
	assert.Equal(t, []string{"These credentials do not match our records."}, verr.Field("email"))
	assert.Equal(t, "These credentials do not match our records.", c.lastNote(t))
	assert.Empty(t, c.session.Token())
}

func TestUnauthenticatedRequestClearsSessionAndNavigates(t *testing.T) {
	c := newConsole(t, Options{})
	require.NoError(t, c.session.SetToken(context.Background(), "garbage"))

	_, err := c.api.Vehicles.List(context.Background(), api.VehicleFilter{})

	var apiErr *errors.APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, errors.KindAuth, apiErr.Kind)
	assert.Empty(t, c.session.Token())
	assert.Equal(t, []string{gateway.LoginPath}, c.navigated)
	assert.Equal(t, errors.MsgSessionExpired, c.lastNote(t))
}

func TestVehicleGetByIDEndToEnd(t *testing.T) {
	c := newConsole(t, Options{})
	c.login(t)

	v, err := c.api.Vehicles.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "FD-102-V", v.Plate)

	_, err = c.api.Vehicles.GetByID(context.Background(), 404)

	var apiErr *errors.APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, errors.MsgNotFound, c.lastNote(t))
}

func TestVehicleCRUD(t *testing.T) {
	c := newConsole(t, Options{})
	c.login(t)
	ctx := context.Background()

	_, err := c.api.Vehicles.Create(ctx, api.VehicleInput{Plate: "", Model: "Iveco Daily"})
	var verr *errors.ValidationError
	require.True(t, stderrors.As(err, &verr))
	assert.NotEmpty(t, verr.Field("plate"))
	assert.NotEmpty(t, verr.Field("capacity"))

	created, err := c.api.Vehicles.Create(ctx, api.VehicleInput{Plate: "FD-301-V", Model: "Iveco Daily", Type: "van", Capacity: 10})
	require.NoError(t, err)
	assert.Equal(t, api.VehicleAvailable, created.Status)

	updated, err := c.api.Vehicles.Update(ctx, created.ID, api.VehicleInput{Plate: "FD-301-V", Model: "Iveco Daily", Type: "van", Capacity: 12, Status: api.VehicleMaintenance})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Capacity)
	assert.Equal(t, api.VehicleMaintenance, updated.Status)

	require.NoError(t, c.api.Vehicles.Delete(ctx, created.ID))

	_, err = c.api.Vehicles.GetByID(ctx, created.ID)
	assert.Error(t, err)
}

func TestVehicleHistoryAndLocation(t *testing.T) {
	c := newConsole(t, Options{})
	c.login(t)
	ctx := context.Background()

	points, err := c.api.Vehicles.History(ctx, 1, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.NotEmpty(t, points)

	loc, err := c.api.Vehicles.Location(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 52.37, loc.Lat, 0.01)

	_, err = c.api.Vehicles.Location(ctx, 3)
	assert.Error(t, err, "vehicle 3 has no position")
}

func TestTripAssignAndCancel(t *testing.T) {
	c := newConsole(t, Options{})
	c.login(t)
	ctx := context.Background()

	_, err := c.api.Trips.Assign(ctx, 2, 999, 2)
	var verr *errors.ValidationError
	require.True(t, stderrors.As(err, &verr))
	assert.NotEmpty(t, verr.Field("vehicle_id"))

	trip, err := c.api.Trips.Assign(ctx, 2, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, api.TripAssigned, trip.Status)

	pending, err := c.api.Trips.List(ctx, api.TripFilter{Status: api.TripPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	cancelled, err := c.api.Trips.Cancel(ctx, 2, "no longer needed")
	require.NoError(t, err)
	assert.Equal(t, api.TripCancelled, cancelled.Status)

	_, err = c.api.Trips.Cancel(ctx, 2, "again")
	var apiErr *errors.APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, errors.KindClient, apiErr.Kind)
	assert.Equal(t, "trip cannot change to the requested state", c.lastNote(t))
}

func TestDriversAnalyticsNotifications(t *testing.T) {
	c := newConsole(t, Options{})
	c.login(t)
	ctx := context.Background()

	drivers, err := c.api.Drivers.List(ctx, "available")
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Priya Shah", drivers[0].Name)

	shifts, err := c.api.Drivers.Schedule(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, shifts, 1)

	dash, err := c.api.Analytics.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, dash.TotalVehicles)

	stats, err := c.api.Analytics.Trips(ctx, api.PeriodDay)
	require.NoError(t, err)
	assert.Len(t, stats.Series, 1)

	list, err := c.api.Notifications.List(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, list.UnreadCount)

	require.NoError(t, c.api.Notifications.MarkAllRead(ctx))

	list, err = c.api.Notifications.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list.Notifications)
}

func TestRateLimit(t *testing.T) {
	srv := New(Options{JWTSecret: testSecret, RateLimit: 2, RatePeriod: time.Minute})

	var last *httptest.ResponseRecorder
	for range 3 {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		srv.Handler().ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)

	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.Equal(t, errors.CodeTooManyRequests, body.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := New(Options{JWTSecret: testSecret})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fleetdesk_mockapi_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRealtimePushesTripUpdates(t *testing.T) {
	c := newConsole(t, Options{})
	c.login(t)

	wsURL := "ws" + strings.TrimPrefix(c.http.URL, "http") + "/api/ws"
	ch := realtime.NewWSChannel(wsURL, c.session)

	updates := make(chan api.Trip, 4)
	ch.On(realtime.EventTripUpdated, func(p json.RawMessage) {
		var trip api.Trip
		if err := json.Unmarshal(p, &trip); err == nil {
			updates <- trip
		}
	})

	require.NoError(t, ch.Connect(context.Background()))
	t.Cleanup(func() { _ = ch.Disconnect() })

	require.Eventually(t, func() bool { return c.srv.Hub().ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_, err := c.api.Trips.Assign(context.Background(), 3, 4, 2)
	require.NoError(t, err)

	select {
	case trip := <-updates:
		assert.Equal(t, int64(3), trip.ID)
		assert.Equal(t, api.TripAssigned, trip.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("trip update not pushed")
	}
}

func TestRealtimeRequiresToken(t *testing.T) {
	c := newConsole(t, Options{})

	wsURL := "ws" + strings.TrimPrefix(c.http.URL, "http") + "/api/ws"
	ch := realtime.NewWSChannel(wsURL, c.session)

	assert.Error(t, ch.Connect(context.Background()))
}
