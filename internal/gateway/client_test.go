package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	apierrors "codeberg.org/fleetdesk/console/internal/errors"
	"codeberg.org/fleetdesk/console/internal/notify"
	"codeberg.org/fleetdesk/console/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	client    *Client
	session   *session.Session
	notes     *notify.Recorder
	navigated []string
}

func newHarness(t *testing.T, handler http.HandlerFunc, extra ...Option) *harness {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	h := &harness{
		session: session.New(session.NewMemoryStore()),
		notes:   &notify.Recorder{},
	}

	h.client = New(Options{
		BaseURL:   srv.URL + "/api/",
		Session:   h.session,
		Notifier:  h.notes,
		Navigator: NavigatorFunc(func(path string) { h.navigated = append(h.navigated, path) }),
	}, extra...)

	return h
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body) //nolint:errcheck
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var got []string
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		respond(http.StatusOK, `{}`)(w, r)
	})

	_, err := h.client.Send(context.Background(), Request{Method: http.MethodGet, Path: "/vehicles"})
	require.NoError(t, err)

	require.NoError(t, h.session.SetToken(context.Background(), "abc"))
	_, err = h.client.Send(context.Background(), Request{Method: http.MethodGet, Path: "/vehicles"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "", got[0])
	assert.Equal(t, "Bearer abc", got[1])
}

func TestSuccessReturnsBodyExactly(t *testing.T) {
	body := `{"id":42,"plate":"KX-4412","status":"active"}`
	h := newHarness(t, respond(http.StatusOK, body))

	raw, err := h.client.Send(context.Background(), Request{Method: http.MethodGet, Path: "/vehicles/42"})
	require.NoError(t, err)
	assert.Equal(t, body, string(raw))
	assert.Equal(t, 0, h.notes.Len())
}

func TestRequestShape(t *testing.T) {
	var captured *http.Request
	var payload map[string]any

	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		json.NewDecoder(r.Body).Decode(&payload) //nolint:errcheck
		respond(http.StatusCreated, `{"id":7}`)(w, r)
	})

	var out struct {
		ID int `json:"id"`
	}

	err := h.client.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    "/trips",
		Query:   url.Values{"notify": {"true"}},
		Body:    map[string]string{"origin": "Depot A"},
		Headers: http.Header{"X-Request-ID": {"fixed-id"}},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, 7, out.ID)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/api/trips", captured.URL.Path)
	assert.Equal(t, "true", captured.URL.Query().Get("notify"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, "fixed-id", captured.Header.Get("X-Request-ID"))
	assert.Equal(t, "Depot A", payload["origin"])
}

func TestRequestIDGenerated(t *testing.T) {
	var id string
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		id = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, h.client.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/vehicles/1"}, &struct{}{}))
	assert.Len(t, id, 36)
}

func TestUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	h := newHarness(t, respond(http.StatusUnauthorized, `{"error":"unauthorized","message":"token expired"}`))
	require.NoError(t, h.session.SetToken(context.Background(), "stale"))

	_, err := h.client.Send(context.Background(), Request{Method: http.MethodGet, Path: "/auth/me"})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindAuth, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	assert.Equal(t, "", h.session.Token())
	assert.Equal(t, []string{LoginPath}, h.navigated)

	last, ok := h.notes.Last()
	require.True(t, ok)
	assert.Equal(t, apierrors.MsgSessionExpired, last.Message)
	assert.Equal(t, notify.LevelError, last.Level)
}

func TestValidationRejectsWithBody(t *testing.T) {
	body := `{"message":"The plate field is required.","errors":{"plate":["The plate field is required."]}}`
	h := newHarness(t, respond(http.StatusUnprocessableEntity, body))

	_, err := h.client.Send(context.Background(), Request{Method: http.MethodPost, Path: "/vehicles", Body: map[string]string{}})

	var ve *apierrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.JSONEq(t, body, string(ve.Raw))
	assert.Equal(t, []string{"The plate field is required."}, ve.Field("plate"))

	var apiErr *apierrors.APIError
	assert.False(t, errors.As(err, &apiErr), "validation failures are not wrapped in APIError")

	require.Equal(t, 1, h.notes.Len())
	last, _ := h.notes.Last()
	assert.Equal(t, "The plate field is required.", last.Message)
	assert.Empty(t, h.navigated)
}

func TestValidationWithoutMessageFallsBack(t *testing.T) {
	h := newHarness(t, respond(http.StatusUnprocessableEntity, `{"errors":{"seats":["too many"]}}`))

	_, err := h.client.Send(context.Background(), Request{Method: http.MethodPost, Path: "/vehicles"})

	var ve *apierrors.ValidationError
	require.ErrorAs(t, err, &ve)

	last, _ := h.notes.Last()
	assert.Equal(t, apierrors.MsgValidationFailed, last.Message)
}

func TestFailureTable(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    apierrors.Kind
		message string
	}{
		{"forbidden", http.StatusForbidden, `{"message":"ignored"}`, apierrors.KindForbidden, apierrors.MsgForbidden},
		{"not found", http.StatusNotFound, `{}`, apierrors.KindNotFound, apierrors.MsgNotFound},
		{"server error", http.StatusInternalServerError, `{"message":"db down"}`, apierrors.KindServer, apierrors.MsgServerError},
		{"bad gateway", http.StatusBadGateway, `<html>`, apierrors.KindServer, apierrors.MsgServerError},
		{"other with message", http.StatusConflict, `{"error":"conflict","message":"trip already assigned"}`, apierrors.KindClient, "trip already assigned"},
		{"message beside field map", http.StatusBadRequest, `{"message":"Bad input","errors":{"name":"required"}}`, apierrors.KindClient, "Bad input"},
		{"message beside error object", http.StatusBadRequest, `{"error":{"code":"bad"},"message":"Bad input"}`, apierrors.KindClient, "Bad input"},
		{"message beside details object", http.StatusBadRequest, `{"message":"Bad input","details":{"x":1}}`, apierrors.KindClient, "Bad input"},
		{"other without message", http.StatusTeapot, ``, apierrors.KindClient, "Request failed (status 418)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, respond(tt.status, tt.body))
			require.NoError(t, h.session.SetToken(context.Background(), "keep-me"))

			_, err := h.client.Send(context.Background(), Request{Method: http.MethodGet, Path: "/trips"})

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.body, string(apiErr.Body))

			last, ok := h.notes.Last()
			require.True(t, ok)
			assert.Equal(t, tt.message, last.Message)

			assert.Equal(t, "keep-me", h.session.Token())
			assert.Empty(t, h.navigated)
		})
	}
}

func TestNoResponse(t *testing.T) {
	srv := httptest.NewServer(respond(http.StatusOK, `{}`))
	base := srv.URL
	srv.Close()

	notes := &notify.Recorder{}
	client := New(Options{BaseURL: base, Notifier: notes, Timeout: 2 * time.Second})

	_, err := client.Send(context.Background(), Request{Method: http.MethodGet, Path: "/vehicles"})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindNetwork, apiErr.Kind)
	assert.Equal(t, 0, apiErr.Status)
	assert.NotNil(t, apiErr.Err)

	last, _ := notes.Last()
	assert.Equal(t, apierrors.MsgNoResponse, last.Message)
}

func TestTimeoutIsNoResponse(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.client.Send(ctx, Request{Method: http.MethodGet, Path: "/analytics/dashboard"})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindNetwork, apiErr.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUnencodableBodyIsRequestError(t *testing.T) {
	called := false
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := h.client.Send(context.Background(), Request{Method: http.MethodPost, Path: "/trips", Body: make(chan int)})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindRequest, apiErr.Kind)
	assert.False(t, called)
	assert.Equal(t, 1, h.notes.Len())
}

func TestCustomPipeline(t *testing.T) {
	var header string
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("X-Desk")
		respond(http.StatusOK, `{}`)(w, r)
	}, WithRequestMiddleware(func(req *http.Request) error {
		req.Header.Set("X-Desk", "north")
		return nil
	}))

	_, err := h.client.Send(context.Background(), Request{Path: "/drivers"})
	require.NoError(t, err)
	assert.Equal(t, "north", header)
}

func TestMiddlewareErrorAbortsRequest(t *testing.T) {
	called := false
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) { called = true },
		WithRequestPipeline(func(req *http.Request) error { return errors.New("desk locked") }))

	_, err := h.client.Send(context.Background(), Request{Path: "/drivers"})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindRequest, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "desk locked")
	assert.False(t, called)
}

func TestCustomResponseHandler(t *testing.T) {
	h := newHarness(t, respond(http.StatusInternalServerError, `{"message":"boom"}`),
		WithResponseHandler(func(req *Request, resp *Response, err error) ([]byte, error) {
			return []byte(`"handled"`), nil
		}))

	var out string
	require.NoError(t, h.client.Do(context.Background(), Request{Path: "/vehicles"}, &out))
	assert.Equal(t, "handled", out)
	assert.Equal(t, 0, h.notes.Len())
}

func TestDecodeFailure(t *testing.T) {
	h := newHarness(t, respond(http.StatusOK, `[1,2,3]`))

	var out struct{ ID int }
	err := h.client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/vehicles/1"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode GET /vehicles/1")
}

func TestBaseURLTrimmed(t *testing.T) {
	c := New(Options{BaseURL: "http://localhost:8000/api/"})
	assert.Equal(t, "http://localhost:8000/api", c.BaseURL())
}

func TestPath(t *testing.T) {
	tests := []struct {
		template string
		params   []any
		want     string
	}{
		{"/vehicles/{id}", []any{42}, "/vehicles/42"},
		{"/vehicles/{id}/history", []any{"v-7"}, "/vehicles/v-7/history"},
		{"/trips/{id}/assign", []any{"a b"}, "/trips/a%20b/assign"},
		{"/notifications/read-all", nil, "/notifications/read-all"},
		{"/drivers/{id}/schedule", nil, "/drivers/{id}/schedule"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Path(tt.template, tt.params...))
		})
	}
}
