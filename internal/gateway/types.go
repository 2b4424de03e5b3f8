package gateway

import (
	"net/http"
	"net/url"
	"time"

	"codeberg.org/fleetdesk/console/internal/notify"
	"codeberg.org/fleetdesk/console/internal/session"
)

// login route the console is sent to when the session expires
const LoginPath = "/login"

// fixed headers for every call
const (
	contentTypeJSON = "application/json"
	userAgent       = "fleetdesk-console"
)

// moves the user to another screen
type Navigator interface {
	Navigate(path string)
}

// adapts a plain function to Navigator
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// describes one API call. the path is already interpolated.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Headers http.Header
}

// a received HTTP response with its body fully read
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// transforms the outgoing request. middlewares never see the response.
type RequestMiddleware func(req *http.Request) error

// turns a received response (or a transport error) into the value the
// caller gets. exactly one of resp and err is non-nil.
type ResponseHandler func(req *Request, resp *Response, err error) ([]byte, error)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Session    *session.Session
	Notifier   notify.Notifier
	Navigator  Navigator
}

type Option func(*Client)

// appends request middlewares after the defaults
func WithRequestMiddleware(mw ...RequestMiddleware) Option {
	return func(c *Client) {
		c.requestMiddleware = append(c.requestMiddleware, mw...)
	}
}

// replaces the whole request pipeline, defaults included
func WithRequestPipeline(mw ...RequestMiddleware) Option {
	return func(c *Client) {
		c.requestMiddleware = append([]RequestMiddleware(nil), mw...)
	}
}

// replaces the default response handler
func WithResponseHandler(h ResponseHandler) Option {
	return func(c *Client) {
		c.responseHandler = h
	}
}

// marks errors that happened before the request left the client
type buildError struct {
	err error
}

func (e *buildError) Error() string { return e.err.Error() }
func (e *buildError) Unwrap() error { return e.err }
