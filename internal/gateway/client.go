// Package gateway is the single point of egress for calls to the fleet
// backend. Requests run through an explicit middleware pipeline and every
// response through one response handler.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/fleetdesk/console/internal/config"
)

type Client struct {
	baseURL           string
	httpClient        *http.Client
	requestMiddleware []RequestMiddleware
	responseHandler   ResponseHandler
}

// creates a gateway client. the default pipeline attaches the session token
// and a request ID; the default response handler is ErrorMapper.
func New(opts Options, extra ...Option) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = config.RequestTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(timeout)
	}

	mapper := &ErrorMapper{
		Session:   opts.Session,
		Notifier:  opts.Notifier,
		Navigator: opts.Navigator,
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		requestMiddleware: []RequestMiddleware{
			AuthMiddleware(opts.Session),
			RequestIDMiddleware(),
		},
		responseHandler: mapper.Handle,
	}

	for _, opt := range extra {
		opt(c)
	}

	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// returns the configured base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// sends the request and returns the response body exactly as received
func (c *Client) Send(ctx context.Context, req Request) (json.RawMessage, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return c.responseHandler(&req, nil, &buildError{err: err})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.responseHandler(&req, nil, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.responseHandler(&req, nil, fmt.Errorf("read response: %w", err))
	}

	return c.responseHandler(&req, &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil)
}

// sends the request and decodes the body into out when out is non-nil
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	body, err := c.Send(ctx, req)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
	}

	return nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// converts the Request into an *http.Request and runs the middleware pipeline
func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set("User-Agent", userAgent)

	for k, values := range req.Headers {
		httpReq.Header.Del(k)
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	for _, mw := range c.requestMiddleware {
		if err := mw(httpReq); err != nil {
			return nil, fmt.Errorf("request middleware: %w", err)
		}
	}

	return httpReq, nil
}

// fills {name} placeholders in order with the path-escaped params
func Path(template string, params ...any) string {
	var b strings.Builder
	b.Grow(len(template))

	next := 0
	for i := 0; i < len(template); i++ {
		if template[i] != '{' {
			b.WriteByte(template[i])
			continue
		}

		end := strings.IndexByte(template[i:], '}')
		if end < 0 || next >= len(params) {
			b.WriteString(template[i:])
			break
		}

		b.WriteString(url.PathEscape(fmt.Sprint(params[next])))
		next++
		i += end
	}

	return b.String()
}
