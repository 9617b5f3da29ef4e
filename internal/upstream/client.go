// Package upstream talks to the inventory REST API the console administers.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultSessionCookie is the cookie the API uses to track a signed-in user.
	DefaultSessionCookie = "JSESSIONID"

	errorBodyLimit = 16 << 10
)

// Observer receives one sample per API call.
type Observer interface {
	ObserveUpstream(resource, method string, code int, elapsed time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	SessionCookie string
	HTTPClient    *http.Client
	Observer      Observer
}

// Client issues requests against the inventory API on behalf of a session
// carried in the request context.
type Client struct {
	baseURL    string
	cookieName string
	httpClient *http.Client
	observer   Observer
}

// NewClient constructs a Client. Redirects are never followed so that a
// bounce to the API login page surfaces as ErrUnauthorized.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	} else {
		clone := *httpClient
		httpClient = &clone
	}
	httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	cookieName := opts.SessionCookie
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		cookieName: cookieName,
		httpClient: httpClient,
		observer:   opts.Observer,
	}
}

// BaseURL returns the API root without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type sessionKey struct{}

// WithSession attaches the API session cookie value to ctx.
func WithSession(ctx context.Context, value string) context.Context {
	return context.WithValue(ctx, sessionKey{}, value)
}

// SessionFrom returns the API session cookie value stored in ctx.
func SessionFrom(ctx context.Context) string {
	value, _ := ctx.Value(sessionKey{}).(string)
	return value
}

// doJSON sends body (when non-nil) as JSON and decodes a JSON response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, label, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(req, label)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, method, path); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("upstream: read %s %s: %w", method, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("upstream: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("upstream: build %s %s: %w", method, path, err)
	}
	if session := SessionFrom(ctx); session != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: session})
	}
	return req, nil
}

func (c *Client) send(req *http.Request, label string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	if c.observer != nil {
		c.observer.ObserveUpstream(label, req.Method, code, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("upstream: %s %s: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, method, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(data)}
}
