// Package api is the HTTP client for the audit backend. It owns the
// session cookie, the wire types, and the error taxonomy: a 401 is the
// silent "no session" signal, a 403 is a visible authorization failure,
// and stream errors carry a machine-checkable reason code so callers
// never have to inspect error text.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"syscall"

	"sitecheck/config"
)

var (
	// ErrUnauthorized means the backend answered 401: there is no session.
	// Callers route to the login view, never to an error notification.
	ErrUnauthorized = errors.New("not authenticated")

	// ErrForbidden means the backend answered 403 and the user should see it.
	ErrForbidden = errors.New("forbidden")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}
	return nil
}

// StreamReason classifies how a streaming send failed.
type StreamReason int

const (
	// StreamRejected: the request never produced a usable stream
	// (transport failure or a non-200/201 status before any bytes).
	StreamRejected StreamReason = iota

	// StreamNoise: the connection tore down after a successful stream
	// already delivered bytes. Known false-positive class; callers drop it.
	StreamNoise

	// StreamAborted: the stream died mid-flight for a real reason.
	StreamAborted
)

// StreamError is a failure of the streaming send operation.
type StreamError struct {
	Reason StreamReason
	Status int
	Err    error
}

func (e *StreamError) Error() string {
	switch e.Reason {
	case StreamRejected:
		if e.Status != 0 {
			return fmt.Sprintf("send rejected: status %d", e.Status)
		}
		return fmt.Sprintf("send rejected: %v", e.Err)
	case StreamNoise:
		return fmt.Sprintf("stream noise: %v", e.Err)
	default:
		return fmt.Sprintf("stream aborted: %v", e.Err)
	}
}

func (e *StreamError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if e.Status == http.StatusForbidden {
		return ErrForbidden
	}
	return e.Err
}

// Client talks to the audit backend. Authentication is a session cookie
// kept in the client's jar, so every call after Login is authenticated
// the way the browser's withCredentials requests were.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8000/api"
	}

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		http:    &http.Client{Jar: jar},
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return c.doJSON(op, req, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.doJSON(op, req, out)
}

func (c *Client) deleteJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return c.doJSON(op, req, out)
}

func (c *Client) doJSON(op string, req *http.Request, out any) error {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[api] %s %s %s", op, req.Method, req.URL.Path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return newAPIError(op, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	return nil
}

func newAPIError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if config.DebugLog != nil {
		config.DebugLog.Printf("[api] %s failed: status %d", op, resp.StatusCode)
	}
	return &APIError{
		Op:     op,
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}

// classifyStreamErr decides whether a mid-stream transport error is the
// known benign class: the server finished the response but the keep-alive
// connection came down before the client saw a clean EOF. Only teardown
// errors after at least one delivered byte qualify.
func classifyStreamErr(err error, bytesReceived int) StreamReason {
	if bytesReceived == 0 {
		return StreamAborted
	}
	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return StreamNoise
	}
	return StreamAborted
}

// Healthz probes the backend health endpoint.
func (c *Client) Healthz(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "Health check", "/healthz", &status); err != nil {
		return err
	}
	if status.Status != "ok" {
		return fmt.Errorf("backend unhealthy: %s", status.Status)
	}
	return nil
}
