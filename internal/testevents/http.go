package testevents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/versus/internal/domain/types"
)

// ErrRateLimited is returned when the service answered 429.
var ErrRateLimited = errors.New("rate limited")

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// HTTPClient talks to the versus JSON API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a new HTTP client with timeout
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Health checks GET /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, http.StatusOK)
}

// Facets fetches the filter options.
func (c *HTTPClient) Facets(ctx context.Context) (types.Facets, error) {
	var f types.Facets
	err := c.do(ctx, http.MethodGet, "/facets", nil, &f, http.StatusOK)
	return f, err
}

// Vehicles fetches the unfiltered ranking.
func (c *HTTPClient) Vehicles(ctx context.Context) ([]types.VehicleEntry, error) {
	var resp struct {
		Vehicles []types.VehicleEntry `json:"vehicles"`
	}
	err := c.do(ctx, http.MethodGet, "/vehicles", nil, &resp, http.StatusOK)
	return resp.Vehicles, err
}

// CreateSession opens a session.
func (c *HTTPClient) CreateSession(ctx context.Context) (types.SessionView, error) {
	var v types.SessionView
	err := c.do(ctx, http.MethodPost, "/sessions", nil, &v, http.StatusCreated)
	return v, err
}

// Session reads the current view.
func (c *HTTPClient) Session(ctx context.Context, id string) (types.SessionView, error) {
	var v types.SessionView
	err := c.do(ctx, http.MethodGet, sessionPath(id), nil, &v, http.StatusOK)
	return v, err
}

// Submit posts one event.
func (c *HTTPClient) Submit(ctx context.Context, id string, ev types.EventRequest) (types.EventResponse, error) {
	var resp types.EventResponse
	err := c.do(ctx, http.MethodPost, sessionPath(id)+"/events", ev, &resp, http.StatusOK)
	return resp, err
}

// CloseSession deletes the session.
func (c *HTTPClient) CloseSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(id), nil, nil, http.StatusNoContent)
}

func sessionPath(id string) string {
	return "/sessions/" + url.PathEscape(id)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, want int) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s %s: %w", method, path, ErrRateLimited)
	case resp.StatusCode != want:
		return &StatusError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}
