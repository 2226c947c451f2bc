package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultBaseURL matches the mock server's default listen address.
const DefaultBaseURL = "http://localhost:3000/api"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError carries a non-2xx response; errors.Is matches it against the
// ErrNotFound / ErrUnauthorized sentinels by status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// Client is the shared HTTP core every resource client goes through: it
// injects the session's bearer token into each request and tears the
// session down on the first 401 it sees.
type Client struct {
	baseURL        string
	http           *http.Client
	session        *Session
	onUnauthorized func()
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUnauthorizedHook registers the callback fired after a 401 cleared
// the session (the dashboard used it to force navigation to the login
// view).
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) { c.onUnauthorized = hook }
}

// New builds a client. An empty baseURL falls back to the
// VIDEOADMIN_API_URL environment variable and then the default.
func New(baseURL string, session *Session, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("VIDEOADMIN_API_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	raw, err := c.doRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Message = payload.Error
	}
	// Tear down only a session that still holds credentials, so repeated
	// 401s after the teardown do not fire the hook again.
	if resp.StatusCode == http.StatusUnauthorized && c.session.Token() != "" {
		_ = c.session.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}
	return nil, apiErr
}
