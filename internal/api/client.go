// Package api is the REST client for the AgentForge backend. It covers the
// tool endpoints the wizard submits to, the security directory lookups the
// access panel searches over, and login.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agentforge/internal/logging"
)

const (
	// DefaultTimeout bounds ordinary requests.
	DefaultTimeout = 60 * time.Second

	// ToolWriteTimeout bounds tool create/update only; source submissions
	// (uploads, crawls) may legitimately run longer.
	ToolWriteTimeout = 30 * time.Second
)

// TokenSource supplies the current bearer token. An empty string means the
// request goes out anonymous; the backend decides what anonymous may do.
type TokenSource func() string

// Client talks to one AgentForge server.
type Client struct {
	baseURL    string
	token      TokenSource
	httpClient *http.Client
}

// New creates a client for the given server. token may be nil.
func New(baseURL string, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// prepare sets the shared headers on an outgoing request. A missing token is
// tolerated rather than blocked client-side.
func (c *Client) prepare(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "forge-cli/1.0")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out (which may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.prepare(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("%s %s failed: %v", method, path, err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	logging.APIDebug("%s %s -> %d in %v", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serverError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// serverError extracts the backend's error message. The backend is not
// consistent about the field name, so detail, message and error are tried in
// that order before falling back to a generic message.
func serverError(status int, body []byte) error {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, msg := range []string{payload.Detail, payload.Message, payload.Err} {
			if msg != "" {
				return fmt.Errorf("server rejected request (%d): %s", status, msg)
			}
		}
	}
	return fmt.Errorf("request failed with status %d", status)
}

// decodeList tolerates both response shapes the directory endpoints produce:
// a bare JSON array or an {"items": [...]} wrapper.
func decodeList[T any](data []byte) ([]T, error) {
	var bare []T
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}
	var wrapped struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse list response: %w", err)
	}
	return wrapped.Items, nil
}

// getList fetches a path and decodes a tolerant list response.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.prepare(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("GET %s failed: %v", path, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp.StatusCode, data)
	}
	return decodeList[T](data)
}
