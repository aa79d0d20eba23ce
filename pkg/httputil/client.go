package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 10 * time.Second

// Client is a minimal JSON API client with retry semantics: network
// failures and 5xx responses are retried with exponential backoff, 4xx
// responses fail immediately.
type Client struct {
	base string
	http *http.Client

	// Attempts overrides the default of 3 when positive.
	Attempts int
}

// NewClient creates a client rooted at the given base URL.
// A zero timeout means DefaultTimeout.
func NewClient(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// GetJSON fetches base+path and unmarshals the response body into v.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	u, err := url.JoinPath(c.base, path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}

	attempts := c.Attempts
	if attempts <= 0 {
		attempts = 3
	}

	var body []byte
	err = Retry(ctx, attempts, 500*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return &RetryableError{Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return &RetryableError{Err: fmt.Errorf("GET %s: %s", u, resp.Status)}
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("GET %s: %s", u, resp.Status)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &RetryableError{Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}
