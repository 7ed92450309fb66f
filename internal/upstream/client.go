// Package upstream implements the HTTP client used to submit request
// documents to the flight-search endpoint.
//
// Design goals:
//
//   - Keep a tiny, explicit API (Execute).
//   - Respect context cancellation during requests and backoff waits.
//   - Be easy to test by injecting a custom RoundTripper and sleep function.
//
// Retry machinery is present but the pipeline runs with MaxRetries=0: each
// batch performs a single best-effort request, and a failed request is fatal
// to the run.
package upstream

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config configures the upstream client.
//
// Zero values are given sensible defaults:
//   - Timeout: 60s
//   - InitialBackoff: 200ms
//   - MaxBackoff: 5s
type Config struct {
	// Endpoint is the search API URL request documents are POSTed to.
	Endpoint string

	// Timeout is the per-request timeout applied at the http.Client level.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial request.
	// The pipeline leaves this at 0 (no retries).
	MaxRetries int

	// InitialBackoff is the base backoff for the first retry; doubled per
	// attempt up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// InsecureSkipVerify disables TLS certificate verification. Useful for
	// internal test endpoints only.
	InsecureSkipVerify bool

	// Transport is an optional custom RoundTripper, used by tests.
	Transport http.RoundTripper
}

// Client submits request documents to the search endpoint.
type Client struct {
	endpoint       string
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	// sleep is injectable to make tests fast and deterministic.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient constructs a Client from Config, applying defaults for zero values.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // explicitly configurable
			},
		}
	}

	return &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		sleep:          sleepWithContext,
	}
}

// Execute POSTs one request document (Content-Type text/xml) and returns the
// response body. The document is supplied as a byte slice so it can be
// re-sent when retries are configured. Non-2xx statuses are errors.
func (c *Client) Execute(ctx context.Context, document []byte) ([]byte, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("upstream: endpoint must not be empty")
	}

	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(document))
		if err != nil {
			return nil, fmt.Errorf("upstream: build request: %w", err)
		}
		req.Header.Set("Content-Type", "text/xml")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			switch {
			case resp.StatusCode >= 200 && resp.StatusCode < 300 && readErr == nil:
				return body, nil
			case readErr != nil:
				lastErr = fmt.Errorf("upstream: read response: %w", readErr)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("upstream: retryable status %d from %s", resp.StatusCode, c.endpoint)
			default:
				return nil, fmt.Errorf("upstream: status %d from %s", resp.StatusCode, c.endpoint)
			}
		}

		if attempt+1 >= attempts {
			return nil, lastErr
		}
		if err := c.sleep(ctx, backoffDuration(c.initialBackoff, attempt, c.maxBackoff)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// isRetryableStatus reports whether the given status should trigger a retry
// when retries are enabled: 5xx and 429 are transient, everything else final.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// backoffDuration returns the exponential backoff for the given 0-based
// retry index, clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	if attempt <= 0 {
		if initial > max {
			return max
		}
		return initial
	}
	d := initial << attempt
	if d > max {
		return max
	}
	return d
}

// sleepWithContext sleeps for d, aborting early if ctx is canceled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
