// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
)

// maxErrorBodySize limits how much of an error response body is kept.
const maxErrorBodySize = 64 * 1024

// maxResponseSize bounds successful response bodies.
const maxResponseSize = 64 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	// Name labels logs and metrics (e.g. "embedding").
	Name string

	// BaseURL is the scheme and host of the remote service.
	BaseURL string

	// Timeout bounds a single HTTP exchange.
	Timeout time.Duration

	// RateLimit is the maximum requests per second. Zero disables limiting.
	RateLimit float64

	// Burst is the token bucket size. Defaults to 1 when limiting is on.
	Burst int
}

// Client is a rate-limited, circuit-broken JSON client. It is safe for
// concurrent use.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// New creates a client for cfg.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	return &Client{
		name:    cfg.Name,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		cb:      newBreaker(cfg.Name),
	}
}

// newBreaker opens after 5 consecutive failures, or a 60% failure rate
// over at least 10 requests, and probes again after 30 seconds.
func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 5 {
				return true
			}
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Caller mistakes and cancellations say nothing about remote health
			if errors.Is(err, context.Canceled) {
				return true
			}
			var se *StatusError
			return errors.As(err, &se) && se.StatusCode < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("collaborator", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	})
}

// Name returns the collaborator name.
func (c *Client) Name() string {
	return c.name
}

// State returns the circuit breaker state ("closed", "half-open", "open").
func (c *Client) State() string {
	return c.cb.State().String()
}

// PostJSON sends in as a JSON body to path and decodes the response into
// out. out may be nil to discard the body.
func (c *Client) PostJSON(ctx context.Context, path string, in, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordCollaboratorCall(c.name, time.Since(start), err)
	}()

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", c.name, err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s rate limit wait: %w", c.name, err)
		}
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.do(ctx, path, payload)
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.name, path, err)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
