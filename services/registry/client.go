// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Terraform registry.
	DefaultBaseURL = "https://registry.terraform.io"

	// DefaultRequestTimeout bounds a single registry call. There are no
	// retries; a call gets exactly one attempt.
	DefaultRequestTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a registry response is read.
	maxResponseBytes = 1 << 20

	userAgent = "TerraDraft/1.0"
)

// HTTPClient is the subset of http.Client the registry client needs.
// Tests inject a mock implementation.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client answers "what is the latest version of this module" with a
// single network attempt. Implementations must return one of the typed
// errors from errors.go on failure and must never fabricate a version.
type Client interface {
	ModuleVersion(ctx context.Context, src ModuleSource) (string, error)
}

// APIClient is the production Client backed by the Terraform registry
// HTTP API (GET /v1/modules/{namespace}/{name}/{provider}).
type APIClient struct {
	baseURL string
	http    HTTPClient
	limiter *rate.Limiter
	timeout time.Duration
	log     *logging.Logger
}

// ClientOption customizes an APIClient.
type ClientOption func(*APIClient)

// WithBaseURL points the client at a different registry endpoint,
// typically an httptest server in tests or a private mirror.
func WithBaseURL(url string) ClientOption {
	return func(c *APIClient) { c.baseURL = url }
}

// WithHTTPClient injects the HTTP transport.
func WithHTTPClient(hc HTTPClient) ClientOption {
	return func(c *APIClient) { c.http = hc }
}

// WithRequestTimeout overrides the per-call deadline.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *APIClient) { c.timeout = d }
}

// WithRateLimit throttles outbound registry calls to r requests/sec
// with the given burst.
func WithRateLimit(r rate.Limit, burst int) ClientOption {
	return func(c *APIClient) { c.limiter = rate.NewLimiter(r, burst) }
}

// WithClientLogger sets the logger.
func WithClientLogger(log *logging.Logger) ClientOption {
	return func(c *APIClient) { c.log = log }
}

// NewAPIClient builds an APIClient against the public registry with a
// 10s per-call timeout and a polite default rate limit.
func NewAPIClient(opts ...ClientOption) *APIClient {
	c := &APIClient{
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(20), 20),
		timeout: DefaultRequestTimeout,
		log:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// moduleResponse is the slice of the registry payload we consume.
type moduleResponse struct {
	Version string `json:"version"`
}

// ModuleVersion fetches the latest published version of src.
//
// Exactly one HTTP attempt is made per call; retry policy belongs to
// the caller (the Cache deliberately has none). Failures are typed:
// ErrNotFound for 404, TimeoutError for deadline overruns,
// TransportError for network and 5xx failures, MalformedResponseError
// for everything the client cannot interpret.
func (c *APIClient) ModuleVersion(ctx context.Context, src ModuleSource) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", c.classify(src, err)
	}

	url := fmt.Sprintf("%s/v1/modules/%s/%s/%s", c.baseURL, src.Namespace, src.Name, src.Provider)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{Source: src.String(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", c.classify(src, err)
	}
	defer resp.Body.Close()

	c.log.Debug("registry response",
		"source", src.String(),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%s: %w", src, ErrNotFound)
	case resp.StatusCode >= 500:
		return "", &TransportError{
			Source: src.String(),
			Err:    fmt.Errorf("registry returned status %d", resp.StatusCode),
		}
	case resp.StatusCode != http.StatusOK:
		return "", &MalformedResponseError{
			Source: src.String(),
			Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	var payload moduleResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return "", &MalformedResponseError{Source: src.String(), Reason: "invalid JSON: " + err.Error()}
	}
	if payload.Version == "" {
		return "", &MalformedResponseError{Source: src.String(), Reason: "response missing version field"}
	}
	return payload.Version, nil
}

// classify maps low-level transport failures onto the typed errors.
func (c *APIClient) classify(src ModuleSource, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Source: src.String(), Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Source: src.String(), Err: err}
	}
	return &TransportError{Source: src.String(), Err: err}
}

var _ Client = (*APIClient)(nil)
