// SPDX-License-Identifier: MPL-2.0

// Package feed fetches remote JSON feed documents over HTTP.
//
// The client performs single-shot GET requests with no retry and no caching;
// callers wanting timeouts or retries wrap the call or supply their own
// http.Client.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxResponseBytes is the upper bound on feed response size (10 MB).
// Prevents unbounded memory consumption from malformed responses.
const maxResponseBytes = 10 << 20

type (
	// Client fetches JSON documents from feed URLs.
	Client struct {
		httpClient *http.Client
		userAgent  string
	}

	// Option configures a Client during construction.
	Option func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Client) {
		f.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Client) {
		f.userAgent = ua
	}
}

// NewClient creates a Client with sensible defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  "bundlectl/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON performs a GET request against url and decodes the JSON response
// body into v. Transport failures, non-2xx statuses, and decode failures are
// all returned as errors wrapping the feed URL.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", url, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing feed from %s: %w", url, err)
	}
	return nil
}
