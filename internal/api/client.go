// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Configuration constants for the backend client.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// uploadTimeoutFactor stretches the timeout for PDF uploads.
	uploadTimeoutFactor = 4

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	userAgent = "cortex-tui/1.0"
)

// Options configures a Client. BaseURL is required.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Jar carries the session cookie. Nil means cookies are not kept.
	Jar http.CookieJar
	// HTTPClient overrides the underlying client. Its Jar is replaced by Jar
	// when Jar is set.
	HTTPClient *http.Client
	// RequestsPerSecond caps outgoing requests. Zero means unlimited.
	RequestsPerSecond float64
	// Burst is how many requests may go out back to back. It defaults to
	// the rounded-up rate.
	Burst int
}

// Client talks to the CortexAI backend. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	upload  *http.Client
	limiter *rate.Limiter
}

// New creates a Client. It fails if the base URL is empty or not absolute.
func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		return nil, ErrMissingBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", opts.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: base URL %q must be absolute", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := &http.Client{}
	if opts.HTTPClient != nil {
		clone := *opts.HTTPClient
		hc = &clone
	}
	if opts.Jar != nil {
		hc.Jar = opts.Jar
	}
	hc.Timeout = timeout

	up := *hc
	up.Timeout = timeout * uploadTimeoutFactor

	c := &Client{baseURL: u, http: hc, upload: &up}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = int(opts.RequestsPerSecond + 0.999)
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c, nil
}

// BaseURL returns the backend root the client was configured with.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// endpoint resolves a path (which may contain escaped segments) against the base URL.
func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// logRequest logs an API request without exposing sensitive data.
// Bodies and headers are never logged; they carry passwords and cookies.
func logRequest(req *http.Request) {
	log.Printf("API Request: %s %s [%s]", req.Method, req.URL.Path, req.Header.Get("X-Request-ID"))
}

// logResponse logs an API response with duration.
func logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %s %s -> %d (%v)", req.Method, req.URL.Path, resp.StatusCode, duration)
}

// newRequest builds a request with the common headers set.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// doJSON sends an optional JSON body and decodes a JSON response into out.
// out may be nil when the caller does not need the body.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(c.http, req, out)
}

// do executes req, maps non-2xx responses to *Error and decodes the body.
func (c *Client) do(hc *http.Client, req *http.Request, out interface{}) error {
	if c.limiter != nil {
		// Wait fails early when the deadline is too close to get a token.
		if err := c.limiter.Wait(req.Context()); err != nil {
			if ctxErr := req.Context().Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("api: request throttled: %w", context.DeadlineExceeded)
		}
	}

	logRequest(req)
	start := time.Now()

	resp, err := hc.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	logResponse(req, resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// readResponse reads the response body with size limits to prevent memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// pathID escapes an identifier for use as a single path segment.
func pathID(id string) string {
	return url.PathEscape(id)
}
