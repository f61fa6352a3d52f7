// Package api is the GitHub REST client: it builds authenticated
// requests, consults the TTL response cache before any network I/O,
// tracks the server's rate-limit budget, and maps HTTP failures onto a
// small set of typed errors.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/altin/gh-browse/internal/store"
)

const (
	defaultBaseURL = "https://api.github.com"
	acceptHeader   = "application/vnd.github+json"
	apiVersion     = "2022-11-28"

	// cachePrefix namespaces this client's entries in the shared store.
	cachePrefix = "api:"

	// DefaultTTL applies to cacheable responses unless an operation
	// chooses a shorter one.
	DefaultTTL = 5 * time.Minute
)

// RateLimit is the budget reported by the server on the last response
// that carried a complete set of rate-limit headers.
type RateLimit struct {
	Limit     int
	Remaining int
	Used      int
	Reset     int64 // unix seconds
}

// ResetTime returns the reset moment as a time.Time.
func (r RateLimit) ResetTime() time.Time {
	return time.Unix(r.Reset, 0)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	store      *store.Store
	cacheTTL   time.Duration

	mu   sync.RWMutex
	rate RateLimit
}

// NewClient returns a client persisting credentials and cached responses
// through st.
func NewClient(st *store.Store) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		store:      st,
		cacheTTL:   DefaultTTL,
	}
}

// SetCacheTTL overrides the default TTL for cacheable responses.
// Non-positive values are ignored.
func (c *Client) SetCacheTTL(d time.Duration) {
	if d > 0 {
		c.cacheTTL = d
	}
}

// SetBaseURL points the client at a different API host, e.g. a GitHub
// Enterprise instance or a test server.
func (c *Client) SetBaseURL(u string) {
	if u != "" {
		c.baseURL = u
	}
}

// RateLimit returns the most recent rate-limit snapshot.
func (c *Client) RateLimit() RateLimit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rate
}

// requestOptions tunes a single call through the request pipeline.
type requestOptions struct {
	headers map[string]string
	noCache bool
	ttl     time.Duration
}

// get runs the full pipeline for a GET endpoint: cache lookup, header
// construction, fetch, rate-limit capture, error mapping, cache write,
// JSON decode into result.
func (c *Client) get(path string, result any, opts requestOptions) error {
	key := cachePrefix + "GET " + path

	if !opts.noCache {
		// Storage faults are treated as a miss, never as a request
		// failure.
		if entry, err := c.store.GetCache(key); err == nil && entry != nil {
			if json.Unmarshal(entry.Data, result) == nil {
				return nil
			}
			// A payload that no longer decodes was written for an older
			// shape of the result type; drop it and refetch.
			_ = c.store.DeleteCache(key)
		}
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	for k, v := range opts.headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Authorization") == "" {
		// Anonymous requests are permitted; they just run under the
		// lower unauthenticated quota.
		if cred, err := c.store.GetAuth(); err == nil && cred != nil {
			req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.captureRateLimit(resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s: %w", path, err)
	}
	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decode response %s: %w", path, err)
		}
	}

	if !opts.noCache {
		ttl := opts.ttl
		if ttl <= 0 {
			ttl = c.cacheTTL
		}
		// Best effort; a full disk must not fail the request.
		_ = c.store.PutCache(store.Entry{
			Key:       key,
			Data:      body,
			ExpiresAt: time.Now().Add(ttl),
		})
	}
	return nil
}

// captureRateLimit replaces the snapshot when all four headers are
// present and well formed, and leaves it untouched otherwise.
func (c *Client) captureRateLimit(h http.Header) {
	rl, ok := parseRateLimit(h)
	if !ok {
		return
	}
	c.mu.Lock()
	c.rate = rl
	c.mu.Unlock()
}

func parseRateLimit(h http.Header) (RateLimit, bool) {
	var rl RateLimit
	var err error
	for _, f := range []struct {
		header string
		dst    *int
	}{
		{"X-Ratelimit-Limit", &rl.Limit},
		{"X-Ratelimit-Remaining", &rl.Remaining},
		{"X-Ratelimit-Used", &rl.Used},
	} {
		v := h.Get(f.header)
		if v == "" {
			return RateLimit{}, false
		}
		if *f.dst, err = strconv.Atoi(v); err != nil {
			return RateLimit{}, false
		}
	}
	v := h.Get("X-Ratelimit-Reset")
	if v == "" {
		return RateLimit{}, false
	}
	if rl.Reset, err = strconv.ParseInt(v, 10, 64); err != nil {
		return RateLimit{}, false
	}
	return rl, true
}

// errorFromResponse maps a non-2xx response to a typed error, tolerating
// empty or non-JSON bodies.
func errorFromResponse(resp *http.Response, path string) error {
	msg := http.StatusText(resp.StatusCode)
	var docURL string

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var parsed struct {
		Message          string `json:"message"`
		DocumentationURL string `json:"documentation_url"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
		msg = parsed.Message
		docURL = parsed.DocumentationURL
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &NotFoundError{Path: path}
	case http.StatusForbidden:
		return &RateLimitError{Message: msg}
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: msg, DocumentationURL: docURL}
	}
}
