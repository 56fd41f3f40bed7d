// Package puckpedia collects injury reports from PuckPedia.
package puckpedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	// BaseURL for PuckPedia
	BaseURL = "https://puckpedia.com"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval to prevent rate limiting
	MinRequestInterval = 2 * time.Second

	maxBodyBytes = 4 << 20
)

// StatusError is returned when PuckPedia answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("puckpedia %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client handles PuckPedia requests with rate limiting.
type Client struct {
	baseURL    string
	httpClient *http.Client
	clock      clockwork.Clock
	log        zerolog.Logger

	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMinInterval sets the minimum spacing between requests.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) {
		c.interval = d
	}
}

// WithClock sets the clock used for rate limiting.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// New creates a PuckPedia client. An empty baseURL selects BaseURL.
func New(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		clock:      clockwork.NewRealClock(),
		log:        log.With().Str("component", "puckpedia").Logger(),
		interval:   MinRequestInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchJSON fetches a JSON document.
func (c *Client) FetchJSON(ctx context.Context, path string) ([]byte, error) {
	return c.get(ctx, path, map[string]string{
		"Accept":  "application/json",
		"Referer": c.baseURL + "/",
	})
}

// FetchPage fetches an HTML page with browser-like headers.
func (c *Client) FetchPage(ctx context.Context, path string) (string, error) {
	body, err := c.get(ctx, path, map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         c.baseURL + "/",
		"Sec-Fetch-Dest":  "document",
		"Sec-Fetch-Mode":  "navigate",
		"Sec-Fetch-Site":  "same-origin",
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, path string, headers map[string]string) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.log.Debug().Str("url", url).Msg("fetching")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url, Body: string(body[:min(len(body), 200)])}
	}
	return body, nil
}

// wait reserves the next request slot and blocks until it arrives.
func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	now := c.clock.Now()
	slot := now
	if c.next.After(now) {
		slot = c.next
	}
	c.next = slot.Add(c.interval)
	c.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return nil
	}

	c.log.Debug().Dur("wait", delay).Msg("rate limiting")
	select {
	case <-ctx.Done():
		c.release(slot)
		return ctx.Err()
	case <-c.clock.After(delay):
		return nil
	}
}

// release hands back an abandoned slot if no later caller has queued behind it.
func (c *Client) release(slot time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next.Equal(slot.Add(c.interval)) {
		c.next = slot
	}
}
