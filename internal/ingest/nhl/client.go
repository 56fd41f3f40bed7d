// Package nhl fetches and normalizes data from the NHL api-web v1 service.
package nhl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/gametime"
)

const (
	BaseURL = "https://api-web.nhle.com/v1"

	bodyPreviewLimit = 200
	maxBodyBytes     = 8 << 20
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nhl api %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// Client handles NHL API requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	normalizer *gametime.Normalizer
	log        zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithNormalizer sets the league-local time normalizer.
func WithNormalizer(n *gametime.Normalizer) Option {
	return func(c *Client) {
		c.normalizer = n
	}
}

// New creates a new NHL API client. An empty baseURL selects BaseURL.
func New(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		normalizer: gametime.Default(),
		log:        log.With().Str("component", "nhl-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalizer returns the time normalizer used for parsing.
func (c *Client) Normalizer() *gametime.Normalizer {
	return c.normalizer
}

// fetch GETs path and decodes a JSON object.
func (c *Client) fetch(ctx context.Context, path string) (map[string]interface{}, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

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
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url, Body: preview(body)}
	}

	if len(body) > 0 && body[0] == '<' {
		return nil, fmt.Errorf("nhl api returned markup for %s: %s", path, preview(body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding %s: %w (body: %s)", path, err, preview(body))
	}

	return result, nil
}

func preview(body []byte) string {
	return string(body[:min(len(body), bodyPreviewLimit)])
}
