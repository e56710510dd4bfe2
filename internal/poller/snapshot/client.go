// internal/poller/snapshot/client.go
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client fetches still images over HTTP.
// This adapter is transport-only: it moves bytes and decides nothing.
type Client struct {
	url    string
	apikey string
	http   *http.Client
}

// Config is minimal transport config.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// New creates a snapshot client. The URL is validated once here; every
// fetch appends a fresh cache-buster to it.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("snapshot: url required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("snapshot: url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &Client{
		url:    cfg.URL,
		apikey: cfg.APIKey,
		http:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Fetch implements poller.Client.
func (c *Client) Fetch(ctx context.Context) ([]byte, string, error) {
	busted := cacheBusted(c.url, time.Now())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, busted, nil)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot: build request: %w", err)
	}
	if c.apikey != "" {
		req.Header.Set("X-Api-Key", c.apikey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("snapshot: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot: read body: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// cacheBusted appends the cache-busting parameter, "?_=<millis>" on a
// bare URL, "&_=<millis>" when a query is already present.
func cacheBusted(rawURL string, now time.Time) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "_=" + strconv.FormatInt(now.UnixMilli(), 10)
}
