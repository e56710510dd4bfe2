// internal/host/client.go

// Package host talks to a Moonraker-style printer host: REST for
// queries and one-shot commands, a JSON-RPC websocket feed for pushed
// printer state.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is the REST side of the host API.
type Client struct {
	base   string
	apikey string
	http   *http.Client
	log    zerolog.Logger
}

// Config is minimal transport config.
type Config struct {
	Endpoint string // http(s)://host:port
	APIKey   string
	Timeout  time.Duration
}

// NewClient creates a host REST client.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("host: endpoint required")
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("host: endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("host: endpoint scheme must be http or https, got %q", u.Scheme)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &Client{
		base:   strings.TrimRight(cfg.Endpoint, "/"),
		apikey: cfg.APIKey,
		http:   &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}, nil
}

// WebsocketURL derives the ws(s) endpoint of the host's JSON-RPC feed.
func (c *Client) WebsocketURL() string {
	ws := strings.Replace(c.base, "http", "ws", 1)
	return ws + "/websocket"
}

// ---- queries ----

// ServerInfo mirrors the host's /server/info result.
type ServerInfo struct {
	KlippyState      string   `json:"klippy_state"`
	KlippyConnected  bool     `json:"klippy_connected"`
	MoonrakerVersion string   `json:"moonraker_version"`
	Components       []string `json:"components"`
}

func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.get(ctx, "/server/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// PrinterState queries the current print job state.
func (c *Client) PrinterState(ctx context.Context) (PrinterState, error) {
	var out struct {
		Status struct {
			PrintStats struct {
				State string `json:"state"`
			} `json:"print_stats"`
		} `json:"status"`
	}

	if err := c.get(ctx, "/printer/objects/query?print_stats", &out); err != nil {
		return StateUnknown, err
	}

	return PrinterStateFor(out.Status.PrintStats.State), nil
}

// WebcamEntry is one webcam as advertised by the host.
type WebcamEntry struct {
	Name           string `json:"name"`
	Location       string `json:"location"`
	Service        string `json:"service"`
	Enabled        bool   `json:"enabled"`
	TargetFPS      int    `json:"target_fps"`
	TargetFPSIdle  int    `json:"target_fps_idle"`
	StreamURL      string `json:"stream_url"`
	SnapshotURL    string `json:"snapshot_url"`
	FlipHorizontal bool   `json:"flip_horizontal"`
	FlipVertical   bool   `json:"flip_vertical"`
	Rotation       int    `json:"rotation"`
	AspectRatio    string `json:"aspect_ratio"`
	Source         string `json:"source"`
	UID            string `json:"uid"`
}

// ListWebcams returns the webcams configured on the host.
func (c *Client) ListWebcams(ctx context.Context) ([]WebcamEntry, error) {
	var out struct {
		Webcams []WebcamEntry `json:"webcams"`
	}

	if err := c.get(ctx, "/server/webcams/list", &out); err != nil {
		return nil, err
	}

	return out.Webcams, nil
}

// ---- commands ----

// RestartHost asks the host to restart the printer software.
func (c *Client) RestartHost(ctx context.Context) error {
	c.log.Info().Msg("issuing host restart")
	return c.post(ctx, "/printer/restart")
}

// RestartFirmware asks the host to restart the printer firmware.
func (c *Client) RestartFirmware(ctx context.Context) error {
	c.log.Info().Msg("issuing firmware restart")
	return c.post(ctx, "/printer/firmware_restart")
}

// ---- plumbing ----

// resultEnvelope is the host's uniform response wrapper.
type resultEnvelope struct {
	Result json.RawMessage `json:"result"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, out)
}

func (c *Client) post(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodPost, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("host: build request: %w", err)
	}
	if c.apikey != "" {
		req.Header.Set("X-Api-Key", c.apikey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("host: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("host: %s %s: unexpected status %s", method, path, resp.Status)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var env resultEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("host: %s %s: decode: %w", method, path, err)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("host: %s %s: decode result: %w", method, path, err)
	}

	return nil
}
