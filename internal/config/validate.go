// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// HOST
	// ------------------------------------------------------------

	host := cfg.Camwatch.Host

	if host.Endpoint == "" {
		return fmt.Errorf("host: endpoint required")
	}
	if err := checkHTTPURL(host.Endpoint); err != nil {
		return fmt.Errorf("host: endpoint: %w", err)
	}
	if host.TimeoutMs < 0 {
		return fmt.Errorf("host: timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// POLL
	// ------------------------------------------------------------

	if cfg.Camwatch.Poll.MinDelayMs < 0 {
		return fmt.Errorf("poll: min_delay_ms must be >= 0")
	}
	if cfg.Camwatch.Poll.FetchTimeoutMs < 0 {
		return fmt.Errorf("poll: fetch_timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// WEBCAMS
	// ------------------------------------------------------------

	seen := make(map[string]struct{})

	for _, w := range cfg.Camwatch.Webcams {
		if w.Name == "" {
			return fmt.Errorf("webcam: name required")
		}

		if _, dup := seen[w.Name]; dup {
			return fmt.Errorf("webcam %q: duplicate name", w.Name)
		}
		seen[w.Name] = struct{}{}

		if w.SnapshotURL == "" {
			return fmt.Errorf("webcam %q: snapshot_url required", w.Name)
		}
		if err := checkHTTPURL(w.SnapshotURL); err != nil {
			return fmt.Errorf("webcam %q: snapshot_url: %w", w.Name, err)
		}
		if w.StreamURL != "" {
			if err := checkHTTPURL(w.StreamURL); err != nil {
				return fmt.Errorf("webcam %q: stream_url: %w", w.Name, err)
			}
		}

		if w.TargetFPS < 0 {
			return fmt.Errorf("webcam %q: target_fps must be >= 0", w.Name)
		}
		if w.TargetFPSIdle != nil && *w.TargetFPSIdle < 0 {
			return fmt.Errorf("webcam %q: target_fps_idle must be >= 0", w.Name)
		}

		switch w.Rotation {
		case 0, 90, 180, 270:
		default:
			return fmt.Errorf("webcam %q: rotation must be one of 0, 90, 180, 270", w.Name)
		}

		if w.AspectRatio != "" {
			if err := checkAspectRatio(w.AspectRatio); err != nil {
				return fmt.Errorf("webcam %q: aspect_ratio: %w", w.Name, err)
			}
		}

		if w.SpoolKeep < 0 {
			return fmt.Errorf("webcam %q: spool_keep must be >= 0", w.Name)
		}
		if w.SpoolKeep > 0 && w.SpoolDir == "" {
			return fmt.Errorf("webcam %q: spool_keep is set but spool_dir is empty", w.Name)
		}
	}

	return nil
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host required")
	}
	return nil
}

// checkAspectRatio accepts "W:H" with positive integer sides.
func checkAspectRatio(raw string) error {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return fmt.Errorf("must be W:H, got %q", raw)
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return fmt.Errorf("must be W:H with positive integers, got %q", raw)
		}
	}
	return nil
}
