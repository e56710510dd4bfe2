// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
camwatch:
  host:
    endpoint: "http://klipper.local:7125"
    api_key: "secret"
  logging:
    level: debug
  webcams:
    - name: bed
      snapshot_url: "http://klipper.local/webcam/?action=snapshot"
      target_fps: 10
      target_fps_idle: 0
    - name: nozzle
      snapshot_url: "http://klipper.local/webcam2/?action=snapshot"
      enabled: false
  poll:
    min_delay_ms: 250
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "camwatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}

	if got := cfg.Camwatch.Host.Endpoint; got != "http://klipper.local:7125" {
		t.Fatalf("host endpoint: got %q", got)
	}
	if len(cfg.Camwatch.Webcams) != 2 {
		t.Fatalf("expected 2 webcams, got %d", len(cfg.Camwatch.Webcams))
	}

	bed := cfg.Camwatch.Webcams[0]
	if bed.TargetFPS != 10 {
		t.Fatalf("bed target_fps: got %d", bed.TargetFPS)
	}
	if bed.TargetFPSIdle == nil || *bed.TargetFPSIdle != 0 {
		t.Fatalf("bed target_fps_idle: expected explicit 0, got %v", bed.TargetFPSIdle)
	}
	if !bed.IsEnabled() {
		t.Fatal("bed should default to enabled")
	}

	nozzle := cfg.Camwatch.Webcams[1]
	if nozzle.IsEnabled() {
		t.Fatal("nozzle should be disabled")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeTemp(t, "camwatch: [")); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	Normalize(cfg)

	if cfg.Camwatch.Host.TimeoutMs != DefaultHostTimeoutMs {
		t.Fatalf("host timeout: got %d", cfg.Camwatch.Host.TimeoutMs)
	}
	if cfg.Camwatch.Poll.MinDelayMs != 250 {
		t.Fatalf("min_delay_ms should keep configured value, got %d", cfg.Camwatch.Poll.MinDelayMs)
	}
	if cfg.Camwatch.Poll.FetchTimeoutMs != DefaultFetchTimeoutMs {
		t.Fatalf("fetch timeout: got %d", cfg.Camwatch.Poll.FetchTimeoutMs)
	}

	bed := cfg.Camwatch.Webcams[0]

	// Explicit 0 idle rate survives normalization.
	if bed.TargetFPSIdle == nil || *bed.TargetFPSIdle != 0 {
		t.Fatalf("bed idle rate: got %v", bed.TargetFPSIdle)
	}
	if bed.AspectRatio != DefaultAspectRatio {
		t.Fatalf("bed aspect ratio: got %q", bed.AspectRatio)
	}
	if bed.UID == "" {
		t.Fatal("bed should get a UID")
	}

	nozzle := cfg.Camwatch.Webcams[1]
	if nozzle.TargetFPS != DefaultTargetFPS {
		t.Fatalf("nozzle target_fps: got %d", nozzle.TargetFPS)
	}
	if nozzle.TargetFPSIdle == nil || *nozzle.TargetFPSIdle != DefaultTargetFPSIdle {
		t.Fatalf("nozzle idle rate: got %v", nozzle.TargetFPSIdle)
	}
	if nozzle.UID == bed.UID {
		t.Fatal("webcam UIDs must be distinct")
	}
}
