// internal/config/validate_test.go
package config

import "testing"

// helper to build a config with one webcam quickly
func oneCam(w WebcamConfig) *Config {
	return &Config{
		Camwatch: CamwatchConfig{
			Host:    HostConfig{Endpoint: "http://klipper.local:7125"},
			Webcams: []WebcamConfig{w},
		},
	}
}

func cam(name, snapshot string) WebcamConfig {
	return WebcamConfig{
		Name:        name,
		SnapshotURL: snapshot,
	}
}

// ---- tests ----

func TestValidate_Minimal(t *testing.T) {
	cfg := oneCam(cam("bed", "http://klipper.local/webcam/?action=snapshot"))

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingHostEndpoint(t *testing.T) {
	cfg := oneCam(cam("bed", "http://cam.local/snap"))
	cfg.Camwatch.Host.Endpoint = ""

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_BadHostScheme(t *testing.T) {
	cfg := oneCam(cam("bed", "http://cam.local/snap"))
	cfg.Camwatch.Host.Endpoint = "ws://klipper.local:7125"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_DuplicateWebcamName(t *testing.T) {
	cfg := oneCam(cam("bed", "http://cam.local/snap"))
	cfg.Camwatch.Webcams = append(cfg.Camwatch.Webcams, cam("bed", "http://cam2.local/snap"))

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_MissingSnapshotURL(t *testing.T) {
	cfg := oneCam(cam("bed", ""))

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_NegativeFPS(t *testing.T) {
	w := cam("bed", "http://cam.local/snap")
	w.TargetFPS = -1

	if err := Validate(oneCam(w)); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_NegativeIdleFPS(t *testing.T) {
	idle := -5
	w := cam("bed", "http://cam.local/snap")
	w.TargetFPSIdle = &idle

	if err := Validate(oneCam(w)); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_Rotation(t *testing.T) {
	for _, rot := range []int{0, 90, 180, 270} {
		w := cam("bed", "http://cam.local/snap")
		w.Rotation = rot

		if err := Validate(oneCam(w)); err != nil {
			t.Fatalf("rotation %d: unexpected error: %v", rot, err)
		}
	}

	w := cam("bed", "http://cam.local/snap")
	w.Rotation = 45

	if err := Validate(oneCam(w)); err == nil {
		t.Fatal("rotation 45: expected error, got nil")
	}
}

func TestValidate_AspectRatio(t *testing.T) {
	good := []string{"16:9", "4:3", "1:1"}
	bad := []string{"16x9", "16:", ":9", "0:9", "16:9:1", "wide"}

	for _, ar := range good {
		w := cam("bed", "http://cam.local/snap")
		w.AspectRatio = ar

		if err := Validate(oneCam(w)); err != nil {
			t.Fatalf("aspect ratio %q: unexpected error: %v", ar, err)
		}
	}

	for _, ar := range bad {
		w := cam("bed", "http://cam.local/snap")
		w.AspectRatio = ar

		if err := Validate(oneCam(w)); err == nil {
			t.Fatalf("aspect ratio %q: expected error, got nil", ar)
		}
	}
}

func TestValidate_SpoolKeepWithoutDir(t *testing.T) {
	w := cam("bed", "http://cam.local/snap")
	w.SpoolKeep = 10

	if err := Validate(oneCam(w)); err == nil {
		t.Fatal("expected error, got nil")
	}
}
