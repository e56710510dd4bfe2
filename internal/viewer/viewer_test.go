// internal/viewer/viewer_test.go
package viewer

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/tamzrod/camwatch/internal/config"
)

func newTestViewer(t *testing.T, fps, idle int) *Viewer {
	t.Helper()

	w := config.WebcamConfig{
		Name:          "bed",
		SnapshotURL:   "http://cam.local/webcam/?action=snapshot",
		TargetFPS:     fps,
		TargetFPSIdle: &idle,
	}

	v, err := New(w, config.PollConfig{MinDelayMs: 100, FetchTimeoutMs: 1000}, "", zerolog.Nop())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return v
}

func TestTargetRate_PrintingSelectsRate(t *testing.T) {
	v := newTestViewer(t, 15, 5)

	// Visible, idle.
	if got := v.TargetRate(); got != 5 {
		t.Fatalf("idle rate: got %v, want 5", got)
	}

	v.SetPrinting(true)
	if got := v.TargetRate(); got != 15 {
		t.Fatalf("printing rate: got %v, want 15", got)
	}

	v.SetPrinting(false)
	if got := v.TargetRate(); got != 5 {
		t.Fatalf("back to idle: got %v, want 5", got)
	}
}

func TestTargetRate_HiddenForcesZero(t *testing.T) {
	v := newTestViewer(t, 15, 5)
	v.SetPrinting(true)

	v.SetVisible(false)
	if got := v.TargetRate(); got != 0 {
		t.Fatalf("hidden rate: got %v, want 0", got)
	}

	// Printing flips while hidden still yield 0.
	v.SetPrinting(false)
	if got := v.TargetRate(); got != 0 {
		t.Fatalf("hidden idle rate: got %v, want 0", got)
	}

	v.SetVisible(true)
	if got := v.TargetRate(); got != 5 {
		t.Fatalf("visible again: got %v, want 5", got)
	}
}

func TestTargetRate_ExplicitZeroIdle(t *testing.T) {
	v := newTestViewer(t, 15, 0)

	// Idle polling disabled by config: rate is 0 until printing starts.
	if got := v.TargetRate(); got != 0 {
		t.Fatalf("idle rate: got %v, want 0", got)
	}

	v.SetPrinting(true)
	if got := v.TargetRate(); got != 15 {
		t.Fatalf("printing rate: got %v, want 15", got)
	}
}

func TestCurrentRate_NoData(t *testing.T) {
	v := newTestViewer(t, 15, 5)

	if got := v.CurrentRate(); got != "- fps" {
		t.Fatalf("CurrentRate(): got %q", got)
	}
	if v.LatestFrame() != nil {
		t.Fatal("LatestFrame() should be nil before the first fetch")
	}
}

func TestNew_SpoolDirCreated(t *testing.T) {
	idle := 5
	w := config.WebcamConfig{
		Name:          "bed",
		SnapshotURL:   "http://cam.local/snap",
		TargetFPS:     15,
		TargetFPSIdle: &idle,
		SpoolDir:      t.TempDir() + "/frames",
		SpoolKeep:     4,
	}

	v, err := New(w, config.PollConfig{}, "", zerolog.Nop())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if v.spool == nil {
		t.Fatal("spool should be configured")
	}
}
