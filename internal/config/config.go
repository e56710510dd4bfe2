// internal/config/config.go
package config

import "github.com/tamzrod/camwatch/internal/logger"

type Config struct {
	Camwatch CamwatchConfig `yaml:"camwatch"`
}

type CamwatchConfig struct {
	Host    HostConfig     `yaml:"host"`
	Logging logger.Config  `yaml:"logging"`
	Webcams []WebcamConfig `yaml:"webcams"`
	Poll    PollConfig     `yaml:"poll"`
}

// ---- HOST ----

type HostConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"api_key"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- WEBCAM ----

type WebcamConfig struct {
	Name        string `yaml:"name"`
	SnapshotURL string `yaml:"snapshot_url"`
	StreamURL   string `yaml:"stream_url"`

	// Target rates in fetches per second. TargetFPS applies while the
	// printer is actively printing, TargetFPSIdle otherwise. A nil idle
	// rate means "use the default"; an explicit 0 disables polling
	// while idle.
	TargetFPS     int  `yaml:"target_fps"`
	TargetFPSIdle *int `yaml:"target_fps_idle"`

	FlipHorizontal bool   `yaml:"flip_horizontal"`
	FlipVertical   bool   `yaml:"flip_vertical"`
	Rotation       int    `yaml:"rotation"`
	AspectRatio    string `yaml:"aspect_ratio"`

	// Enabled is opt-out: nil means enabled.
	Enabled *bool `yaml:"enabled"`

	// Frame spool (optional). Empty dir disables spooling.
	SpoolDir  string `yaml:"spool_dir"`
	SpoolKeep int    `yaml:"spool_keep"`

	// UID is assigned during normalization, never read from file.
	UID string `yaml:"-"`
}

// IsEnabled resolves the opt-out pointer.
func (w WebcamConfig) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

// ---- POLL ----

type PollConfig struct {
	MinDelayMs     int `yaml:"min_delay_ms"`
	FetchTimeoutMs int `yaml:"fetch_timeout_ms"`
}
