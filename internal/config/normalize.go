// internal/config/normalize.go
package config

import "github.com/google/uuid"

// Runtime defaults. These mirror what printer hosts ship with.
const (
	DefaultTargetFPS     = 15
	DefaultTargetFPSIdle = 5
	DefaultAspectRatio   = "16:9"

	DefaultMinDelayMs     = 100
	DefaultFetchTimeoutMs = 5000
	DefaultHostTimeoutMs  = 5000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Camwatch.Host.TimeoutMs == 0 {
		cfg.Camwatch.Host.TimeoutMs = DefaultHostTimeoutMs
	}

	if cfg.Camwatch.Poll.MinDelayMs == 0 {
		cfg.Camwatch.Poll.MinDelayMs = DefaultMinDelayMs
	}
	if cfg.Camwatch.Poll.FetchTimeoutMs == 0 {
		cfg.Camwatch.Poll.FetchTimeoutMs = DefaultFetchTimeoutMs
	}

	for wi := range cfg.Camwatch.Webcams {
		w := &cfg.Camwatch.Webcams[wi]

		if w.TargetFPS == 0 {
			w.TargetFPS = DefaultTargetFPS
		}

		// A nil idle rate means "use the default". An explicit 0 stays
		// 0: the webcam is not polled while the printer is idle.
		if w.TargetFPSIdle == nil {
			idle := DefaultTargetFPSIdle
			w.TargetFPSIdle = &idle
		}

		if w.AspectRatio == "" {
			w.AspectRatio = DefaultAspectRatio
		}

		if w.UID == "" {
			w.UID = uuid.NewString()
		}
	}
}
