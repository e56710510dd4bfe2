// internal/rate/estimator.go

// Package rate tracks the observed snapshot fetch rate over one-second
// windows, independently of the poller's own cadence.
package rate

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Window is the estimation window. The owning orchestrator is expected
// to call Roll once per Window on its own ticker.
const Window = time.Second

// Estimator counts completed fetches and derives an observed rate each
// time the window is rolled. Counters never hold data older than one
// window. Safe for concurrent use.
type Estimator struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
	observed    float64 // NaN until a window with data has completed
}

// NewEstimator starts the first window at now.
func NewEstimator(now time.Time) *Estimator {
	return &Estimator{
		windowStart: now,
		observed:    math.NaN(),
	}
}

// Record counts one completed fetch in the current window.
func (e *Estimator) Record() {
	e.mu.Lock()
	e.count++
	e.mu.Unlock()
}

// Roll closes the current window at now, computes the observed rate and
// opens the next window. A window with zero completions yields NaN so
// that "no data" is distinguishable from "zero" downstream.
func (e *Estimator) Roll(now time.Time) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	elapsed := now.Sub(e.windowStart).Seconds()

	if e.count == 0 || elapsed <= 0 {
		e.observed = math.NaN()
	} else {
		e.observed = float64(e.count) / elapsed
	}

	e.count = 0
	e.windowStart = now

	return e.observed
}

// Observed returns the rate computed by the most recent Roll.
func (e *Estimator) Observed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.observed
}

// String renders the observed rate for display: "N fps", or "- fps"
// while no data is available.
func (e *Estimator) String() string {
	r := e.Observed()
	if math.IsNaN(r) {
		return "- fps"
	}
	return fmt.Sprintf("%d fps", int(math.Round(r)))
}
