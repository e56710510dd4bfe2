// internal/viewer/viewer.go

// Package viewer owns the poll pipeline for one webcam: gating state,
// the adaptive poller, the rate estimator and frame delivery.
package viewer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/camwatch/internal/config"
	"github.com/tamzrod/camwatch/internal/poller"
	"github.com/tamzrod/camwatch/internal/rate"
	"github.com/tamzrod/camwatch/internal/sink"
)

// Viewer is the controller for one webcam. It implements
// poller.RateSource: the target rate is 0 while hidden, otherwise the
// printing or idle configured rate.
type Viewer struct {
	name          string
	uid           string
	targetFPS     float64
	targetFPSIdle float64

	visible  atomic.Bool
	printing atomic.Bool

	poller *poller.Poller
	est    *rate.Estimator
	store  *sink.Store
	spool  *sink.Spool // nil when spooling is off
	log    zerolog.Logger
}

// New builds the viewer and its poller from config. The viewer starts
// visible; the embedding host hides it via SetVisible.
func New(w config.WebcamConfig, poll config.PollConfig, apiKey string, log zerolog.Logger) (*Viewer, error) {
	v := &Viewer{
		name:      w.Name,
		uid:       w.UID,
		targetFPS: float64(w.TargetFPS),
		est:       rate.NewEstimator(time.Now()),
		store:     &sink.Store{},
		log:       log.With().Str("webcam", w.Name).Logger(),
	}
	if w.TargetFPSIdle != nil {
		v.targetFPSIdle = float64(*w.TargetFPSIdle)
	}
	v.visible.Store(true)

	p, err := poller.Build(w, poll, apiKey, v)
	if err != nil {
		return nil, fmt.Errorf("viewer %q: %w", w.Name, err)
	}
	v.poller = p

	if w.SpoolDir != "" {
		sp, err := sink.NewSpool(w.SpoolDir, w.Name, w.SpoolKeep)
		if err != nil {
			return nil, fmt.Errorf("viewer %q: %w", w.Name, err)
		}
		v.spool = sp
	}

	return v, nil
}

// Name returns the webcam name.
func (v *Viewer) Name() string { return v.name }

// UID returns the webcam UID assigned at config normalization.
func (v *Viewer) UID() string { return v.uid }

// TargetRate implements poller.RateSource.
func (v *Viewer) TargetRate() float64 {
	if !v.visible.Load() {
		return 0
	}
	if v.printing.Load() {
		return v.targetFPS
	}
	return v.targetFPSIdle
}

// SetVisible flips viewer visibility. A flip kicks the poller so the
// new target rate takes effect immediately.
func (v *Viewer) SetVisible(on bool) {
	if v.visible.Swap(on) != on {
		v.log.Debug().Bool("visible", on).Msg("visibility changed")
		v.poller.Kick()
	}
}

// SetPrinting flips the printing gate. A flip kicks the poller.
func (v *Viewer) SetPrinting(on bool) {
	if v.printing.Swap(on) != on {
		v.log.Debug().Bool("printing", on).Msg("printing state changed")
		v.poller.Kick()
	}
}

// Run starts the poller and consumes its results until ctx is
// cancelled. The estimator window rolls on the viewer's own one-second
// ticker, independent of the poller's cadence.
func (v *Viewer) Run(ctx context.Context) {
	out := make(chan poller.FetchResult)
	go v.poller.Run(ctx, out)

	tick := time.NewTicker(rate.Window)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-out:
			v.consume(res)

		case now := <-tick.C:
			v.est.Roll(now)
		}
	}
}

func (v *Viewer) consume(res poller.FetchResult) {
	if res.Err != nil {
		v.log.Warn().Err(res.Err).Dur("elapsed", res.Elapsed).Msg("snapshot fetch failed")
		return
	}

	v.store.Put(res)
	v.est.Record()

	if v.spool != nil {
		if err := v.spool.Write(res); err != nil {
			v.log.Warn().Err(err).Msg("frame spool failed")
		}
	}
}

// CurrentRate renders the observed rate for display: "N fps", or
// "- fps" while there is no data.
func (v *Viewer) CurrentRate() string {
	return v.est.String()
}

// LatestFrame returns the most recent good frame, nil before the
// first one.
func (v *Viewer) LatestFrame() *poller.FetchResult {
	return v.store.Latest()
}
