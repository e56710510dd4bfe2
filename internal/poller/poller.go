// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"
)

// Client abstracts the snapshot transport.
// The poller depends on bytes only.
type Client interface {
	Fetch(ctx context.Context) (body []byte, contentType string, err error)
}

// RateSource supplies the target rate at schedule time.
// A rate of 0 (or less) parks the loop until the next Kick.
type RateSource interface {
	TargetRate() float64 // fetches per second
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Webcam       string
	MinDelay     time.Duration // floor between fetches
	FetchTimeout time.Duration // per-fetch deadline; a fetch always completes
}

const (
	defaultMinDelay     = 100 * time.Millisecond
	defaultFetchTimeout = 5 * time.Second
)

// Poller is a self-tuning snapshot fetcher. It issues one fetch at a
// time and paces itself so that completed fetches approximate the
// target rate.
type Poller struct {
	cfg    Config
	client Client
	source RateSource
	clock  Clock
	kick   chan struct{}
}

// New creates a poller with immutable config.
func New(cfg Config, client Client, source RateSource) (*Poller, error) {
	return newPoller(cfg, client, source, realClock{})
}

func newPoller(cfg Config, client Client, source RateSource, clock Clock) (*Poller, error) {
	if cfg.Webcam == "" {
		return nil, errors.New("poller: webcam name required")
	}
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if source == nil {
		return nil, errors.New("poller: rate source required")
	}

	if cfg.MinDelay <= 0 {
		cfg.MinDelay = defaultMinDelay
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}

	return &Poller{
		cfg:    cfg,
		client: client,
		source: source,
		clock:  clock,
		kick:   make(chan struct{}, 1),
	}, nil
}

// Kick wakes a parked loop and makes a pacing loop re-read the target
// rate immediately. Callers invoke it whenever gating state changes
// (visibility or printing flips). Non-blocking; multiple kicks coalesce.
func (p *Poller) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// FetchOnce performs exactly one fetch cycle.
// The fetch timeout guarantees completion; a fetch that would otherwise
// hang comes back as an error instead of stalling the loop.
func (p *Poller) FetchOnce(ctx context.Context) FetchResult {
	res := FetchResult{
		Webcam:   p.cfg.Webcam,
		IssuedAt: p.clock.Now(),
	}

	fctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	body, contentType, err := p.client.Fetch(fctx)
	res.Elapsed = p.clock.Now().Sub(res.IssuedAt)

	if err != nil {
		res.Err = err
		return res
	}

	res.Frame = &Frame{Body: body, ContentType: contentType}
	return res
}

// nextDelay computes the pause before the following fetch:
// the target period minus the round trip already spent, floored at
// MinDelay.
func (p *Poller) nextDelay(rate float64, elapsed time.Duration) time.Duration {
	d := time.Duration(float64(time.Second)/rate) - elapsed
	if d < p.cfg.MinDelay {
		d = p.cfg.MinDelay
	}
	return d
}
