// internal/poller/runner.go
package poller

import "context"

// Run drives the adaptive fetch loop until ctx is cancelled, emitting
// every result (success or failure) on out. One goroutine per webcam.
// No overlap: the next fetch is never issued before the previous one
// has completed.
//
// When the target rate is 0 the loop parks and does not self-resume;
// Kick restarts it. A kick during the pacing wait re-reads the target
// rate immediately, so gating flips take effect without waiting out
// the delay.
func (p *Poller) Run(ctx context.Context, out chan<- FetchResult) {
	for {
		rate := p.source.TargetRate()

		if rate <= 0 {
			select {
			case <-ctx.Done():
				return
			case <-p.kick:
				continue
			}
		}

		res := p.FetchOnce(ctx)

		select {
		case out <- res:
		case <-ctx.Done():
			return
		}

		timer := p.clock.NewTimer(p.nextDelay(rate, res.Elapsed))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.kick:
			timer.Stop()
		case <-timer.Chan():
		}
	}
}
