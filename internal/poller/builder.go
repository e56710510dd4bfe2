// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/camwatch/internal/config"
	"github.com/tamzrod/camwatch/internal/poller/snapshot"
)

// Build constructs a Poller for one webcam from config.
// The snapshot client is stateless; there is no connection lifecycle
// to manage.
func Build(w cfg.WebcamConfig, poll cfg.PollConfig, apiKey string, source RateSource) (*Poller, error) {
	client, err := snapshot.New(snapshot.Config{
		URL:     w.SnapshotURL,
		APIKey:  apiKey,
		Timeout: time.Duration(poll.FetchTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	return New(
		Config{
			Webcam:       w.Name,
			MinDelay:     time.Duration(poll.MinDelayMs) * time.Millisecond,
			FetchTimeout: time.Duration(poll.FetchTimeoutMs) * time.Millisecond,
		},
		client,
		source,
	)
}
