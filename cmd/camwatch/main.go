// cmd/camwatch/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/camwatch/internal/config"
	"github.com/tamzrod/camwatch/internal/host"
	"github.com/tamzrod/camwatch/internal/logger"
	"github.com/tamzrod/camwatch/internal/viewer"
)

const version = "0.1.0"

const rateReportInterval = 10 * time.Second

// feedFanout forwards host feed callbacks to every viewer.
type feedFanout struct {
	viewers []*viewer.Viewer
	log     zerolog.Logger
}

func (f *feedFanout) OnPrinterState(s host.PrinterState) {
	f.log.Info().Str("state", string(s)).Msg("printer state changed")
	for _, v := range f.viewers {
		v.SetPrinting(s.Active())
	}
}

func (f *feedFanout) OnKlippyState(s host.KlippyState) {
	f.log.Info().Str("klippy", string(s)).Msg("firmware state changed")

	// Anything but ready means no print is running.
	if s != host.KlippyReady {
		for _, v := range f.viewers {
			v.SetPrinting(false)
		}
	}
}

func (f *feedFanout) OnFeedDown(err error) {
	f.log.Warn().Err(err).Msg("host feed lost")
}

func main() {
	restart := flag.String("restart", "", `issue a one-shot restart ("host" or "firmware") and exit`)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: camwatch [-restart host|firmware] <config.yaml>")
		os.Exit(2)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		os.Exit(1)
	}

	config.Normalize(cfg)

	log, err := logger.New(cfg.Camwatch.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	log = log.With().Str("service", "camwatch").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Host client
	// --------------------

	hc, err := host.NewClient(host.Config{
		Endpoint: cfg.Camwatch.Host.Endpoint,
		APIKey:   cfg.Camwatch.Host.APIKey,
		Timeout:  time.Duration(cfg.Camwatch.Host.TimeoutMs) * time.Millisecond,
	}, logger.Component(log, "host"))
	if err != nil {
		log.Fatal().Err(err).Msg("host client build failed")
	}

	// One-shot restart commands, then exit.
	if *restart != "" {
		switch *restart {
		case "host":
			err = hc.RestartHost(ctx)
		case "firmware":
			err = hc.RestartFirmware(ctx)
		default:
			log.Fatal().Str("restart", *restart).Msg(`-restart must be "host" or "firmware"`)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("restart command failed")
		}
		return
	}

	// --------------------
	// Build per-webcam pipelines
	// --------------------

	// Initial printing state via REST; the feed takes over from here.
	state, err := hc.PrinterState(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("initial printer state query failed, assuming standby")
		state = host.StateStandby
	}

	var viewers []*viewer.Viewer

	for _, w := range cfg.Camwatch.Webcams {
		if !w.IsEnabled() {
			log.Info().Str("webcam", w.Name).Msg("webcam disabled, skipping")
			continue
		}

		v, err := viewer.New(w, cfg.Camwatch.Poll, cfg.Camwatch.Host.APIKey, logger.Component(log, "viewer"))
		if err != nil {
			log.Fatal().Err(err).Str("webcam", w.Name).Msg("viewer build failed")
		}

		v.SetPrinting(state.Active())
		viewers = append(viewers, v)
	}

	if len(viewers) == 0 {
		log.Fatal().Msg("no enabled webcams configured")
	}

	// --------------------
	// Host feed
	// --------------------

	fan := &feedFanout{viewers: viewers, log: logger.Component(log, "feed")}

	feed, err := host.NewFeed(host.FeedConfig{
		URL:           hc.WebsocketURL(),
		APIKey:        cfg.Camwatch.Host.APIKey,
		ClientName:    "camwatch",
		ClientVersion: version,
	}, fan, logger.Component(log, "feed"))
	if err != nil {
		log.Fatal().Err(err).Msg("host feed build failed")
	}

	// --------------------
	// Run
	// --------------------

	var wg sync.WaitGroup

	for _, v := range viewers {
		wg.Add(1)
		go func(v *viewer.Viewer) {
			defer wg.Done()
			v.Run(ctx)
		}(v)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		feed.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		reportRates(ctx, log, viewers)
	}()

	log.Info().Int("webcams", len(viewers)).Str("state", string(state)).Msg("camwatch started")

	<-ctx.Done()
	log.Info().Msg("shutting down")
	wg.Wait()
}

// reportRates periodically logs the observed rate per webcam.
func reportRates(ctx context.Context, log zerolog.Logger, viewers []*viewer.Viewer) {
	tick := time.NewTicker(rateReportInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			for _, v := range viewers {
				log.Info().
					Str("webcam", v.Name()).
					Str("observed", v.CurrentRate()).
					Msg("observed frame rate")
			}
		}
	}
}
