// Package daemon runs the polling loop that drives the scrobble engine,
// the dispatch worker and the presence display.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jfmyers9/ample/internal/dispatch"
	"github.com/jfmyers9/ample/internal/engine"
	"github.com/jfmyers9/ample/internal/media"
	"github.com/jfmyers9/ample/internal/presence"
	"github.com/rs/zerolog"
)

// DefaultPollInterval matches the cadence the scrobble thresholds were
// tuned for.
const DefaultPollInterval = 5 * time.Second

// Dispatcher accepts engine actions for asynchronous submission. It is
// satisfied by *dispatch.Worker.
type Dispatcher interface {
	Enqueue(actions ...engine.Action)
	Artwork() <-chan dispatch.Artwork
	Close()
}

// Sink displays the current playback status. It is satisfied by
// *presence.Presence.
type Sink interface {
	Update(presence.Status)
	Clear()
	Close()
}

// Config holds daemon configuration.
type Config struct {
	PollInterval time.Duration
	Player       string // primary player name, empty accepts any
}

// Daemon owns the main loop. The dispatcher and sink are optional:
// without a dispatcher nothing is scrobbled, without a sink nothing is
// displayed.
type Daemon struct {
	config   Config
	poller   media.Poller
	engine   *engine.Engine
	worker   Dispatcher
	presence Sink
	logger   zerolog.Logger
	now      func() time.Time

	lastSample *media.PlaybackSample
}

// New creates a Daemon. poller must be non-nil; worker and sink may be
// nil.
func New(cfg Config, poller media.Poller, worker Dispatcher, sink Sink, logger zerolog.Logger) *Daemon {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Daemon{
		config:   cfg,
		poller:   poller,
		engine:   engine.New(cfg.Player),
		worker:   worker,
		presence: sink,
		logger:   logger.With().Str("component", "daemon").Logger(),
		now:      time.Now,
	}
}

// Run starts the daemon and blocks until a shutdown signal is received.
func (d *Daemon) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// First signal shuts down gracefully, second forces exit.
	go func() {
		<-sigChan
		d.logger.Info().Msg("Shutdown signal received, initiating graceful shutdown")
		cancel()

		<-sigChan
		d.logger.Warn().Msg("Second shutdown signal received, forcing exit")
		os.Exit(1)
	}()

	d.loop(ctx)

	if d.worker != nil {
		d.worker.Close()
	}
	if d.presence != nil {
		d.presence.Clear()
		d.presence.Close()
	}
	d.logger.Info().Msg("Daemon stopped")
	return nil
}

// loop ticks the poller and consumes artwork results until ctx is
// cancelled.
func (d *Daemon) loop(ctx context.Context) {
	d.logger.Info().Dur("interval", d.config.PollInterval).Msg("Starting daemon")

	var artwork <-chan dispatch.Artwork
	if d.worker != nil {
		artwork = d.worker.Artwork()
	}

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	d.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case art := <-artwork:
			if d.engine.SetArtwork(art.Track, art.URL) {
				d.showPresence()
			}
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Daemon) tick(ctx context.Context) {
	sample, err := d.poller.Poll(ctx)
	if err != nil {
		d.logger.Debug().Err(err).Msg("Poll failed")
		return
	}
	d.lastSample = sample

	actions := d.engine.Advance(sample, d.now())
	for _, action := range actions {
		d.logger.Info().
			Stringer("action", action.Kind).
			Str("artist", action.Track.Artist).
			Str("track", action.Track.Title).
			Msg("Dispatching")
	}
	if d.worker != nil && len(actions) > 0 {
		d.worker.Enqueue(actions...)
	}

	d.showPresence()
}

// showPresence renders the last sample to the sink, clearing the
// display when nothing is playing.
func (d *Daemon) showPresence() {
	if d.presence == nil {
		return
	}
	sample := d.lastSample
	if sample == nil || sample.Status != media.StatusPlaying {
		d.presence.Clear()
		return
	}
	if d.config.Player != "" && sample.Identity.Player != d.config.Player {
		d.presence.Clear()
		return
	}

	now := d.now()
	status := presence.Status{
		Title:      sample.Identity.Title,
		Subtitle:   sample.Identity.Artist,
		Start:      now.Add(-time.Duration(sample.PositionUS) * time.Microsecond),
		ArtworkURL: d.engine.State().ArtworkURL,
	}
	if sample.LengthUS > 0 {
		remaining := sample.LengthUS - sample.PositionUS
		status.End = now.Add(time.Duration(remaining) * time.Microsecond)
	}
	d.presence.Update(status)
}
