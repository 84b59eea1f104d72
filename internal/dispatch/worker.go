// Package dispatch executes engine actions against Last.fm on a single
// background worker, so the sampling loop never blocks on network I/O.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/ample/internal/engine"
	"github.com/jfmyers9/ample/internal/media"
	"github.com/jfmyers9/ample/pkg/lastfm"
)

// Submitter is the slice of the Last.fm client the worker needs.
// *lastfm.Client satisfies it.
type Submitter interface {
	UpdateNowPlaying(ctx context.Context, artist, track, album string) error
	Scrobble(ctx context.Context, artist, track string, startedAt time.Time, album string) error
	GetTrackInfo(ctx context.Context, artist, track string) (*lastfm.TrackInfo, error)
}

// Artwork is the result of a FetchArtwork action, delivered back to the
// decision loop.
type Artwork struct {
	Track media.TrackIdentity
	URL   string
}

// Worker drains the action queue in arrival order. Individual failures
// are logged and dropped, never propagated back to the producer, and
// scrobbles are never re-attempted.
type Worker struct {
	client  Submitter
	queue   *queue
	artwork chan Artwork
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// NewWorker creates a Worker around the given client. Call Start to
// begin consuming and Close to shut down.
func NewWorker(client Submitter, logger zerolog.Logger) *Worker {
	return &Worker{
		client:  client,
		queue:   newQueue(),
		artwork: make(chan Artwork, 8),
		logger:  logger.With().Str("component", "dispatch").Logger(),
	}
}

// Enqueue adds actions to the queue. It never blocks the caller.
func (w *Worker) Enqueue(actions ...engine.Action) {
	for _, a := range actions {
		w.queue.push(a)
	}
}

// Artwork returns the channel on which fetched artwork URLs are
// delivered. The send side never blocks: if the decision loop falls
// behind, results are dropped.
func (w *Worker) Artwork() <-chan Artwork {
	return w.artwork
}

// Start launches the consumer goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			action, ok := w.queue.pop()
			if !ok {
				return
			}
			w.handle(action)
		}
	}()
}

// Close stops the queue and waits for the consumer to finish its
// current action.
func (w *Worker) Close() {
	w.queue.close()
	w.wg.Wait()
}

func (w *Worker) handle(a engine.Action) {
	ctx := context.Background()

	switch a.Kind {
	case engine.KindNowPlaying:
		err := w.client.UpdateNowPlaying(ctx, a.Track.Artist, a.Track.Title, a.Track.Album)
		if err != nil {
			w.logger.Error().Err(err).
				Str("track", a.Track.Title).
				Str("artist", a.Track.Artist).
				Msg("Failed to update now playing")
			return
		}
		w.logger.Info().
			Str("track", a.Track.Title).
			Str("artist", a.Track.Artist).
			Msg("Now playing updated")

	case engine.KindFetchArtwork:
		info, err := w.client.GetTrackInfo(ctx, a.Track.Artist, a.Track.Title)
		if err != nil {
			w.logger.Error().Err(err).
				Str("track", a.Track.Title).
				Msg("Failed to fetch track info")
			return
		}
		url := info.LargeImageURL()
		if url == "" {
			return
		}
		select {
		case w.artwork <- Artwork{Track: a.Track, URL: url}:
		default:
			w.logger.Debug().Str("track", a.Track.Title).Msg("Artwork result dropped")
		}

	case engine.KindScrobble:
		err := w.client.Scrobble(ctx, a.Track.Artist, a.Track.Title, a.StartedAt, a.Track.Album)
		if err != nil {
			// The occupancy already marked itself scrobbled; this play
			// will not be offered again.
			w.logger.Error().Err(err).
				Str("track", a.Track.Title).
				Str("artist", a.Track.Artist).
				Msg("Failed to scrobble")
			return
		}
		w.logger.Info().
			Str("track", a.Track.Title).
			Str("artist", a.Track.Artist).
			Msg("Scrobbled")
	}
}
