// Package engine decides when playback snapshots turn into now-playing
// updates, artwork fetches and scrobbles.
//
// The engine is a pure state machine: Advance performs no I/O, so the
// scrobbling rules can be tested without a player or a network.
package engine

import (
	"time"

	"github.com/jfmyers9/ample/internal/media"
)

// MinimumTrackSeconds is the minimum track length required for
// scrobbling. Per Last.fm's rules, tracks of 30 seconds or less never
// scrobble.
const MinimumTrackSeconds = 30

// State tracks the current track occupancy. It is owned exclusively by
// the sampling/decision loop and never accessed concurrently.
type State struct {
	Current    *media.TrackIdentity // nil when nothing has played yet
	StartedAt  time.Time            // when this occupancy began
	Scrobbled  bool                 // whether this occupancy has emitted its scrobble
	ArtworkURL string               // populated at most once per occupancy
}

// Engine consumes successive playback samples and emits actions at the
// correct moments.
type Engine struct {
	state State

	// primaryPlayer, when non-empty, restricts scrobbling to samples from
	// that player; samples from other players are treated as idle.
	primaryPlayer string
}

// New creates an Engine. primaryPlayer may be empty to accept any player.
func New(primaryPlayer string) *Engine {
	return &Engine{primaryPlayer: primaryPlayer}
}

// Advance feeds one playback sample into the engine and returns the
// actions it warrants, in the order they must be dispatched.
//
// A nil sample, a non-playing status or a non-primary player yields no
// actions and leaves the occupancy state untouched; callers should clear
// their status display on that branch. A new track identity starts a new
// occupancy and emits NowPlaying plus FetchArtwork. A continuing track
// emits a single Scrobble once it is longer than 30 seconds and more
// than half of it has been listened to. The scrobbled flag is set
// optimistically when the action is emitted, not when delivery is
// confirmed, so a failed delivery is not re-attempted.
func (e *Engine) Advance(sample *media.PlaybackSample, now time.Time) []Action {
	if sample == nil || sample.Status != media.StatusPlaying {
		return nil
	}
	if e.primaryPlayer != "" && sample.Identity.Player != e.primaryPlayer {
		return nil
	}

	id := sample.Identity
	if e.state.Current == nil || *e.state.Current != id {
		e.state = State{Current: &id, StartedAt: now}
		return []Action{
			{Kind: KindNowPlaying, Track: id},
			{Kind: KindFetchArtwork, Track: id},
		}
	}

	lengthSecs := sample.LengthUS / 1_000_000
	positionSecs := sample.PositionUS / 1_000_000

	if lengthSecs > MinimumTrackSeconds && positionSecs > lengthSecs/2 && !e.state.Scrobbled {
		e.state.Scrobbled = true
		return []Action{{Kind: KindScrobble, Track: id, StartedAt: e.state.StartedAt}}
	}

	return nil
}

// SetArtwork records the artwork URL for a track, provided that track is
// still the current occupancy and no artwork has been recorded for it
// yet. Reports whether the URL was applied.
func (e *Engine) SetArtwork(id media.TrackIdentity, url string) bool {
	if e.state.Current == nil || *e.state.Current != id {
		return false
	}
	if e.state.ArtworkURL != "" || url == "" {
		return false
	}
	e.state.ArtworkURL = url
	return true
}

// State returns a copy of the current occupancy state.
func (e *Engine) State() State {
	return e.state
}
