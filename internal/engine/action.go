package engine

import (
	"time"

	"github.com/jfmyers9/ample/internal/media"
)

// Kind discriminates the actions the engine can emit.
type Kind int

const (
	// KindNowPlaying updates the remote now-playing indicator. Emitted
	// once per track occupancy, when the track is first seen.
	KindNowPlaying Kind = iota
	// KindFetchArtwork asks for album artwork for the new track.
	KindFetchArtwork
	// KindScrobble submits a permanent play record. Emitted at most once
	// per track occupancy, when the eligibility rules are met.
	KindScrobble
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNowPlaying:
		return "now_playing"
	case KindFetchArtwork:
		return "fetch_artwork"
	case KindScrobble:
		return "scrobble"
	default:
		return "unknown"
	}
}

// Action is one unit of work for the dispatch worker. Created by the
// engine, consumed exactly once.
type Action struct {
	Kind  Kind
	Track media.TrackIdentity
	// StartedAt is when playback of the track began. Only meaningful for
	// KindScrobble: the service expects the scrobble timestamp to be the
	// start of playback, not the submission time.
	StartedAt time.Time
}
