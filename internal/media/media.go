package media

import "context"

// TrackIdentity identifies a track independently of playback progress.
//
// Equality is defined over exactly these four fields, so repeated samples
// of the same track compare equal even as the position advances.
type TrackIdentity struct {
	Player string // Name of the app playing this media
	Artist string
	Title  string
	Album  string
}

// Status represents the playback state reported by the media session.
type Status int

const (
	StatusClosed Status = iota
	StatusOpened
	StatusChanging
	StatusStopped
	StatusPlaying
	StatusPaused
)

// String returns a human-readable representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusClosed:
		return "closed"
	case StatusOpened:
		return "opened"
	case StatusChanging:
		return "changing"
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Type classifies the kind of media being played.
type Type int

const (
	TypeUnknown Type = iota
	TypeMusic
	TypeVideo
	TypeImage
)

// PlaybackSample is one snapshot of the current media session, produced
// by a Poller once per tick and consumed immediately. Positions and
// lengths are in microseconds, matching what media sessions report.
type PlaybackSample struct {
	Identity   TrackIdentity
	Status     Status
	Type       Type
	LengthUS   int64
	PositionUS int64
}

// Poller yields playback snapshots from the OS media session.
type Poller interface {
	// Poll returns the current snapshot, or nil when nothing is open.
	Poll(ctx context.Context) (*PlaybackSample, error)
}
