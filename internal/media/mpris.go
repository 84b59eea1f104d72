//go:build linux

package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	mprisPrefix      = "org.mpris.MediaPlayer2."
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisRootIface   = "org.mpris.MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
)

// mprisPoller reads playback snapshots from MPRIS players on the session
// bus. It picks the first player that currently owns an MPRIS name, so a
// single active player behaves like the single media session the daemon
// expects.
type mprisPoller struct {
	conn *dbus.Conn
}

// NewPoller connects to the D-Bus session bus and returns an MPRIS-backed
// Poller.
func NewPoller() (Poller, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("media: failed to connect to session bus: %w", err)
	}
	return &mprisPoller{conn: conn}, nil
}

func (p *mprisPoller) Poll(ctx context.Context) (*PlaybackSample, error) {
	name, err := p.findPlayer(ctx)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}

	obj := p.conn.Object(name, mprisPath)

	sample := &PlaybackSample{
		Status: StatusClosed,
		Type:   TypeUnknown,
	}
	sample.Identity.Player = playerIdentity(obj, name)

	if status, err := obj.GetProperty(mprisPlayerIface + ".PlaybackStatus"); err == nil {
		sample.Status = parseStatus(status.Value())
	}

	meta, err := obj.GetProperty(mprisPlayerIface + ".Metadata")
	if err != nil {
		return nil, fmt.Errorf("media: failed to read metadata from %s: %w", name, err)
	}
	fillMetadata(sample, meta)

	if pos, err := obj.GetProperty(mprisPlayerIface + ".Position"); err == nil {
		sample.PositionUS = asInt64(pos.Value())
	}

	return sample, nil
}

// findPlayer returns the bus name of the first MPRIS player, or "" when
// no player is running.
func (p *mprisPoller) findPlayer(ctx context.Context) (string, error) {
	var names []string
	call := p.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0)
	if err := call.Store(&names); err != nil {
		return "", fmt.Errorf("media: failed to list bus names: %w", err)
	}

	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			return name, nil
		}
	}
	return "", nil
}

func playerIdentity(obj dbus.BusObject, busName string) string {
	if ident, err := obj.GetProperty(mprisRootIface + ".Identity"); err == nil {
		if s, ok := ident.Value().(string); ok && s != "" {
			return s
		}
	}
	return strings.TrimPrefix(busName, mprisPrefix)
}

func fillMetadata(sample *PlaybackSample, meta dbus.Variant) {
	fields, ok := meta.Value().(map[string]dbus.Variant)
	if !ok {
		return
	}

	if artists, ok := fields["xesam:artist"].Value().([]string); ok {
		sample.Identity.Artist = strings.Join(artists, ", ")
	}
	if title, ok := fields["xesam:title"].Value().(string); ok {
		sample.Identity.Title = title
	}
	if album, ok := fields["xesam:album"].Value().(string); ok {
		sample.Identity.Album = album
	}
	if length, ok := fields["mpris:length"]; ok {
		sample.LengthUS = asInt64(length.Value())
	}
	if sample.Identity.Title != "" {
		sample.Type = TypeMusic
	}
}

func parseStatus(v any) Status {
	s, _ := v.(string)
	switch s {
	case "Playing":
		return StatusPlaying
	case "Paused":
		return StatusPaused
	case "Stopped":
		return StatusStopped
	default:
		return StatusClosed
	}
}

// asInt64 normalizes the integer types MPRIS players report lengths and
// positions as.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	case int32:
		return int64(n)
	case uint32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
