package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// UpdateNowPlaying updates the "now playing" indicator on Last.fm.
//
// This should be called once when a track starts playing. It does not
// count as a scrobble and does not affect play counts. The update is
// advisory, so a failed call should be reported and dropped rather than
// retried.
//
// Requires a session key (see SetSessionKey).
func (c *Client) UpdateNowPlaying(ctx context.Context, artist, track, album string) error {
	if c.sessionKey == "" {
		return ErrNoSessionKey
	}

	params := map[string]string{
		"artist": artist,
		"track":  track,
		"sk":     c.sessionKey,
	}
	if album != "" {
		params["album"] = album
	}

	_, err := c.post(ctx, "track.updateNowPlaying", params)
	return err
}

// Scrobble submits a permanent play-count record to Last.fm.
//
// startedAt is when playback of the track began, as the service expects,
// not when the submission is made. Per Last.fm's rules a track should
// only be scrobbled when it is longer than 30 seconds and at least half
// of it has been listened to; enforcing that is the caller's job.
//
// Requires a session key (see SetSessionKey).
func (c *Client) Scrobble(ctx context.Context, artist, track string, startedAt time.Time, album string) error {
	if c.sessionKey == "" {
		return ErrNoSessionKey
	}

	params := map[string]string{
		"artist":    artist,
		"track":     track,
		"timestamp": fmt.Sprintf("%d", startedAt.Unix()),
		"sk":        c.sessionKey,
	}
	if album != "" {
		params["album"] = album
	}

	_, err := c.post(ctx, "track.scrobble", params)
	return err
}

// GetTrackInfo looks up track metadata, including album artwork, via
// track.getInfo. No session is required.
func (c *Client) GetTrackInfo(ctx context.Context, artist, track string) (*TrackInfo, error) {
	const method = "track.getInfo"

	body, err := c.get(ctx, method, map[string]string{
		"artist": artist,
		"track":  track,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Track TrackInfo `json:"track"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProtocolError{Method: method, Err: err}
	}

	return &resp.Track, nil
}
