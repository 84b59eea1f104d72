//go:build !linux

package media

import "errors"

// NewPoller returns an error on platforms without a media-session
// backend. Only Linux (MPRIS over D-Bus) is supported today.
func NewPoller() (Poller, error) {
	return nil, errors.New("media: no media session backend on this platform")
}
