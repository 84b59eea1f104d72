// Package presence renders the currently playing track to Discord Rich
// Presence. It is a best-effort display: every failure is logged and
// dropped, and the connection is re-established lazily on the next
// update.
package presence

import (
	"time"

	"github.com/rs/zerolog"
)

// Status is the rendered now-playing display.
type Status struct {
	Title      string
	Subtitle   string
	Start      time.Time
	End        time.Time
	ArtworkURL string
}

type rpcClient interface {
	SetActivity(activity) error
	Close() error
}

// Presence manages the Discord connection and the last status shown, so
// identical consecutive updates are skipped.
type Presence struct {
	appID   string
	logger  zerolog.Logger
	client  rpcClient
	connect func(string) (rpcClient, error)
	last    *Status
}

// New creates a Presence for the given Discord application ID. No
// connection is made until the first update.
func New(appID string, logger zerolog.Logger) *Presence {
	return &Presence{
		appID:  appID,
		logger: logger.With().Str("component", "presence").Logger(),
		connect: func(appID string) (rpcClient, error) {
			return dialIPC(appID)
		},
	}
}

// Update shows the given status. Repeats of the current status are
// no-ops; failures drop the connection so the next update redials.
func (p *Presence) Update(s Status) {
	if p.last != nil && *p.last == s {
		return
	}

	if err := p.ensureConnected(); err != nil {
		p.logger.Warn().Err(err).Msg("Discord not available")
		return
	}

	start := s.Start.Unix()
	end := s.End.Unix()
	act := activity{
		Type:    activityListening,
		Details: s.Title,
		State:   s.Subtitle,
		Timestamps: &timestamps{
			Start: &start,
			End:   &end,
		},
	}
	if s.ArtworkURL != "" {
		act.Assets = &assets{LargeImage: s.ArtworkURL, LargeText: s.Subtitle}
	}

	if err := p.client.SetActivity(act); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to set activity")
		p.drop()
		return
	}
	cur := s
	p.last = &cur
}

// Clear removes the activity. Safe to call when nothing is shown.
func (p *Presence) Clear() {
	if p.client == nil || p.last == nil {
		return
	}
	if err := p.client.SetActivity(activity{}); err != nil {
		p.logger.Debug().Err(err).Msg("Failed to clear activity")
		p.drop()
		return
	}
	p.last = nil
}

// Close shuts the connection down for good.
func (p *Presence) Close() {
	p.drop()
}

func (p *Presence) ensureConnected() error {
	if p.client != nil {
		return nil
	}
	client, err := p.connect(p.appID)
	if err != nil {
		return err
	}
	p.logger.Info().Msg("Connected to Discord")
	p.client = client
	return nil
}

func (p *Presence) drop() {
	if p.client == nil {
		return
	}
	_ = p.client.Close()
	p.client = nil
	p.last = nil
}
