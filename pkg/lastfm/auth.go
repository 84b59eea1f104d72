package lastfm

import (
	"context"
	"encoding/json"
	"errors"
)

// GetMobileSession exchanges a username and password for a long-lived
// session key via auth.getMobileSession.
//
// The session key does not expire; store it and reuse it via
// SetSessionKey so later runs can skip the password round-trip.
func (c *Client) GetMobileSession(ctx context.Context, username, password string) (*Session, error) {
	const method = "auth.getMobileSession"

	body, err := c.post(ctx, method, map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Session Session `json:"session"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProtocolError{Method: method, Err: err}
	}
	if resp.Session.Key == "" {
		return nil, &ProtocolError{Method: method, Err: errors.New("response carried no session key")}
	}

	return &resp.Session, nil
}
