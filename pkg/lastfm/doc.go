// Package lastfm provides a client for the Last.fm API 2.0.
//
// The package implements the subset of the API that a scrobbler needs:
// mobile-session authentication (auth.getMobileSession), now-playing
// updates (track.updateNowPlaying), scrobble submission (track.scrobble)
// and track lookups (track.getInfo).
//
// # Quick start
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey:    "your-api-key",
//	    APISecret: "your-api-secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session, err := client.GetMobileSession(ctx, "username", "password")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client.SetSessionKey(session.Key)
//
//	err = client.UpdateNowPlaying(ctx, "The Beatles", "Yesterday", "Help!")
//
// # Signing
//
// Authenticated requests carry an api_sig parameter computed over the
// request parameters (see Sign). The signing scheme is deterministic:
// parameters are sorted byte-wise by key, concatenated as key+value pairs
// with no separators, the shared secret is appended and the MD5 digest of
// the result is rendered as lowercase hex. Every request additionally
// carries format=json.
//
// # Errors
//
// HTTP error statuses are surfaced as *HTTPError even when the transport
// succeeded; malformed response bodies are surfaced as *ProtocolError;
// errors reported by the service itself are surfaced as *APIError. Use
// IsRetryable to distinguish transient failures (network errors, 5xx,
// "service offline") from permanent ones.
//
// For more information about the Last.fm API:
// https://www.last.fm/api/scrobbling
package lastfm
