package lastfm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL, sessionKey string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		APIKey:     "test-api-key",
		APISecret:  "test-api-secret",
		SessionKey: sessionKey,
		BaseURL:    baseURL,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid",
			cfg:     Config{APIKey: "key", APISecret: "secret"},
			wantErr: false,
		},
		{
			name:    "missing api key",
			cfg:     Config{APISecret: "secret"},
			wantErr: true,
		},
		{
			name:    "missing api secret",
			cfg:     Config{APIKey: "key"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateNowPlaying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST request, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}

		if method := r.FormValue("method"); method != "track.updateNowPlaying" {
			t.Errorf("expected method track.updateNowPlaying, got %s", method)
		}
		if artist := r.FormValue("artist"); artist != "Big Thief" {
			t.Errorf("expected artist Big Thief, got %s", artist)
		}
		if album := r.FormValue("album"); album != "U.F.O.F." {
			t.Errorf("expected album U.F.O.F., got %s", album)
		}
		if sk := r.FormValue("sk"); sk != "test-session" {
			t.Errorf("expected sk test-session, got %s", sk)
		}
		if r.FormValue("format") != "json" {
			t.Error("expected format=json to be present")
		}

		// The signature must cover everything except api_sig and format.
		signed := map[string]string{}
		for k := range r.PostForm {
			if k == "api_sig" || k == "format" {
				continue
			}
			signed[k] = r.FormValue(k)
		}
		if got, want := r.FormValue("api_sig"), Sign(signed, "test-api-secret"); got != want {
			t.Errorf("api_sig = %q, want %q", got, want)
		}

		w.Write([]byte(`{"nowplaying":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "test-session")
	if err := client.UpdateNowPlaying(context.Background(), "Big Thief", "Cattails", "U.F.O.F."); err != nil {
		t.Errorf("UpdateNowPlaying() error = %v", err)
	}
}

func TestUpdateNowPlayingRequiresSession(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0", "")
	err := client.UpdateNowPlaying(context.Background(), "Big Thief", "Cattails", "")
	if !errors.Is(err, ErrNoSessionKey) {
		t.Errorf("expected ErrNoSessionKey, got %v", err)
	}
}

func TestScrobble(t *testing.T) {
	startedAt := time.Unix(1700000000, 0)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if method := r.FormValue("method"); method != "track.scrobble" {
			t.Errorf("expected method track.scrobble, got %s", method)
		}
		if ts := r.FormValue("timestamp"); ts != "1700000000" {
			t.Errorf("expected timestamp 1700000000, got %s", ts)
		}
		w.Write([]byte(`{"scrobbles":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "test-session")
	if err := client.Scrobble(context.Background(), "Big Thief", "Cattails", startedAt, ""); err != nil {
		t.Errorf("Scrobble() error = %v", err)
	}
}

func TestScrobbleHTTPErrorStatus(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTemporary bool
	}{
		{name: "client error is permanent", status: http.StatusForbidden, wantTemporary: false},
		{name: "server error is temporary", status: http.StatusBadGateway, wantTemporary: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// Error status with an innocuous body: status wins.
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"scrobbles":{}}`))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, "test-session")
			err := client.Scrobble(context.Background(), "a", "b", time.Now(), "")
			if err == nil {
				t.Fatal("expected error for non-2xx status")
			}

			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *HTTPError, got %T: %v", err, err)
			}
			if httpErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", httpErr.Status, tt.status)
			}
			if httpErr.Temporary() != tt.wantTemporary {
				t.Errorf("Temporary() = %v, want %v", httpErr.Temporary(), tt.wantTemporary)
			}
		})
	}
}

func TestScrobbleAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":9,"message":"Invalid session key"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "stale-session")
	err := client.Scrobble(context.Background(), "a", "b", time.Now(), "")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != ErrCodeInvalidSessionKey {
		t.Errorf("Code = %d, want %d", apiErr.Code, ErrCodeInvalidSessionKey)
	}
	if apiErr.Temporary() {
		t.Error("invalid session key should not be temporary")
	}
}

func TestGetTrackInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET request, got %s", r.Method)
		}
		q := r.URL.Query()
		if method := q.Get("method"); method != "track.getInfo" {
			t.Errorf("expected method track.getInfo, got %s", method)
		}
		if q.Get("api_sig") != "" {
			t.Error("track.getInfo must not be signed")
		}
		if q.Get("sk") != "" {
			t.Error("track.getInfo must not carry a session key")
		}

		w.Write([]byte(`{
			"track": {
				"name": "Cattails",
				"artist": {"name": "Big Thief"},
				"album": {
					"artist": "Big Thief",
					"title": "U.F.O.F.",
					"images": [
						{"size": "small", "url": "https://img.example/small.png"},
						{"size": "large", "url": "https://img.example/large.png"}
					]
				}
			}
		}`))
	}))
	defer server.Close()

	// No session key on purpose: lookups are unauthenticated.
	client := newTestClient(t, server.URL, "")
	info, err := client.GetTrackInfo(context.Background(), "Big Thief", "Cattails")
	if err != nil {
		t.Fatalf("GetTrackInfo() error = %v", err)
	}

	if info.Name != "Cattails" {
		t.Errorf("Name = %q, want %q", info.Name, "Cattails")
	}
	if info.Artist.Name != "Big Thief" {
		t.Errorf("Artist.Name = %q, want %q", info.Artist.Name, "Big Thief")
	}
	if got, want := info.LargeImageURL(), "https://img.example/large.png"; got != want {
		t.Errorf("LargeImageURL() = %q, want %q", got, want)
	}
}

func TestGetTrackInfoNoAlbum(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"track":{"name":"Cattails","artist":{"name":"Big Thief"}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")
	info, err := client.GetTrackInfo(context.Background(), "Big Thief", "Cattails")
	if err != nil {
		t.Fatalf("GetTrackInfo() error = %v", err)
	}
	if url := info.LargeImageURL(); url != "" {
		t.Errorf("LargeImageURL() = %q, want empty for trackless album", url)
	}
}

func TestGetTrackInfoMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>definitely not json</html>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")
	_, err := client.GetTrackInfo(context.Background(), "a", "b")

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected *ProtocolError, got %T: %v", err, err)
	}
	if IsRetryable(err) {
		t.Error("protocol errors must not be retryable")
	}
}

func TestGetMobileSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if method := r.FormValue("method"); method != "auth.getMobileSession" {
			t.Errorf("expected method auth.getMobileSession, got %s", method)
		}
		if username := r.FormValue("username"); username != "listener" {
			t.Errorf("expected username listener, got %s", username)
		}
		if password := r.FormValue("password"); password != "hunter2" {
			t.Errorf("expected password to be carried, got %s", password)
		}
		if r.FormValue("api_sig") == "" {
			t.Error("expected api_sig to be present")
		}

		w.Write([]byte(`{"session":{"name":"listener","key":"session-key-123","subscriber":0}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")
	session, err := client.GetMobileSession(context.Background(), "listener", "hunter2")
	if err != nil {
		t.Fatalf("GetMobileSession() error = %v", err)
	}
	if session.Key != "session-key-123" {
		t.Errorf("Key = %q, want %q", session.Key, "session-key-123")
	}
	if session.Name != "listener" {
		t.Errorf("Name = %q, want %q", session.Name, "listener")
	}
}

func TestGetMobileSessionMissingKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"session":{"name":"listener"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")
	_, err := client.GetMobileSession(context.Background(), "listener", "hunter2")

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected *ProtocolError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "session key") {
		t.Errorf("error should mention the missing session key, got %q", err)
	}
}
