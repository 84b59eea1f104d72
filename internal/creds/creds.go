// Package creds resolves the full Last.fm credential set at startup:
// API key and username from the environment, password and API secret
// from the OS secret store, and a long-lived session token that is
// bootstrapped over the network on first run and cached thereafter.
package creds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/ample/internal/secrets"
	"github.com/jfmyers9/ample/pkg/lastfm"
)

// Environment variable names for the credentials that are not secret
// enough for the keyring.
const (
	EnvAPIKey   = "AMPLE_API_KEY"
	EnvUsername = "AMPLE_USERNAME"
)

// Credentials is the resolved credential set. Immutable after Resolve;
// shared read-only with the Last.fm client.
type Credentials struct {
	APIKey     string
	APISecret  string
	Username   string
	Password   string
	SessionKey string
}

// EnvError reports a missing or empty environment variable. Fatal: the
// resolver never retries configuration problems.
type EnvError struct {
	Var string
}

func (e *EnvError) Error() string {
	return fmt.Sprintf("creds: environment variable %s is not set", e.Var)
}

// Fatal provisioning errors. The messages tell the operator how to fix
// them, since the daemon cannot.
var (
	ErrMissingPassword  = errors.New("creds: password has not been set; run 'ample auth --password' to set it")
	ErrMissingAPISecret = errors.New("creds: API secret has not been set; run 'ample auth --secret' to set it")
)

// ExhaustedError is the terminal error after every bootstrap attempt
// failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Err      error // last retryable error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("creds: failed to reach Last.fm after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Resolver obtains Credentials once at startup. Its retry loop blocks
// the calling goroutine, which is acceptable only before the sampling
// loop starts.
type Resolver struct {
	Store      secrets.Store
	Logger     zerolog.Logger
	HTTPClient *http.Client  // optional, for the bootstrap call
	BaseURL    string        // optional API endpoint override, used for testing
	Backoff    time.Duration // delay between bootstrap attempts

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) bool
}

// NewResolver creates a Resolver with the fixed 1-second bootstrap
// backoff.
func NewResolver(store secrets.Store, logger zerolog.Logger) *Resolver {
	return &Resolver{
		Store:   store,
		Logger:  logger.With().Str("component", "creds").Logger(),
		Backoff: time.Second,
	}
}

// Resolve produces the credential set, bootstrapping a session token
// over the network when none is cached. Network failures during the
// bootstrap are retried up to attempts times with a fixed backoff;
// configuration problems (missing env vars or keyring entries) and
// protocol errors fail immediately.
func (r *Resolver) Resolve(ctx context.Context, attempts int) (*Credentials, error) {
	apiKey, err := requireEnv(EnvAPIKey)
	if err != nil {
		return nil, err
	}
	username, err := requireEnv(EnvUsername)
	if err != nil {
		return nil, err
	}

	password, err := r.getSecret(secrets.EntryPassword, ErrMissingPassword)
	if err != nil {
		return nil, err
	}
	apiSecret, err := r.getSecret(secrets.EntryAPISecret, ErrMissingAPISecret)
	if err != nil {
		return nil, err
	}

	creds := &Credentials{
		APIKey:    apiKey,
		APISecret: apiSecret,
		Username:  username,
		Password:  password,
	}

	sessionKey, err := r.Store.Get(secrets.EntrySessionToken)
	switch {
	case err == nil:
		r.Logger.Debug().Msg("Using cached session token")
		creds.SessionKey = sessionKey
		return creds, nil
	case errors.Is(err, secrets.ErrNotFound):
		// First run: bootstrap below.
	default:
		return nil, err
	}

	sessionKey, err = r.bootstrap(ctx, creds, attempts)
	if err != nil {
		return nil, err
	}

	if err := r.Store.Set(secrets.EntrySessionToken, sessionKey); err != nil {
		return nil, err
	}

	creds.SessionKey = sessionKey
	return creds, nil
}

// bootstrap exchanges the username/password for a session key, retrying
// transient failures with a fixed backoff.
func (r *Resolver) bootstrap(ctx context.Context, creds *Credentials, attempts int) (string, error) {
	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:     creds.APIKey,
		APISecret:  creds.APISecret,
		HTTPClient: r.HTTPClient,
		BaseURL:    r.BaseURL,
		Logger:     r.Logger,
	})
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		session, err := client.GetMobileSession(ctx, creds.Username, creds.Password)
		if err == nil {
			r.Logger.Info().Str("username", session.Name).Msg("Obtained Last.fm session")
			return session.Key, nil
		}
		if !lastfm.IsRetryable(err) {
			return "", err
		}

		lastErr = err
		r.Logger.Warn().Err(err).
			Int("attempt", attempt).
			Int("attempts", attempts).
			Msg("Session bootstrap failed, will retry")

		if attempt < attempts {
			if !r.doSleep(ctx, r.Backoff) {
				return "", ctx.Err()
			}
		}
	}

	return "", &ExhaustedError{Attempts: attempts, Err: lastErr}
}

func (r *Resolver) getSecret(name string, missing error) (string, error) {
	value, err := r.Store.Get(name)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return "", missing
		}
		return "", err
	}
	return value, nil
}

func (r *Resolver) doSleep(ctx context.Context, d time.Duration) bool {
	if r.sleep != nil {
		return r.sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func requireEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", &EnvError{Var: name}
	}
	return value, nil
}
