package lastfm

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrNoSessionKey is returned when an operation requires authentication
// but no session key has been set.
var ErrNoSessionKey = errors.New("lastfm: session key required")

// HTTPError reports a request that completed with an error status.
//
// The client treats every status outside the 2xx range as a failure,
// regardless of the response body.
type HTTPError struct {
	Method string // API method, e.g. "track.scrobble"
	Status int    // HTTP status code
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("lastfm: %s returned HTTP %d", e.Method, e.Status)
}

// Temporary reports whether the failure is likely transient. Server-side
// statuses (5xx) are worth retrying; client errors are not.
func (e *HTTPError) Temporary() bool {
	return e.Status >= 500
}

// ProtocolError reports a response body that could not be interpreted
// (malformed JSON or an unexpected shape). Never retried.
type ProtocolError struct {
	Method string
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("lastfm: %s returned malformed response: %v", e.Method, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// APIError represents an error reported by the Last.fm service itself
// in an otherwise well-formed response body.
type APIError struct {
	Code    int    `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s", e.Code, e.Message)
}

// Common Last.fm error codes.
const (
	ErrCodeAuthenticationFailed = 4
	ErrCodeInvalidSessionKey    = 9
	ErrCodeInvalidAPIKey        = 10
	ErrCodeServiceOffline       = 11
	ErrCodeInvalidSignature     = 13
	ErrCodeTempUnavailable      = 16
	ErrCodeRateLimitExceeded    = 29
)

// Temporary reports whether the service error is transient.
func (e *APIError) Temporary() bool {
	switch e.Code {
	case ErrCodeServiceOffline, ErrCodeTempUnavailable:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err represents a transient failure that a
// caller with retry semantics may attempt again: network/transport
// errors, HTTP 5xx statuses and temporary service errors. Protocol
// errors and client-side statuses are permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}

	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
