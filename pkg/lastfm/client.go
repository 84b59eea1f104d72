package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the default Last.fm API endpoint.
const DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

// Config holds client configuration.
type Config struct {
	APIKey     string         // Required: Last.fm API key
	APISecret  string         // Required: Last.fm API secret
	SessionKey string         // Optional: session key for authenticated requests
	HTTPClient *http.Client   // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL    string         // Optional: API endpoint override, used for testing
	Logger     zerolog.Logger // Optional: defaults to a disabled logger
}

// Client is the entry point for Last.fm API operations.
//
// A Client is safe for concurrent use once configured; the credentials it
// holds are immutable after SetSessionKey.
type Client struct {
	apiKey     string
	apiSecret  string
	sessionKey string
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewClient creates a new Last.fm API client.
//
// Returns an error if required configuration (APIKey, APISecret) is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("lastfm: APIKey is required")
	}
	if cfg.APISecret == "" {
		return nil, fmt.Errorf("lastfm: APISecret is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		sessionKey: cfg.SessionKey,
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     cfg.Logger,
	}, nil
}

// SetSessionKey sets the session key for authenticated requests.
func (c *Client) SetSessionKey(key string) {
	c.sessionKey = key
}

// SessionKey returns the current session key.
func (c *Client) SessionKey() string {
	return c.sessionKey
}

// post executes a signed POST request for the given API method. The
// params map is copied before method and api_key are added, and the body
// is the canonical form encoding with api_sig appended.
func (c *Client) post(ctx context.Context, method string, params map[string]string) ([]byte, error) {
	reqParams := c.requestParams(method, params)
	sig := Sign(reqParams, c.apiSecret)
	body := buildForm(reqParams, sig)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("lastfm: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	return c.do(req, method)
}

// get executes an unsigned GET request for the given API method.
func (c *Client) get(ctx context.Context, method string, params map[string]string) ([]byte, error) {
	reqParams := c.requestParams(method, params)
	uri := c.baseURL + "?" + buildForm(reqParams, "")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("lastfm: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	return c.do(req, method)
}

const userAgent = "ample/1.0"

func (c *Client) requestParams(method string, params map[string]string) map[string]string {
	reqParams := make(map[string]string, len(params)+2)
	for k, v := range params {
		reqParams[k] = v
	}
	reqParams["method"] = method
	reqParams["api_key"] = c.apiKey
	return reqParams
}

// do executes the request and applies the shared response policy: any
// status outside 2xx is an *HTTPError even when the transport succeeded,
// and a well-formed error body is surfaced as *APIError.
func (c *Client) do(req *http.Request, method string) ([]byte, error) {
	c.logger.Debug().Str("method", method).Msg("Calling Last.fm")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lastfm: %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lastfm: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Prefer the service's own error report when the body carries one.
		var apiErr APIError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Code != 0 {
			return nil, &apiErr
		}
		return nil, &HTTPError{Method: method, Status: resp.StatusCode}
	}

	var apiErr APIError
	if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Code != 0 {
		return nil, &apiErr
	}

	c.logger.Debug().Str("method", method).Msg("Last.fm call succeeded")
	return body, nil
}
