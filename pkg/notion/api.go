// Package notion provides the Notion REST transport, the request and response
// types for the endpoints this project uses, and title resolution helpers.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/canvas2notion/notion-sync/pkg/logging"
)

const (
	// DefaultBaseURL is the public Notion API origin.
	DefaultBaseURL = "https://api.notion.com"

	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"

	defaultTimeout = 30 * time.Second
)

// API issues raw HTTP calls against the Notion REST API. It knows nothing
// about rate limiting or pagination; that lives in pkg/client.
type API struct {
	httpClient *http.Client
	baseURL    string
	auth       string
	version    string
	logger     zerolog.Logger
}

// Options configures the transport. Zero values fall back to defaults.
type Options struct {
	// Auth is the integration secret. Required.
	Auth string

	// BaseURL overrides the API origin (for tests).
	BaseURL string

	// Version overrides the Notion-Version header.
	Version string

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration
}

// NewAPI creates a transport for one credential.
func NewAPI(opts Options) *API {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &API{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		auth:       opts.Auth,
		version:    opts.Version,
		logger: logging.NewLogger("notion-api").With().
			Str("credential", FingerprintCredential(opts.Auth)).Logger(),
	}
}

// Call performs one HTTP request and decodes the JSON response into out.
// Non-2xx responses with a Notion error body are returned as *APIError.
func (a *API) Call(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.auth)
	req.Header.Set("Notion-Version", a.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	a.logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("Executing Notion request")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return a.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError maps a non-2xx response to an APIError, preserving the
// machine-readable code and the response headers.
func (a *API) decodeError(resp *http.Response) error {
	apiErr := &APIError{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
	}

	var body struct {
		Object  string `json:"object"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		return apiErr
	}

	// No decodable Notion error body: keep the status, mark the code unknown
	// so callers treat it as non-retryable.
	apiErr.Code = "unknown"
	apiErr.Message = resp.Status
	return apiErr
}

// FingerprintCredential shortens a credential for log output. The full secret
// must never be logged.
func FingerprintCredential(auth string) string {
	if len(auth) <= 4 {
		return fmt.Sprintf("****(%d)", len(auth))
	}
	return fmt.Sprintf("%s****(%d)", auth[:4], len(auth))
}
