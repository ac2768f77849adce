package notion

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Machine-readable Notion API error codes relevant to request handling.
// Only rate_limited changes behavior; every other code is non-retryable.
const (
	CodeRateLimited  = "rate_limited"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "object_not_found"
	CodeValidation   = "validation_error"
)

// APIError is a Notion-coded error response. It carries the machine-readable
// code and the response headers so callers can read Retry-After.
type APIError struct {
	Status  int
	Code    string
	Message string
	Header  http.Header
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("notion %s error (status %d): %s", e.Code, e.Status, e.Message)
}

// RetryAfter returns the cooldown advertised by a rate-limited response, in
// whole seconds. Returns 0 when the header is absent or malformed.
func (e *APIError) RetryAfter() int {
	if e.Header == nil {
		return 0
	}
	seconds, err := strconv.Atoi(e.Header.Get("Retry-After"))
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}

// IsRateLimited reports whether the error is a Notion rate-limit signal.
func (e *APIError) IsRateLimited() bool {
	return e.Code == CodeRateLimited
}

// AsAPIError extracts an APIError, distinguishing Notion-coded failures from
// unknown transport errors.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
