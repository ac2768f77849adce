// Package testutil provides testing utilities for the Notion sync adapter.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock Notion endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockNotion is a configurable mock Notion API server for testing.
type MockNotion struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	PathCounts        map[string]int
	LastRequestHeader http.Header
}

// NewMockNotion creates a new mock Notion server.
func NewMockNotion() *MockNotion {
	mock := &MockNotion{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		PathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.PathCounts[r.URL.Path]++
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockNotion) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockNotion) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockNotion) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PathCounts = make(map[string]int)
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockNotion) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockNotion) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockNotion) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPathCount returns the number of requests made to one path.
func (m *MockNotion) GetPathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PathCounts[path]
}

// defaultHandler answers unconfigured paths with the bot user document.
func (m *MockNotion) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"object": "user", "id": "mock-bot", "name": "Mock Integration", "type": "bot"}`))
}

// NewUserResponse creates a 200 OK bot user response.
func NewUserResponse(name string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf(`{"object": "user", "id": "user-1", "name": %q, "type": "bot"}`, name),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewRateLimitedResponse creates a 429 rate_limited response carrying a
// Retry-After header.
func NewRateLimitedResponse(retryAfterSeconds int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"object": "error", "status": 429, "code": "rate_limited", "message": "Rate limited"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Retry-After":  fmt.Sprintf("%d", retryAfterSeconds),
		},
	}
}

// NewErrorResponse creates an API error response with the given status and
// code.
func NewErrorResponse(status int, code, message string) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       fmt.Sprintf(`{"object": "error", "status": %d, "code": %q, "message": %q}`, status, code, message),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewPageResponse creates a 200 OK created-page response.
func NewPageResponse(id string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf(`{"object": "page", "id": %q}`, id),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewSequenceHandler serves the given responses in order, one per request.
// The last response repeats once the sequence is exhausted.
func NewSequenceHandler(responses ...MockResponse) func(w http.ResponseWriter, r *http.Request) {
	var mu sync.Mutex
	next := 0
	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := responses[next]
		if next < len(responses)-1 {
			next++
		}
		mu.Unlock()

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}
}

// NewPaginatedHandler serves a cursor-paginated list endpoint. Each entry of
// pages is the JSON array of results for that page. The handler reads the
// request's start_cursor to pick the page; cursors are "cursor-1",
// "cursor-2" and so on.
func NewPaginatedHandler(pages []string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StartCursor string `json:"start_cursor"`
		}
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&req)
		}

		page := 0
		if req.StartCursor != "" {
			fmt.Sscanf(req.StartCursor, "cursor-%d", &page)
		}
		if page >= len(pages) {
			page = len(pages) - 1
		}

		hasMore := page < len(pages)-1
		nextCursor := "null"
		if hasMore {
			nextCursor = fmt.Sprintf("%q", fmt.Sprintf("cursor-%d", page+1))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"object": "list", "results": %s, "has_more": %t, "next_cursor": %s}`,
			pages[page], hasMore, nextCursor)
	}
}
