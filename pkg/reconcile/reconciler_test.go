package reconcile

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/canvas2notion/notion-sync/internal/testutil"
	"github.com/canvas2notion/notion-sync/pkg/client"
	"github.com/canvas2notion/notion-sync/pkg/storage"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	fail bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(ctx context.Context, defaults map[string]string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, storage.ErrUnavailable
	}
	out := make(map[string]string, len(defaults))
	for k, def := range defaults {
		if v, ok := s.data[k]; ok {
			out[k] = v
			continue
		}
		out[k] = def
	}
	return out, nil
}

func (s *memStore) Set(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return storage.ErrUnavailable
	}
	for k, v := range values {
		s.data[k] = v
	}
	return nil
}

func (s *memStore) value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

type recordingUserNotifier struct {
	mu            sync.Mutex
	misconfigured []string
	creationErrs  []int
}

func (n *recordingUserNotifier) Misconfigured(reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.misconfigured = append(n.misconfigured, reason)
}

func (n *recordingUserNotifier) CreationErrors(count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.creationErrs = append(n.creationErrs, count)
}

// Fixed reference time; "a" is due after it, "b" before it.
var (
	testNow    = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	savedTwo   = `{"COMP101": [
		{"name": "A", "course": "COMP101", "url": "https://canvas/a", "available": "2025-12-20T10:00:00Z", "due": "2026-02-01T10:00:00Z"},
		{"name": "B", "course": "COMP101", "url": "https://canvas/b", "available": "2025-11-01T10:00:00Z", "due": "2025-12-01T10:00:00Z"}
	]}`
	remoteHasA = `[{"object": "page", "id": "r1", "properties": {
		"Name": {"type": "title", "title": [{"plain_text": "A"}]},
		"Course": {"type": "select", "select": {"name": "COMP101"}},
		"URL": {"type": "url", "url": "https://canvas/a"}
	}}]`
)

func newTestReconciler(t *testing.T, mock *testutil.MockNotion, store storage.Store, notifier UserNotifier) *Reconciler {
	t.Helper()
	r := New(store, client.NewRegistry(nil), Config{
		Client:     client.Config{Auth: "secret_test", BaseURL: mock.URL()},
		DatabaseID: "db-1",
		Properties: testProperties(),
	}, notifier)
	r.now = func() time.Time { return testNow }
	return r
}

func TestRunCreatesNothingWhenRemoteHasAssignment(t *testing.T) {
	mock := testutil.NewMockNotion()
	defer mock.Close()
	mock.SetHandler("/v1/databases/db-1/query", testutil.NewPaginatedHandler([]string{remoteHasA}))

	store := newMemStore()
	store.data["savedAssignments"] = savedTwo

	r := newTestReconciler(t, mock, store, &recordingUserNotifier{})

	created := r.Run(context.Background())
	if len(created) != 0 {
		t.Errorf("Expected no creations, got %d", len(created))
	}
	if got := mock.GetPathCount("/v1/pages"); got != 0 {
		t.Errorf("Expected no create-page requests, got %d", got)
	}
}

func TestRunCreatesMissingAssignment(t *testing.T) {
	mock := testutil.NewMockNotion()
	defer mock.Close()
	mock.SetHandler("/v1/databases/db-1/query", testutil.NewPaginatedHandler([]string{`[]`}))
	mock.SetResponse("/v1/pages", testutil.NewPageResponse("page-a"))

	store := newMemStore()
	store.data["savedAssignments"] = savedTwo

	notifier := &recordingUserNotifier{}
	r := newTestReconciler(t, mock, store, notifier)

	created := r.Run(context.Background())

	// Only "A" qualifies: "B" is already past due.
	if len(created) != 1 || created[0].URL != "https://canvas/a" {
		t.Fatalf("Expected exactly assignment A created, got %+v", created)
	}
	if got := mock.GetPathCount("/v1/pages"); got != 1 {
		t.Errorf("Expected one create-page request, got %d", got)
	}
	if len(notifier.creationErrs) != 0 {
		t.Errorf("Expected no error alert, got %v", notifier.creationErrs)
	}

	if last := store.value("lastCreated"); !strings.Contains(last, "https://canvas/a") {
		t.Errorf("Expected run result persisted, got %q", last)
	}
	if store.value("lastSync") == "" {
		t.Error("Expected sync timestamp persisted")
	}
}

func TestRunTreatsFailedQueryAsAllNew(t *testing.T) {
	mock := testutil.NewMockNotion()
	defer mock.Close()
	mock.SetResponse("/v1/databases/db-1/query", testutil.NewErrorResponse(500, "internal_server_error", "something went wrong"))
	mock.SetResponse("/v1/pages", testutil.NewPageResponse("page-a"))

	store := newMemStore()
	store.data["savedAssignments"] = savedTwo

	r := newTestReconciler(t, mock, store, &recordingUserNotifier{})

	created := r.Run(context.Background())
	if len(created) != 1 {
		t.Errorf("Expected the due assignment created despite query failure, got %d", len(created))
	}
}

func TestRunAbortsOnMissingCredential(t *testing.T) {
	mock := testutil.NewMockNotion()
	defer mock.Close()

	notifier := &recordingUserNotifier{}
	r := New(newMemStore(), client.NewRegistry(nil), Config{
		Client:     client.Config{BaseURL: mock.URL()},
		DatabaseID: "db-1",
		Properties: testProperties(),
	}, notifier)

	if created := r.Run(context.Background()); created != nil {
		t.Errorf("Expected nil result on misconfiguration, got %v", created)
	}
	if len(notifier.misconfigured) != 1 {
		t.Errorf("Expected one misconfiguration alert, got %v", notifier.misconfigured)
	}
	if mock.GetRequestCount() != 0 {
		t.Errorf("Expected no requests, got %d", mock.GetRequestCount())
	}
}

func TestRunAbortsOnMissingDatabase(t *testing.T) {
	notifier := &recordingUserNotifier{}
	r := New(newMemStore(), client.NewRegistry(nil), Config{
		Client:     client.Config{Auth: "secret_test"},
		Properties: testProperties(),
	}, notifier)

	if created := r.Run(context.Background()); created != nil {
		t.Errorf("Expected nil result on misconfiguration, got %v", created)
	}
	if len(notifier.misconfigured) != 1 {
		t.Errorf("Expected one misconfiguration alert, got %v", notifier.misconfigured)
	}
}

func TestRunAggregatesCreationFailures(t *testing.T) {
	mock := testutil.NewMockNotion()
	defer mock.Close()
	mock.SetHandler("/v1/databases/db-1/query", testutil.NewPaginatedHandler([]string{`[]`}))
	mock.SetResponse("/v1/pages", testutil.NewErrorResponse(400, "validation_error", "body failed validation"))

	store := newMemStore()
	store.data["savedAssignments"] = savedTwo

	notifier := &recordingUserNotifier{}
	r := newTestReconciler(t, mock, store, notifier)

	created := r.Run(context.Background())
	if len(created) != 0 {
		t.Errorf("Expected no creations, got %d", len(created))
	}
	if len(notifier.creationErrs) != 1 || notifier.creationErrs[0] != 1 {
		t.Errorf("Expected one aggregate alert for one failure, got %v", notifier.creationErrs)
	}
}

func TestRunUnreadableStoreYieldsNoWork(t *testing.T) {
	mock := testutil.NewMockNotion()
	defer mock.Close()
	mock.SetHandler("/v1/databases/db-1/query", testutil.NewPaginatedHandler([]string{`[]`}))

	store := newMemStore()
	store.fail = true

	r := newTestReconciler(t, mock, store, &recordingUserNotifier{})

	created := r.Run(context.Background())
	if len(created) != 0 {
		t.Errorf("Expected no creations with unreadable store, got %d", len(created))
	}
	if got := mock.GetPathCount("/v1/pages"); got != 0 {
		t.Errorf("Expected no create-page requests, got %d", got)
	}
}
