package testsupport

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// TestAPIKey is the key FakeGGN accepts.
const TestAPIKey = "test-key"

// NotFoundReply is what FakeGGN answers for names without a canned reply.
const NotFoundReply = `{"status":"failure","error":"no groups found"}`

// FakeGGN serves canned torrentgroup search replies keyed by the exact name
// queried. Requests without the test API key are rejected with 401.
type FakeGGN struct {
	server *httptest.Server

	mu      sync.Mutex
	replies map[string]string
	queries []string
	status  int
}

// NewFakeGGN starts a fake tracker and registers its shutdown with t.
func NewFakeGGN(t testing.TB, replies map[string]string) *FakeGGN {
	t.Helper()
	f := &FakeGGN{replies: make(map[string]string, len(replies))}
	for name, body := range replies {
		f.replies[name] = body
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL to configure clients with.
func (f *FakeGGN) URL() string {
	return f.server.URL
}

// SetStatus makes every subsequent request fail with the given HTTP status.
// Zero restores normal replies.
func (f *FakeGGN) SetStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// Queries returns the names searched so far, in order.
func (f *FakeGGN) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *FakeGGN) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-API-Key") != TestAPIKey {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.URL.Path != "/api.php" || r.URL.Query().Get("request") != "torrentgroup" {
		http.NotFound(w, r)
		return
	}
	name := r.URL.Query().Get("name")

	f.mu.Lock()
	f.queries = append(f.queries, name)
	status := f.status
	body, ok := f.replies[name]
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok {
		body = NotFoundReply
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
