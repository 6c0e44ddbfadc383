package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// FakeResponse is a scripted backend reply.
type FakeResponse struct {
	Status int
	Body   string
}

// RecordedRequest is what the fake backend saw.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          []byte
}

// FakeBackend is a scripted GameStore API for handler tests.
// Unscripted routes answer 404 with a JSON msg.
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]FakeResponse
	requests []RecordedRequest
}

// cleanupTB is satisfied by *testing.T and *testing.B.
type cleanupTB interface {
	TestingTB
	Cleanup(func())
}

// NewFakeBackend starts a fake backend that is closed when the test ends.
func NewFakeBackend(t cleanupTB) *FakeBackend {
	t.Helper()
	f := &FakeBackend{routes: make(map[string]FakeResponse)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// On scripts the reply for method and path.
func (f *FakeBackend) On(method, path string, status int, body string) *FakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = FakeResponse{Status: status, Body: body}
	return f
}

// WithLogin scripts POST /api/auth/login.
func (f *FakeBackend) WithLogin(status int, body string) *FakeBackend {
	return f.On(http.MethodPost, "/api/auth/login", status, body)
}

// WithRegister scripts POST /api/auth/register.
func (f *FakeBackend) WithRegister(status int, body string) *FakeBackend {
	return f.On(http.MethodPost, "/api/auth/register", status, body)
}

// WithVideojuegos scripts GET /api/videojuegos.
func (f *FakeBackend) WithVideojuegos(status int, body string) *FakeBackend {
	return f.On(http.MethodGet, "/api/videojuegos", status, body)
}

// WithProfile scripts GET /api/auth/profile.
func (f *FakeBackend) WithProfile(status int, body string) *FakeBackend {
	return f.On(http.MethodGet, "/api/auth/profile", status, body)
}

// WithHealth scripts GET /api/health.
func (f *FakeBackend) WithHealth(status int, body string) *FakeBackend {
	return f.On(http.MethodGet, "/api/health", status, body)
}

// Requests returns a copy of every request received so far.
func (f *FakeBackend) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Calls counts requests received for method and path.
func (f *FakeBackend) Calls(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})
	resp, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		resp = FakeResponse{Status: http.StatusNotFound, Body: `{"msg":"not found"}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}
