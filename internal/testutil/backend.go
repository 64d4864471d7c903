// Package testutil provides a scripted fake of the music hub API for tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Response is one scripted reply. Raw wins over Body when set.
type Response struct {
	Status int
	Body   any
	Raw    string
}

// Request is what the backend recorded for one call.
type Request struct {
	Method        string
	Path          string
	ISRC          string
	Accept        string
	ContentType   string
	CorrelationID string
	TraceParent   string
}

// Backend is an httptest server speaking the registration and recent-tracks
// endpoints. Responses are queued per endpoint; the last one repeats.
type Backend struct {
	t      testing.TB
	server *httptest.Server

	mu       sync.Mutex
	register []Response
	recent   []Response
	requests []Request
	hold     chan struct{}
}

// NewBackend starts a backend that accepts every registration with an empty
// body and serves an empty recent list until told otherwise.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		t:        t,
		register: []Response{{Status: http.StatusAccepted}},
		recent:   []Response{{Status: http.StatusOK, Body: []any{}}},
	}

	r := chi.NewRouter()
	r.Post("/api/v1/producers", b.handleRegister)
	r.Get("/api/v1/tracks/recent", b.handleRecent)

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

// URL is the base URL to hand to client.New.
func (b *Backend) URL() string {
	return b.server.URL
}

// Close stops the server so later calls fail at the transport level.
func (b *Backend) Close() {
	b.server.Close()
}

// QueueRegister replaces the scripted replies for POST /api/v1/producers.
func (b *Backend) QueueRegister(responses ...Response) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.register = append(b.register[:0:0], responses...)
	return b
}

// QueueRecent replaces the scripted replies for GET /api/v1/tracks/recent.
func (b *Backend) QueueRecent(responses ...Response) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recent = append(b.recent[:0:0], responses...)
	return b
}

// Hold makes every handler block until the returned release func is called.
// Held requests are released at test cleanup at the latest.
func (b *Backend) Hold() (release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan struct{})
	b.hold = ch
	var once sync.Once
	release = func() {
		once.Do(func() { close(ch) })
		b.mu.Lock()
		if b.hold == ch {
			b.hold = nil
		}
		b.mu.Unlock()
	}
	b.t.Cleanup(release)
	return release
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Registrations returns the ISRCs posted so far, in order.
func (b *Backend) Registrations() []string {
	var codes []string
	for _, r := range b.Requests() {
		if r.Method == http.MethodPost {
			codes = append(codes, r.ISRC)
		}
	}
	return codes
}

// RecentCalls counts GET requests on the recent endpoint.
func (b *Backend) RecentCalls() int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == http.MethodGet {
			n++
		}
	}
	return n
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	var payload struct {
		ISRC string `json:"isrc"`
	}
	_ = json.Unmarshal(body, &payload)

	b.record(r, payload.ISRC)
	b.wait()
	b.reply(w, b.next(&b.register))
}

func (b *Backend) handleRecent(w http.ResponseWriter, r *http.Request) {
	b.record(r, "")
	b.wait()
	b.reply(w, b.next(&b.recent))
}

func (b *Backend) record(r *http.Request, code string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		ISRC:          code,
		Accept:        r.Header.Get("Accept"),
		ContentType:   r.Header.Get("Content-Type"),
		CorrelationID: r.Header.Get("X-Correlation-ID"),
		TraceParent:   r.Header.Get("traceparent"),
	})
}

func (b *Backend) wait() {
	b.mu.Lock()
	hold := b.hold
	b.mu.Unlock()
	if hold != nil {
		<-hold
	}
}

func (b *Backend) next(queue *[]Response) Response {
	b.mu.Lock()
	defer b.mu.Unlock()
	resp := (*queue)[0]
	if len(*queue) > 1 {
		*queue = (*queue)[1:]
	}
	return resp
}

func (b *Backend) reply(w http.ResponseWriter, resp Response) {
	switch {
	case resp.Raw != "":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.Status)
		_, _ = io.WriteString(w, resp.Raw)
	case resp.Body != nil:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.Status)
		_ = json.NewEncoder(w).Encode(resp.Body)
	default:
		w.WriteHeader(resp.Status)
	}
}
