package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/hanoi/pkg/cache"
	"github.com/matzehuels/hanoi/pkg/hanoi"
	"github.com/matzehuels/hanoi/pkg/observability"
	"github.com/matzehuels/hanoi/pkg/pipeline"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := log.New(&bytes.Buffer{})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, nil, logger)
	defaults := pipeline.Options{Rings: 3, Pegs: 3, Source: 0, Destination: 2}
	return NewServer(runner, defaults, 10, logger).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
	if rec.Header().Get("Server") == "" {
		t.Error("Server header not set")
	}
}

func TestSolve(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name      string
		target    string
		wantRings int
		wantMoves uint64
		wantDest  int
	}{
		{"defaults", "/v1/solve", 3, 7, 2},
		{"rings", "/v1/solve?rings=5", 5, 31, 2},
		{"four pegs", "/v1/solve?rings=4&pegs=4&from=1&to=3", 4, 15, 3},
		{"zero rings", "/v1/solve?rings=0", 0, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			var res pipeline.Result
			if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
				t.Fatal(err)
			}
			if res.Rings != tt.wantRings || res.Moves != tt.wantMoves || res.Destination != tt.wantDest {
				t.Errorf("result = %d rings, %d moves, dest %d; want %d, %d, %d",
					res.Rings, res.Moves, res.Destination, tt.wantRings, tt.wantMoves, tt.wantDest)
			}
			if res.Moves != res.Expected {
				t.Errorf("Moves = %d, Expected = %d", res.Moves, res.Expected)
			}
		})
	}
}

func TestSolveCached(t *testing.T) {
	h := newTestServer(t)

	decode := func(rec *httptest.ResponseRecorder) pipeline.Result {
		t.Helper()
		var res pipeline.Result
		if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
			t.Fatal(err)
		}
		return res
	}

	first := decode(get(t, h, "/v1/solve?rings=6"))
	second := decode(get(t, h, "/v1/solve?rings=6"))
	if first.Cached || !second.Cached {
		t.Errorf("Cached = %v, %v; want false, true", first.Cached, second.Cached)
	}
	refreshed := decode(get(t, h, "/v1/solve?rings=6&refresh=true"))
	if refreshed.Cached {
		t.Error("refresh=true should bypass the cache")
	}
}

func TestSolveErrors(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"non-integer rings", "/v1/solve?rings=many", "INVALID_INPUT"},
		{"bad refresh", "/v1/solve?refresh=maybe", "INVALID_INPUT"},
		{"over server cap", "/v1/solve?rings=11", "INVALID_INPUT"},
		{"negative rings", "/v1/solve?rings=-1", "INVALID_INPUT"},
		{"two pegs", "/v1/solve?pegs=2&to=1", "INVALID_CONFIGURATION"},
		{"same peg", "/v1/solve?from=1&to=1", "INVALID_CONFIGURATION"},
		{"peg out of range", "/v1/solve?to=7", "INVALID_CONFIGURATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
			if body.Error.Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	rec := get(t, newTestServer(t), "/v1/unknown")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

type recordingHTTPHooks struct {
	mu       sync.Mutex
	requests []string
	statuses []int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)

	h := newTestServer(t)
	get(t, h, "/healthz")
	get(t, h, "/v1/solve?rings=abc")

	if len(hooks.requests) != 2 || hooks.requests[0] != "GET /healthz" {
		t.Errorf("requests = %v", hooks.requests)
	}
	if len(hooks.statuses) != 2 || hooks.statuses[0] != http.StatusOK || hooks.statuses[1] != http.StatusBadRequest {
		t.Errorf("statuses = %v, want [200 400]", hooks.statuses)
	}
}

func TestHTTPHooksSeeRecoveredPanic(t *testing.T) {
	t.Cleanup(observability.Reset)
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)

	s := NewServer(pipeline.NewRunner(nil, nil, log.New(&bytes.Buffer{})), pipeline.Options{}, 10, log.New(&bytes.Buffer{}))
	r := chi.NewRouter()
	s.use(r)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic(&hanoi.EmptyPegError{Peg: 0})
	})

	rec := get(t, r, "/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if len(hooks.statuses) != 1 || hooks.statuses[0] != http.StatusInternalServerError {
		t.Errorf("statuses = %v, want [500]", hooks.statuses)
	}
}
