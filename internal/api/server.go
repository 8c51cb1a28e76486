// Package api serves tower solves over HTTP.
//
// Routes:
//
//	GET /healthz                                  liveness probe
//	GET /v1/solve?rings=&pegs=&from=&to=&refresh= solve and return a Result
//
// Errors are JSON objects of the form {"error": {"code": ..., "message": ...}}
// with a status derived from the error code.
package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/hanoi/pkg/buildinfo"
	errs "github.com/matzehuels/hanoi/pkg/errors"
	"github.com/matzehuels/hanoi/pkg/observability"
	"github.com/matzehuels/hanoi/pkg/pipeline"
)

// Server handles API requests with a shared runner. Each request solves its
// own puzzle, so handlers run concurrently.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	maxRings int
	logger   *log.Logger
}

// NewServer creates a server. defaults fills query parameters the client
// omits; maxRings caps the ring count a request may ask for.
func NewServer(runner *pipeline.Runner, defaults pipeline.Options, maxRings int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:   runner,
		defaults: defaults,
		maxRings: maxRings,
		logger:   logger,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.use(r)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/solve", s.handleSolve)
	})
	return r
}

// use installs the middleware stack. observe wraps Recoverer so a
// recovered panic is reported with its 500 status.
func (s *Server) use(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(serverHeader)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseSolve(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	res, err := s.runner.Solve(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseSolve builds solve options from query parameters over the defaults.
func (s *Server) parseSolve(q url.Values) (pipeline.Options, error) {
	opts := s.defaults
	opts.Observer = nil

	fields := []struct {
		name string
		dst  *int
	}{
		{"rings", &opts.Rings},
		{"pegs", &opts.Pegs},
		{"from", &opts.Source},
		{"to", &opts.Destination},
	}
	for _, f := range fields {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "%s must be an integer: %q", f.name, raw)
		}
		*f.dst = v
	}

	if raw := q.Get("refresh"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "refresh must be a boolean: %q", raw)
		}
		opts.Refresh = v
	}

	if opts.Rings > s.maxRings {
		return opts, errs.New(errs.ErrCodeInvalidInput, "rings must be at most %d on this server: %d", s.maxRings, opts.Rings)
	}
	return opts, nil
}

// =============================================================================
// Middleware
// =============================================================================

// observe reports requests and responses to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

func serverHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, errs.HTTPStatus(err), errorBody{Error: errorDetail{
		Code:    string(code),
		Message: errs.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
