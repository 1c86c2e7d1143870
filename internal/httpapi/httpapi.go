// Package httpapi exposes the analysis pipeline over HTTP.
//
// The API accepts CFG documents, runs the DJ-graph pipeline on them, and
// stores the results as addressable records:
//
//	POST   /v1/analyses          run an analysis, store and return the record
//	GET    /v1/analyses          list stored analyses (newest first)
//	GET    /v1/analyses/{id}     fetch a stored record
//	DELETE /v1/analyses/{id}     remove a stored record
//	GET    /v1/analyses/{id}/dot DOT rendering of the stored result
//	GET    /healthz              liveness
//
// Error responses carry machine-readable codes from pkg/xerrors:
//
//	{"error": {"code": "NOT_FOUND_ANALYSIS", "message": "..."}}
package httpapi

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flowlens/flowlens/pkg/observability"
	"github.com/flowlens/flowlens/pkg/pipeline"
	"github.com/flowlens/flowlens/pkg/store"
)

// Server holds the dependencies the handlers need.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// NewServer creates the API server around a pipeline runner and a record
// store. A nil logger falls back to the default logger.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the chi router with the standard middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyses", s.handleCreateAnalysis)
		r.Get("/analyses", s.handleListAnalyses)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
		r.Delete("/analyses/{id}", s.handleDeleteAnalysis)
		r.Get("/analyses/{id}/dot", s.handleGetAnalysisDOT)
	})

	return r
}

// logRequests logs each request with its status and duration, and feeds
// the server observability hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
