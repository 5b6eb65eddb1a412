// Package server exposes the build endpoint over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fogsmith/internal/build"
)

// Defaults mirror the original page: a generic request at the lowest tier.
const (
	defaultRequest = "heal build"
	defaultBalance = "Low"

	// buildTimeout bounds one whole build request, including artifact
	// uploads and processing polls.
	buildTimeout = 5 * time.Minute
)

// Orchestrator is the build capability the server fronts.
type Orchestrator interface {
	RequestBuild(ctx context.Context, request string, balance build.Balance) build.Result
}

// Server routes HTTP requests to the build orchestrator.
type Server struct {
	orch   Orchestrator
	router chi.Router
	log    *zap.Logger
}

// New creates the HTTP server.
func New(orch Orchestrator, log *zap.Logger) *Server {
	s := &Server{
		orch:   orch,
		router: chi.NewRouter(),
		log:    log,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/build", s.handleBuild)
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// handleBuild runs one build request. The result is always a 200 with a
// result object; failures travel in its error field.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	request := r.URL.Query().Get("request")
	if request == "" {
		request = defaultRequest
	}
	balanceParam := r.URL.Query().Get("balance")
	if balanceParam == "" {
		balanceParam = defaultBalance
	}

	ctx, cancel := context.WithTimeout(r.Context(), buildTimeout)
	defer cancel()

	result := s.orch.RequestBuild(ctx, request, build.ParseBalance(balanceParam))
	respondJSON(w, http.StatusOK, result)
}

// requestLogger correlates each request's log lines with a generated id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Info("request",
			zap.String("id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
