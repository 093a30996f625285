// Package api serves the HTTP interface: job submission and polling,
// reference documents and news.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/minju-kim98/personal-ai-hub/internal/metrics"
	"github.com/minju-kim98/personal-ai-hub/internal/news"
	"github.com/minju-kim98/personal-ai-hub/job"
)

// Submitter starts jobs; *launcher.Launcher implements it.
type Submitter interface {
	Submit(ctx context.Context, kind job.Kind, userID string, input json.RawMessage) (*job.Job, error)
}

// JobReader is the read side of the job store.
type JobReader interface {
	Get(ctx context.Context, id string) (*job.Job, error)
	GetArtifact(ctx context.Context, jobID string) (*job.Artifact, error)
}

// ArticleLister lists stored news.
type ArticleLister interface {
	ListArticles(ctx context.Context, category string, limit int) ([]news.Article, error)
}

// NewsRunner triggers ingestion; *news.Scheduler implements it.
type NewsRunner interface {
	RunNow(ctx context.Context, name string) (*news.RunResult, error)
}

// Server wires HTTP handlers.
type Server struct {
	auth      *Authenticator
	submitter Submitter
	jobs      JobReader
	documents job.DocumentStore
	articles  ArticleLister
	news      NewsRunner
	ready     func(ctx context.Context) error
	logger    *slog.Logger

	refreshing atomic.Bool
	background sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithNews enables the news endpoints.
func WithNews(articles ArticleLister, runner NewsRunner) Option {
	return func(s *Server) {
		s.articles = articles
		s.news = runner
	}
}

// WithReadiness sets the check behind /healthz.
func WithReadiness(fn func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.ready = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New constructs the API server.
func New(auth *Authenticator, submitter Submitter, jobs JobReader, documents job.DocumentStore, opts ...Option) *Server {
	s := &Server{
		auth:      auth,
		submitter: submitter,
		jobs:      jobs,
		documents: documents,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Mount("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Route("/ai", func(r chi.Router) {
			r.Post("/{kind}", s.handleSubmit)
			r.Get("/sessions/{id}", s.handleSession)
			r.Get("/sessions/{id}/result", s.handleResult)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", s.handleCreateDocument)
			r.Get("/", s.handleListDocuments)
			r.Delete("/{id}", s.handleArchiveDocument)
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/", s.handleListNews)
			r.Post("/refresh", s.handleRefreshNews)
		})
	})
	return r
}

// Wait blocks until background work started by handlers finishes or ctx
// is done.
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) log(r *http.Request) *slog.Logger {
	return s.logger.With("request_id", middleware.GetReqID(r.Context()))
}
