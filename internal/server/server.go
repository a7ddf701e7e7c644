// Package server exposes the curation and briefing pipelines over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"boardbrief/internal/brief"
	"boardbrief/internal/core"
	"boardbrief/internal/departments"
	"boardbrief/internal/logger"
	"boardbrief/internal/mailbox"
	"boardbrief/internal/news"
	"boardbrief/internal/tailor"
)

// NewsFetcher is the slice of the news fetcher the server depends on.
type NewsFetcher interface {
	FetchAll(ctx context.Context, queries []string, since *time.Time) news.FetchResult
}

// BriefAnalyzer runs the analysis pipeline over a curated batch.
type BriefAnalyzer interface {
	Analyze(ctx context.Context, articles []core.RawArticle, filters core.FilterState, length core.SummaryLength, strategyContext string) (*brief.Result, error)
}

// Distributor tailors items per department, fans out approved items,
// and screens returned proposals.
type Distributor interface {
	Tailor(ctx context.Context, item core.BriefItem, deptID departments.ID, actions []string, strategyContext string) (string, error)
	Distribute(ctx context.Context, item core.BriefItem, strategyContext string) []tailor.Dispatch
	ReviewProposal(ctx context.Context, in tailor.ProposalInput) (tailor.Review, error)
}

// Config holds HTTP server settings.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	fetcher    NewsFetcher
	analyzer   BriefAnalyzer
	tailorer   Distributor
	store      *mailbox.Store
	log        *slog.Logger
}

// New creates a new HTTP server instance
func New(fetcher NewsFetcher, analyzer BriefAnalyzer, tailorer Distributor, store *mailbox.Store, cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		fetcher:  fetcher,
		analyzer: analyzer,
		tailorer: tailorer,
		store:    store,
		log:      logger.Get(),
	}

	s.setupMiddleware(cfg)
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware(cfg Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Analysis calls can legitimately take a while.
	s.router.Use(middleware.Timeout(120 * time.Second))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/curate", s.handleCurate)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/tailor", s.handleTailor)
		r.Post("/strategy", s.handleStrategyUpload)
		r.Post("/approve", s.handleApprove)

		r.Route("/departments", func(r chi.Router) {
			r.Get("/", s.handleListDepartments)
			r.Get("/{id}/inbox", s.handleDepartmentInbox)
			r.Post("/{id}/proposals", s.handleSubmitProposal)
		})

		r.Get("/proposals", s.handleListProposals)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server gracefully...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}

// Router returns the chi router instance (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}
