package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/regprofiler/internal/config"
	"github.com/dgallion1/regprofiler/internal/pathstore"
	"github.com/dgallion1/regprofiler/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProfileStore lists and deletes published rule sets.
type ProfileStore interface {
	ListProfiles(ctx context.Context, limit int) ([]pathstore.ProfileMeta, error)
	DeleteProfile(ctx context.Context, docID string) error
}

// Server is the HTTP API server for regprofiler.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	profiles     ProfileStore
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. profiles may be nil
// when publishing is disabled.
func NewServer(orch *pipeline.Orchestrator, profiles ProfileStore, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		profiles:     profiles,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.ProfilerAPIKey, s.log))

		r.Post("/api/ingest", s.handleIngest)
		r.Post("/api/ingest/batch", s.handleBatchIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)
		r.Get("/api/ingest/{jobID}/rules", s.handleGetRules)
		r.Put("/api/ingest/{jobID}/rules", s.handlePutRules)
		r.Get("/api/ingest/{jobID}/export", s.handleExportRules)

		r.Get("/api/stats/runs", s.handleRunStats)

		r.Get("/api/profiles", s.handleListProfiles)
		r.Delete("/api/profiles/{docID}", s.handleDeleteProfile)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
