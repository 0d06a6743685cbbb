// Package server exposes the engine over HTTP: discovery runs, the
// topic bank, generation endpoints, and the output folders.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/user/pluma/internal/config"
	"github.com/user/pluma/internal/discovery"
	"github.com/user/pluma/internal/generate"
	"github.com/user/pluma/internal/logger"
	"github.com/user/pluma/internal/topics"
)

type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	cfg        *config.Config
	eng        *discovery.Engine
	bank       *topics.Bank
	svc        *generate.Service
	searcher   discovery.Searcher
	log        *slog.Logger
}

func New(cfg *config.Config, eng *discovery.Engine, bank *topics.Bank, svc *generate.Service, searcher discovery.Searcher) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		cfg:      cfg,
		eng:      eng,
		bank:     bank,
		svc:      svc,
		searcher: searcher,
		log:      logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		// Generation calls can hold a request open for a while.
		WriteTimeout: 5 * time.Minute,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	// Generous: generation endpoints hold a request open for the whole
	// gateway call.
	s.router.Use(middleware.Timeout(5 * time.Minute))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/formats", s.handleFormats)

		r.Route("/topics", func(r chi.Router) {
			r.Get("/", s.handleListTopics)
			r.Post("/", s.handleAddTopic)
			r.Post("/{id}/expand", s.handleExpandTopic)
			r.Post("/{id}/angles", s.handleTopicAngles)
			r.Delete("/{id}", s.handleDeleteTopic)
		})

		r.Route("/generate", func(r chi.Router) {
			r.Post("/autonomous", s.handleGenerateAutonomous)
			r.Post("/from-discovery", s.handleGenerateFromDiscovery)
			r.Post("/draft", s.handlePolishDraft)
		})

		r.Route("/output", func(r chi.Router) {
			r.Get("/", s.handleListOutput)
			r.Get("/{folder}/{filename}", s.handleGetOutput)
			r.Post("/approve/{filename}", s.handleApproveOutput)
		})

		r.Route("/discover", func(r chi.Router) {
			r.Get("/status", s.handleDiscoverStatus)
			r.Post("/search", s.handleDiscoverSearch)
			r.Post("/feed", s.handleDiscoverFeed)
			r.Get("/results", s.handleDiscoverResults)
			r.Post("/{id}/import", s.handleImportDiscovery)
			r.Delete("/{id}", s.handleDismissDiscovery)
		})
	})

	// Static UI, when a public dir is present.
	if info, err := os.Stat(s.cfg.PublicDir); err == nil && info.IsDir() {
		s.router.Handle("/*", http.FileServer(http.Dir(s.cfg.PublicDir)))
	}
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the mux for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}
