package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/compare"
	"github.com/refera/fiish/internal/modules/funds"
	"github.com/refera/fiish/internal/modules/marketdata"
	"github.com/refera/fiish/internal/modules/news"
	"github.com/refera/fiish/internal/modules/portfolio"
	"github.com/refera/fiish/internal/modules/screening"
	"github.com/refera/fiish/internal/modules/snapshot"
	"github.com/refera/fiish/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Port    int
	DevMode bool
	Log     zerolog.Logger

	Snapshots  *snapshot.Service
	Scheduler  *scheduler.Scheduler
	Snapshot   *snapshot.Handler
	Funds      *funds.Handler
	Screening  *screening.Handler
	Compare    *compare.Handler
	Portfolio  *portfolio.Handler
	MarketData *marketdata.Handler
	News       *news.Handler
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    Config
	system *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		cfg:    cfg,
		system: NewSystemHandlers(cfg.Log, cfg.Snapshots, cfg.Scheduler),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// System
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.system.HandleSystemStatus)
		})

		// Background jobs
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/snapshot-refresh", s.system.HandleTriggerSnapshotRefresh)
		})

		// Dataset cache
		r.Route("/snapshot", func(r chi.Router) {
			r.Get("/", s.cfg.Snapshot.HandleGetSnapshot)
			r.Post("/ingest", s.cfg.Snapshot.HandleIngest)
			r.Post("/invalidate", s.cfg.Snapshot.HandleInvalidate)
		})

		// Funds
		r.Route("/funds", func(r chi.Router) {
			r.Get("/", s.cfg.Funds.HandleList)
			r.Route("/{ticker}", func(r chi.Router) {
				r.Get("/", s.cfg.Funds.HandleGet)
				r.Get("/history", s.cfg.MarketData.HandleHistory)
				r.Get("/dividends", s.cfg.MarketData.HandleDividends)
				r.Get("/news", s.cfg.News.HandleFundNews)
			})
		})

		// Screens
		r.Route("/screens", func(r chi.Router) {
			r.Get("/discount", s.cfg.Screening.HandleDiscount)
			r.Get("/largest", s.cfg.Screening.HandleLargest)
			r.Get("/entry-level", s.cfg.Screening.HandleEntryLevel)
			r.Post("/custom", s.cfg.Screening.HandleCustom)
		})

		// Head-to-head
		r.Post("/compare", s.cfg.Compare.HandleCompare)

		// Portfolio
		r.Post("/portfolio/review", s.cfg.Portfolio.HandleReview)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
