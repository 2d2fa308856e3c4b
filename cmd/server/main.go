package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/refera/fiish/internal/clients/brapi"
	"github.com/refera/fiish/internal/config"
	"github.com/refera/fiish/internal/database"
	"github.com/refera/fiish/internal/modules/compare"
	"github.com/refera/fiish/internal/modules/funds"
	"github.com/refera/fiish/internal/modules/marketdata"
	"github.com/refera/fiish/internal/modules/news"
	"github.com/refera/fiish/internal/modules/portfolio"
	"github.com/refera/fiish/internal/modules/screening"
	"github.com/refera/fiish/internal/modules/scoring"
	"github.com/refera/fiish/internal/modules/snapshot"
	"github.com/refera/fiish/internal/scheduler"
	"github.com/refera/fiish/internal/server"
	"github.com/refera/fiish/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting fiish")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Core services
	snapshots := snapshot.NewService(snapshot.NewRepository(db.Conn()), cfg.SnapshotTTL, cfg.DataDir, log)
	engine := scoring.NewEngine(cfg.Scoring, log)
	screener := screening.NewScreener(cfg.Screening, log)
	comparator := compare.NewComparator(cfg.Compare, log)
	portfolioSvc := portfolio.NewService(log)
	fundsSvc := funds.NewService(cfg.Funds, log)

	// External data providers
	quotes := brapi.NewClient(cfg.BrapiBaseURL, cfg.BrapiToken, log)
	marketSvc := marketdata.NewService(quotes, quotes, log)
	newsSvc := news.NewService(news.NewGoogleNewsClient("", log), cfg.NewsWindowDays, cfg.NewsLimit, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.RefreshSchedule, scheduler.NewSnapshotRefreshJob(snapshots, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		Log:     log,

		Snapshots:  snapshots,
		Scheduler:  sched,
		Snapshot:   snapshot.NewHandler(snapshots, log),
		Funds:      funds.NewHandler(snapshots, engine, fundsSvc, log),
		Screening:  screening.NewHandler(snapshots, engine, screener, log),
		Compare:    compare.NewHandler(snapshots, comparator, log),
		Portfolio:  portfolio.NewHandler(snapshots, engine, portfolioSvc, log),
		MarketData: marketdata.NewHandler(marketSvc, log),
		News:       news.NewHandler(newsSvc, log),
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
