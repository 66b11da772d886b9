package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"medialog/internal/api"
	"medialog/internal/config"
	"medialog/internal/controllers"
	"medialog/internal/models"
	"medialog/internal/scheduler"
	"medialog/internal/services/auth"
	"medialog/internal/services/jikan"
	"medialog/internal/services/rawg"
	"medialog/internal/services/tmdb"
	"medialog/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Medialog")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize services
	authSvc, err := auth.NewService(cfg, db, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}
	logger.Info("Auth service initialized")

	tmdbClient, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	jikanClient := jikan.NewClient(logger)
	logger.Info("Jikan client initialized")

	rawgClient, err := rawg.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize RAWG client: %w", err)
	}
	logger.Info("RAWG client initialized")

	// 5. Initialize controllers
	listCtrl := controllers.NewListController(db, logger)
	trendingCtrl := controllers.NewTrendingController(db, time.Duration(cfg.TrendingRefreshMinutes)*time.Minute, logger)
	searchCtrl := controllers.NewSearchController(tmdbClient, jikanClient, rawgClient, time.Duration(cfg.SearchCacheMinutes)*time.Minute, logger)
	logger.Info("Controllers initialized")

	// 6. Initialize scheduler
	sched := scheduler.NewScheduler(trendingCtrl, db, cfg.BackupDir, cfg.TrendingRefreshMinutes, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, db, authSvc, listCtrl, trendingCtrl, searchCtrl, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Medialog is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Medialog stopped")
	return nil
}
