package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/natemoovs/salesops-api/internal/config"
	"github.com/natemoovs/salesops-api/internal/database"
	"github.com/natemoovs/salesops-api/internal/http/handler"
	"github.com/natemoovs/salesops-api/internal/http/middleware"
	"github.com/natemoovs/salesops-api/internal/http/router"
	"github.com/natemoovs/salesops-api/internal/jobs"
	"github.com/natemoovs/salesops-api/internal/logger"
	"github.com/natemoovs/salesops-api/internal/repository"
	"github.com/natemoovs/salesops-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	dealRepo := repository.NewDealRepository(db)
	stageRepo := repository.NewStageRepository(db)
	transitionRepo := repository.NewStageTransitionRepository(db)
	ownerRepo := repository.NewOwnerRepository(db)

	// Initialize services
	dealService := service.NewDealService(dealRepo, transitionRepo, stageRepo, ownerRepo, log, db)
	stageService := service.NewStageService(stageRepo, log)
	ownerService := service.NewOwnerService(ownerRepo, log)
	analyticsService := service.NewAnalyticsService(
		dealRepo, stageRepo, transitionRepo, ownerRepo,
		cfg.Analytics.StallThresholdDays,
		cfg.Analytics.DefaultPeriod,
		log,
	)

	// Initialize middleware and handlers
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	dealHandler := handler.NewDealHandler(dealService, log)
	stageHandler := handler.NewStageHandler(stageService, log)
	ownerHandler := handler.NewOwnerHandler(ownerService, log)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, log)

	rt := router.NewRouter(cfg, log, db, rateLimiter, dealHandler, stageHandler, ownerHandler, analyticsHandler)

	// Background jobs
	scheduler := jobs.NewScheduler(log)
	if cfg.Analytics.SnapshotEnabled {
		snapshotJob := jobs.NewSnapshotJob(analyticsService, cfg.Analytics.DefaultPeriod, log, jobs.DefaultSnapshotTimeout)
		if err := scheduler.AddJob(jobs.SnapshotJobName, cfg.Analytics.SnapshotCron, snapshotJob.Run); err != nil {
			return fmt.Errorf("failed to schedule snapshot job: %w", err)
		}
	}
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in a goroutine so shutdown signals can be handled
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	<-scheduler.Stop().Done()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
