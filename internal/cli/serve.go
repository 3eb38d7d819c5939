package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/recall/internal/api"
	"github.com/vytor/recall/internal/config"
	"github.com/vytor/recall/internal/db"
	"github.com/vytor/recall/internal/decay"
	"github.com/vytor/recall/internal/jobs"
	"github.com/vytor/recall/internal/repository/sqlite"
	"github.com/vytor/recall/internal/services"
	"github.com/vytor/recall/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func retryPolicy(cfg config.Config) sqlite.RetryPolicy {
	policy := sqlite.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.RetryMaxAttempts
	policy.InitialInterval = cfg.RetryInitialInterval
	return policy
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := setupLogger(cfg)

	log.Info("recall %s starting", Version)
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("worker_count=%d", cfg.WorkerCount)
	log.Debug("queue_size=%d", cfg.QueueSize)
	log.Debug("retry_max_attempts=%d", cfg.RetryMaxAttempts)
	log.Debug("retry_initial_interval=%v", cfg.RetryInitialInterval)
	log.Debug("chapter_pace_days=%v", cfg.ChapterPaceDays)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	policy := retryPolicy(cfg)
	learnerRepo := sqlite.NewLearnerRepository(database.DB, policy)
	masteryRepo := sqlite.NewMasteryRepository(database.DB, policy)
	snapshotRepo := sqlite.NewReviewSnapshotRepository(database.DB, policy)
	engine := decay.New(decay.WithChapterPace(cfg.ChapterPaceDays))

	reviewService := services.NewReviewService(masteryRepo, learnerRepo, snapshotRepo, engine, cfg.ReviewLimit)
	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)
	jobQueue := jobs.NewWorkerQueue(pool, reviewService)

	srv := &api.Server{
		DB:             database,
		LearnerService: services.NewLearnerService(learnerRepo, jobQueue),
		MasteryService: services.NewMasteryService(masteryRepo, learnerRepo, engine, jobQueue),
		ReviewService:  reviewService,
		Jobs:           jobQueue,
		RequestTimeout: 20 * time.Second,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	pool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case sig := <-stop:
		log.Info("received signal %v, initiating graceful shutdown", sig)
	case err := <-serveErr:
		if err != nil {
			log.Error("HTTP server error: %v", err)
			pool.Stop()
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	cancel()
	pool.Stop()

	log.Info("recall stopped")
	return nil
}
