package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redlabs-sc/telegram-media-fetch-bot/config"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/admission"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/extract"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/health"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/job"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/logger"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/metrics"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/telegram"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/workspace"
	"go.uber.org/zap"
)

func main() {
	// Fatal paths return instead of exiting directly so deferred cleanup
	// (logger sync, admission store close) still runs.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// 2. Initialize logger
	log, err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting media fetch bot",
		zap.String("download_dir", cfg.DownloadDir),
		zap.Int64("max_file_mb", cfg.MaxFileMB))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Workspace manager with crash recovery: before any job starts,
	// every leftover job directory belongs to a dead process.
	workspaces := workspace.NewManager(cfg.DownloadDir, log)
	if removed := workspaces.Sweep(0); removed > 0 {
		log.Info("Recovered orphaned workspaces", zap.Int("count", removed))
	}

	// 4. Admission gate: external Postgres store when configured,
	// in-process cool-down otherwise.
	cooldown := time.Duration(cfg.AdmissionCooldownSec) * time.Second
	var gate admission.Gate
	var admissionDB *sql.DB
	if cfg.AdmissionDBDSN != "" {
		admissionDB, err = sql.Open("postgres", cfg.AdmissionDBDSN)
		if err != nil {
			return fmt.Errorf("opening admission store: %w", err)
		}
		defer admissionDB.Close()

		store := admission.NewStore(admissionDB, cooldown, log)
		if err := admissionDB.PingContext(ctx); err != nil {
			log.Warn("Admission store unreachable at startup, failing open", zap.Error(err))
		} else if err := store.EnsureSchema(ctx); err != nil {
			log.Warn("Error ensuring admission schema", zap.Error(err))
		}
		gate = store
		log.Info("Admission gate backed by external store",
			zap.Duration("cooldown", cooldown))
	} else {
		gate = admission.NewMemoryGate(cooldown)
		log.Info("Admission gate running in-process",
			zap.Duration("cooldown", cooldown))
	}

	// 5. Telegram bot
	bot, err := telegram.NewBot(cfg, log)
	if err != nil {
		return fmt.Errorf("creating Telegram bot: %w", err)
	}

	// 6. Start health check server
	health.StartHealthServer(cfg, bot.Username(), admissionDB, log)
	log.Info("Health check server started", zap.Int("port", cfg.HealthCheckPort))

	// 7. Start metrics server
	metrics.StartMetricsServer(cfg, log)
	log.Info("Metrics server started", zap.Int("port", cfg.MetricsPort))

	// 8. Job pipeline
	extractor := extract.NewYtDlp(cfg, log)
	orchestrator := job.NewOrchestrator(cfg, bot, extractor, workspaces, log)
	receiver := telegram.NewReceiver(bot, cfg, gate, orchestrator, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		receiver.Start(ctx)
	}()

	// 9. Periodic sweep of workspaces left behind by crashed jobs. The age
	// threshold stays well above the extraction timeout so an in-flight
	// job's directory is never touched.
	maxAge := 4 * time.Duration(cfg.ExtractTimeoutSec) * time.Second
	if maxAge < time.Hour {
		maxAge = time.Hour
	}
	janitor := workspace.NewJanitor(workspaces, maxAge, log)
	wg.Add(1)
	go func() {
		defer wg.Done()
		janitor.Start(ctx)
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info("All services started successfully - waiting for shutdown signal")
	sig := <-sigChan
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown: stop taking updates, let in-flight jobs finish
	// their cleanup.
	log.Info("Shutting down gracefully...")
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("All services stopped gracefully")
	case <-sigChan:
		log.Warn("Forced shutdown - jobs may not have cleaned up")
	}

	log.Info("Shutdown complete")
	return nil
}
