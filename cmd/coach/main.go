// Command coach runs the Hevy AI coach service: it ingests completed
// workouts via webhook and poll, asks a generation backend for
// progressive-overload targets, and writes them into the routine's
// exercise notes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ripixel/hevy-coach/pkg/bootstrap"
	"github.com/ripixel/hevy-coach/pkg/coach"
	"github.com/ripixel/hevy-coach/pkg/config"
	"github.com/ripixel/hevy-coach/pkg/generation"
	"github.com/ripixel/hevy-coach/pkg/hevy"
	"github.com/ripixel/hevy-coach/pkg/infrastructure/sentry"
	"github.com/ripixel/hevy-coach/pkg/orchestrator"
	"github.com/ripixel/hevy-coach/pkg/poller"
	"github.com/ripixel/hevy-coach/pkg/server"
	"github.com/ripixel/hevy-coach/pkg/tracker"
	"github.com/ripixel/hevy-coach/pkg/updater"
)

const serviceName = "hevy-coach"

// pipelineTimeout bounds a single webhook-triggered run: routine fetch,
// generation call, and the retried update all fit comfortably inside it.
const pipelineTimeout = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("Service exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := bootstrap.NewLogger(serviceName, bootstrap.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	if err := sentry.Init(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		ServerName:  serviceName,
	}, logger); err != nil {
		return err
	}
	defer sentry.Flush(2 * time.Second)

	hevyClient := hevy.NewClient(cfg.HevyBaseURL, cfg.HevyAPIKey, cfg.HevyTimeout)

	var backend generation.Backend
	if cfg.UseMockGemini {
		backend = &generation.MockBackend{}
		logger.Info("Generation backend: MOCK (USE_MOCK_GEMINI=true)")
	} else {
		backend = generation.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenTimeout)
		logger.Info("Generation backend: Gemini", "model", cfg.GeminiModel)
	}

	trk := tracker.New(tracker.Options{
		SuccessRetention: cfg.SuccessRetention,
		FailureRetention: cfg.FailureRetention,
		ClaimTimeout:     cfg.ClaimTimeout,
	})

	engine := coach.NewEngine(backend, hevyClient, logger)
	applier := updater.New(hevyClient, logger)
	orch := orchestrator.New(trk, hevyClient, engine, applier, logger)

	p := poller.New(hevyClient, trk, orch, cfg.PollInterval, cfg.PollLookback, logger)
	go p.Run(ctx)

	srv := server.New(cfg.WebhookToken, orch, pipelineTimeout, logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	logger.Info("Listening", "port", cfg.Port, "poll_interval", cfg.PollInterval.String())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	if !srv.Drain(cfg.ShutdownTimeout) {
		// Abandoned runs are safe: routine writes are idempotent and the
		// next poll sweep retries anything left unfinished.
		logger.Warn("Shutdown deadline reached with pipeline runs still in flight")
	}

	logger.Info("Stopped")
	return nil
}
