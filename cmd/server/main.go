package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/jaarrekening/internal/config"
	"github.com/JonMunkholm/jaarrekening/internal/core"
	"github.com/JonMunkholm/jaarrekening/internal/database"
	"github.com/JonMunkholm/jaarrekening/internal/logging"
	"github.com/JonMunkholm/jaarrekening/internal/metrics"
	"github.com/JonMunkholm/jaarrekening/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if loaded, err := config.LoadEnvFiles(); err != nil {
		slog.Error("failed to read .env file", "error", err)
		os.Exit(1)
	} else if loaded {
		slog.Info("loaded .env file (overwriting existing env vars)")
	} else {
		slog.Info("no .env file found, using environment variables")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"scale", cfg.Extract.Scale,
		"codes", cfg.Extract.CodesVersion,
	)

	ctx := context.Background()
	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database", "driver", cfg.Database.Driver)

	m := metrics.New()
	service := core.NewService(store, cfg, core.WithMetrics(m))
	server := web.NewServer(service, cfg, m)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartHistoryPruner(jobCtx, cfg.Upload.HistoryRetention, cfg.Upload.PruneInterval)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active uploads to complete (with timeout)
		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for uploads to complete", "active", status.Active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			} else {
				slog.Info("all uploads completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		return
	}
	<-done
	slog.Info("server stopped")
}
