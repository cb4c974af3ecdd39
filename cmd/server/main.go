package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/netinventory/internal/auth"
	"github.com/JonMunkholm/netinventory/internal/config"
	"github.com/JonMunkholm/netinventory/internal/core"
	"github.com/JonMunkholm/netinventory/internal/database"
	"github.com/JonMunkholm/netinventory/internal/logging"
	"github.com/JonMunkholm/netinventory/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"sheet", cfg.Upload.SheetName,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.URL); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	service := core.NewService(pool, core.OptionsFromConfig(cfg))

	if cfg.Auth.AdminEmail != "" {
		created, err := service.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName)
		if err != nil {
			slog.Error("failed to seed administrator", "error", err)
			os.Exit(1)
		}
		if created {
			slog.Info("administrator created", "email", cfg.Auth.AdminEmail)
		}
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	server := web.NewServer(service, tokens, database.NewReadinessChecker(pool), cfg)

	var monitor *database.Monitor
	if cfg.Monitor.Enabled {
		monitor, err = database.NewMonitor(pool, cfg.Database.URL, cfg.Monitor)
		if err != nil {
			slog.Error("failed to create dependency monitor", "error", err)
			os.Exit(1)
		}
		if err := monitor.Start(ctx); err != nil {
			slog.Error("failed to start dependency monitor", "error", err)
			os.Exit(1)
		}
		server.SetDependencyHealth(monitor)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Imports hold a transaction open; let them commit before the pool closes.
		if status := service.UploadLimiterStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			}
		}

		if monitor != nil {
			monitor.Stop()
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
