// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/grubsync/internal/api"
	"github.com/tomtom215/grubsync/internal/app"
	"github.com/tomtom215/grubsync/internal/auth"
	"github.com/tomtom215/grubsync/internal/config"
	"github.com/tomtom215/grubsync/internal/database"
	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/metrics"
	"github.com/tomtom215/grubsync/internal/supervisor"
	"github.com/tomtom215/grubsync/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "grubsync",
		Version:   version,
	})
	metrics.SetAppInfo(version)

	logging.Info().
		Str("version", version).
		Str("db_driver", cfg.Database.Driver).
		Str("geocoder", cfg.Geocoding.Provider).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting GrubSync with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if db, ok := store.(*database.DB); ok {
		tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval))
	}

	sinks, err := app.NewSinks(ctx, cfg, store, logging.WithComponent("app"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize result sinks")
	}
	if sinks.Publisher != nil {
		tree.AddMessagingService(sinks.Publisher)
		defer func() {
			if err := sinks.Publisher.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event publisher")
			}
		}()
	}

	pipeline, err := app.NewPipeline(cfg, store, app.Upstreams{}, sinks.All...)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation pipeline")
	}

	var jwtManager *auth.JWTManager
	switch cfg.Security.AuthMode {
	case auth.ModeJWT:
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	case auth.ModeNone:
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  Callers identify themselves with the X-User-ID header.")
		logging.Warn().Msg("  Anyone can act as any group member.")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  NEVER use AUTH_MODE=none in production or on public networks!")
		logging.Warn().Msg("============================================================")
	}

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: CORS is configured with wildcard origin (CORS_ORIGINS=*)")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  RECOMMENDED: Set specific origins in production:")
		logging.Warn().Msg("    CORS_ORIGINS=https://yourdomain.com")
		logging.Warn().Msg("============================================================")
	}

	handler := api.NewHandler(store, pipeline.Engine, pipeline.Resolver, api.HandlerOptions{
		Version:          version,
		RecommendTimeout: cfg.Server.RequestTimeout,
	})
	router := api.NewRouter(
		handler,
		auth.NewMiddleware(jwtManager, cfg.Security.AuthMode),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		// Recommendation runs may take the full request timeout.
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	unstopped, err := tree.UnstoppedServiceReport()
	if err != nil {
		logging.Warn().Err(err).Msg("Could not build unstopped service report")
	} else if len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop cleanly")
		}
	}

	if ctx.Err() == nil {
		logging.Error().Msg("Supervisor tree exited without a shutdown signal")
	}
	logging.Info().Msg("GrubSync stopped")
}
