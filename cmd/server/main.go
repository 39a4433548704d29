// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

// Package main is the entry point for the Librarium recommendation server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading via Koanf v2 (defaults, YAML file,
//     environment variables)
//  2. Logging: zerolog, configured from the logging section
//  3. Recommendation engine: created empty; the first build happens under
//     supervision
//  4. Supervisor tree: rebuild scheduler (model layer) and operational
//     HTTP server (ops layer)
//
// # Configuration
//
// Catalog dump locations and engine knobs come from config.yaml or
// environment variables:
//
//	export BOOKS_PATH=/data/books.json
//	export USERS_PATH=/data/users.json
//	export RATINGS_PATH=/data/ratings.json
//	export HTTP_PORT=8600
//	./librarium
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests and the rebuild loop stops at the next safe point.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/librarium/librarium/internal/catalog"
	"github.com/librarium/librarium/internal/config"
	"github.com/librarium/librarium/internal/logging"
	"github.com/librarium/librarium/internal/recommend"
	"github.com/librarium/librarium/internal/scheduler"
	"github.com/librarium/librarium/internal/server"
	"github.com/librarium/librarium/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("books", cfg.Catalog.BooksPath).
		Str("users", cfg.Catalog.UsersPath).
		Str("ratings", cfg.Catalog.RatingsPath).
		Msg("configuration loaded")

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	loader := catalog.NewLoader(catalog.LoaderConfig{
		BooksPath:   cfg.Catalog.BooksPath,
		UsersPath:   cfg.Catalog.UsersPath,
		RatingsPath: cfg.Catalog.RatingsPath,
	}, logging.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	rebuildSvc := scheduler.NewRebuildService(loader, engine, scheduler.Config{
		Interval:       cfg.Rebuild.Interval,
		MinSpacing:     cfg.Rebuild.MinSpacing,
		BuildOnStartup: cfg.Rebuild.BuildOnStartup,
	}, logging.Logger())
	tree.AddModelService(rebuildSvc)

	router := server.NewRouter(engine, logging.Logger())
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	tree.AddOpsService(supervisor.NewHTTPService(httpServer, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", httpServer.Addr).Msg("ops HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}

	// Drain until the supervisor closes the channel.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}

	logging.Info().Msg("server stopped gracefully")
}
