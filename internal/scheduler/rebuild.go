// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

// Package scheduler runs periodic catalog reloads and model rebuilds
// under supervision.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/librarium/librarium/internal/catalog"
	"github.com/librarium/librarium/internal/recommend"
)

// SnapshotLoader loads a fresh catalog snapshot from the source of
// record.
type SnapshotLoader interface {
	Load() (*catalog.Snapshot, catalog.LoadReport, error)
}

// Rebuilder swaps a new serving generation in from a snapshot.
type Rebuilder interface {
	BuildOrRefresh(ctx context.Context, snap *catalog.Snapshot) (recommend.BuildInfo, error)
}

// Config holds rebuild scheduler configuration.
type Config struct {
	// Interval is how often a rebuild is attempted.
	Interval time.Duration

	// MinSpacing is the minimum gap between rebuild attempts. Attempts
	// arriving faster (overlapping ticks after a slow build, rapid
	// restarts) are skipped rather than queued.
	MinSpacing time.Duration

	// BuildOnStartup triggers a build as soon as the service starts.
	BuildOnStartup bool

	// BuildTimeout bounds a single rebuild. Zero means 30 minutes.
	BuildTimeout time.Duration
}

// RebuildService periodically reloads the catalog and rebuilds the
// recommendation engine's serving generation. It implements
// suture.Service.
type RebuildService struct {
	loader  SnapshotLoader
	engine  Rebuilder
	config  Config
	limiter *rate.Limiter
	logger  zerolog.Logger
	name    string
}

// NewRebuildService creates a rebuild service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRebuildService(loader SnapshotLoader, engine Rebuilder, cfg Config, logger zerolog.Logger) *RebuildService {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.MinSpacing <= 0 {
		cfg.MinSpacing = 5 * time.Minute
	}
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = 30 * time.Minute
	}
	return &RebuildService{
		loader:  loader,
		engine:  engine,
		config:  cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.MinSpacing), 1),
		logger:  logger.With().Str("service", "rebuild").Logger(),
		name:    "rebuild-service",
	}
}

// Serve implements the suture.Service interface. It runs the rebuild
// loop until the context is canceled.
func (s *RebuildService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Dur("min_spacing", s.config.MinSpacing).
		Bool("build_on_startup", s.config.BuildOnStartup).
		Msg("rebuild service starting")

	if s.config.BuildOnStartup {
		if err := s.rebuild(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("startup rebuild failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("rebuild service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.rebuild(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled rebuild failed")
			}
		}
	}
}

// rebuild performs one load-and-build cycle, honoring the minimum
// spacing between attempts.
func (s *RebuildService) rebuild(ctx context.Context) error {
	if !s.limiter.Allow() {
		s.logger.Debug().Msg("rebuild skipped, minimum spacing not elapsed")
		return nil
	}

	buildCtx, cancel := context.WithTimeout(ctx, s.config.BuildTimeout)
	defer cancel()

	start := time.Now()

	snap, report, err := s.loader.Load()
	if err != nil {
		return err
	}
	if report.SkippedBooks+report.SkippedUsers+report.SkippedRatings > 0 {
		s.logger.Warn().
			Int("skipped_books", report.SkippedBooks).
			Int("skipped_users", report.SkippedUsers).
			Int("skipped_ratings", report.SkippedRatings).
			Msg("catalog records dropped during load")
	}

	info, err := s.engine.BuildOrRefresh(buildCtx, snap)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("generation", info.Generation).
		Bool("coalesced", info.Coalesced).
		Dur("duration", time.Since(start)).
		Msg("rebuild cycle complete")
	return nil
}

// String returns the service name for logging.
func (s *RebuildService) String() string {
	return s.name
}
