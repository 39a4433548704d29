// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/librarium/librarium/internal/catalog"
	"github.com/librarium/librarium/internal/metrics"
)

// Engine serves book and user recommendations from an immutable catalog
// generation. Queries read the serving generation through an atomic
// pointer and never block on rebuilds; BuildOrRefresh constructs a new
// generation off to the side and swaps it in only on success.
//
// All methods are safe for unbounded concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	current atomic.Pointer[generation]

	// buildMu serializes rebuilds. Contenders coalesce instead of
	// queueing: a TryLock failure reports the serving generation.
	buildMu sync.Mutex

	cache *resultCache
}

// NewEngine creates an engine with the given configuration. A nil config
// gets defaults. The engine is not ready until the first successful
// BuildOrRefresh.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend-engine").Logger(),
	}
	if cfg.Cache.Enabled {
		e.cache = newResultCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e, nil
}

// BuildOrRefresh derives a new generation from the snapshot and installs
// it atomically. On failure the previous generation keeps serving and the
// error describes why the new one was rejected.
//
// At most one build runs at a time. A call arriving while another build
// is in flight does not wait: it returns the serving generation's info
// with Coalesced set.
func (e *Engine) BuildOrRefresh(ctx context.Context, snap *catalog.Snapshot) (BuildInfo, error) {
	if !e.buildMu.TryLock() {
		metrics.RebuildTotal.WithLabelValues("coalesced").Inc()
		info, _ := e.Info()
		info.Coalesced = true
		return info, nil
	}
	defer e.buildMu.Unlock()

	gen, err := buildGeneration(ctx, snap, e.config, e.logger)
	if err != nil {
		metrics.RebuildTotal.WithLabelValues("error").Inc()
		e.logger.Error().Err(err).Msg("generation build failed, previous generation keeps serving")
		return BuildInfo{}, err
	}

	e.current.Store(gen)
	if e.cache != nil {
		e.cache.purge()
	}

	metrics.RebuildTotal.WithLabelValues("success").Inc()
	metrics.RebuildDuration.Observe(gen.info.Duration.Seconds())
	metrics.GenerationTimestamp.Set(float64(gen.info.BuiltAt.Unix()))
	metrics.CorpusSize.WithLabelValues("books").Set(float64(gen.info.Books))
	metrics.CorpusSize.WithLabelValues("users").Set(float64(gen.info.Users))
	metrics.CorpusSize.WithLabelValues("ratings").Set(float64(gen.info.Ratings))

	e.logger.Info().
		Str("generation", gen.id).
		Int("books", gen.info.Books).
		Int("users", gen.info.Users).
		Int("ratings", gen.info.Ratings).
		Dur("duration", gen.info.Duration).
		Msg("generation installed")

	return gen.info, nil
}

// Ready reports whether a generation is serving.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Info returns the serving generation's build info. The second return is
// false before the first successful build.
func (e *Engine) Info() (BuildInfo, bool) {
	gen := e.current.Load()
	if gen == nil {
		return BuildInfo{}, false
	}
	return gen.info, true
}

// RecommendFromBook returns up to k books related to the anchor. An
// engine without a generation, an unknown ISBN, or an anchor with no
// usable signal all yield an empty slice, never an error.
func (e *Engine) RecommendFromBook(ctx context.Context, isbn string, k int) []Recommendation {
	gen := e.current.Load()
	if gen == nil {
		metrics.Queries.WithLabelValues(metrics.ModeBook, metrics.OutcomeNotReady).Inc()
		return nil
	}
	if err := ctx.Err(); err != nil {
		return nil
	}

	ranked := e.fullRanking(gen, "b:"+isbn, func() []Recommendation {
		return gen.rankFromBook(isbn, &e.config.Hybrid)
	})
	return e.finish(metrics.ModeBook, ranked, e.clampK(k, gen))
}

// RecommendForUser returns up to k books for the user, excluding
// everything the user has already interacted with. Cold-start users get
// the popularity fallback; unknown users get an empty slice.
func (e *Engine) RecommendForUser(ctx context.Context, userID string, k int) []Recommendation {
	gen := e.current.Load()
	if gen == nil {
		metrics.Queries.WithLabelValues(metrics.ModeUser, metrics.OutcomeNotReady).Inc()
		return nil
	}
	if err := ctx.Err(); err != nil {
		return nil
	}

	ranked := e.fullRanking(gen, "u:"+userID, func() []Recommendation {
		return gen.rankForUser(userID, &e.config.Hybrid)
	})
	return e.finish(metrics.ModeUser, ranked, e.clampK(k, gen))
}

// PopularBooks returns the top k books by popularity boost. Deterministic
// for unrated catalogs: books without ratings rank by ISBN.
func (e *Engine) PopularBooks(k int) []Recommendation {
	gen := e.current.Load()
	if gen == nil {
		metrics.Queries.WithLabelValues(metrics.ModePopular, metrics.OutcomeNotReady).Inc()
		return nil
	}

	ranked := e.fullRanking(gen, "pop", func() []Recommendation {
		return gen.popularityRanking(func(string) bool { return false })
	})
	return e.finish(metrics.ModePopular, ranked, e.clampK(k, gen))
}

// Stats computes corpus statistics for the serving generation. The second
// return is false before the first successful build.
func (e *Engine) Stats() (Stats, bool) {
	gen := e.current.Load()
	if gen == nil {
		return Stats{}, false
	}
	return gen.stats(), true
}

// CacheStats returns result cache counters. Zeroes when caching is off.
func (e *Engine) CacheStats() (hits, misses int64, size int) {
	if e.cache == nil {
		return 0, 0, 0
	}
	return e.cache.stats()
}

// fullRanking returns the complete ranking for a cache key, computing and
// caching it on miss. Keys embed the generation id so a swap can never
// serve rankings from older data.
func (e *Engine) fullRanking(gen *generation, anchor string, compute func() []Recommendation) []Recommendation {
	if e.cache == nil {
		return compute()
	}

	key := gen.id + ":" + anchor
	if ranked, ok := e.cache.get(key); ok {
		metrics.CacheHits.Inc()
		return ranked
	}
	metrics.CacheMisses.Inc()

	ranked := compute()
	e.cache.add(key, ranked)
	return ranked
}

// clampK normalizes a requested result size: non-positive requests get
// the default, and the result never exceeds MaxK or the corpus size.
func (e *Engine) clampK(k int, gen *generation) int {
	if k < 1 {
		k = e.config.Limits.DefaultK
	}
	if k > e.config.Limits.MaxK {
		k = e.config.Limits.MaxK
	}
	if n := gen.corpusSize(); k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	return k
}

// finish slices the full ranking to k and records query metrics. The
// returned slice is a copy; callers own it.
func (e *Engine) finish(mode string, ranked []Recommendation, k int) []Recommendation {
	if len(ranked) == 0 {
		metrics.Queries.WithLabelValues(mode, metrics.OutcomeEmpty).Inc()
		return nil
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]Recommendation, k)
	copy(out, ranked[:k])
	metrics.Queries.WithLabelValues(mode, metrics.OutcomeOK).Inc()
	return out
}
