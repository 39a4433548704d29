// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

// Package metrics defines the Prometheus collectors for the
// recommendation engine. Collectors register themselves on the default
// registry via promauto; expose them with promhttp on the ops server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RebuildDuration observes how long generation builds take.
	RebuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "librarium",
		Subsystem: "recommend",
		Name:      "rebuild_duration_seconds",
		Help:      "Time spent building a catalog generation.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	// RebuildTotal counts rebuild attempts by outcome
	// (success, error, coalesced).
	RebuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "librarium",
		Subsystem: "recommend",
		Name:      "rebuild_total",
		Help:      "Rebuild attempts by outcome.",
	}, []string{"outcome"})

	// GenerationTimestamp tracks when the serving generation was built.
	GenerationTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "librarium",
		Subsystem: "recommend",
		Name:      "generation_built_timestamp_seconds",
		Help:      "Unix time the serving generation was built.",
	})

	// CorpusSize tracks the serving generation's dimensions by kind
	// (books, users, ratings).
	CorpusSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "librarium",
		Subsystem: "recommend",
		Name:      "corpus_size",
		Help:      "Serving generation corpus dimensions.",
	}, []string{"kind"})

	// Queries counts recommendation queries by mode
	// (book, user, popular) and outcome (ok, empty, not_ready).
	Queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "librarium",
		Subsystem: "recommend",
		Name:      "queries_total",
		Help:      "Recommendation queries by mode and outcome.",
	}, []string{"mode", "outcome"})

	// CacheHits counts result cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "librarium",
		Subsystem: "recommend",
		Name:      "cache_hits_total",
		Help:      "Result cache hits.",
	})

	// CacheMisses counts result cache misses.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "librarium",
		Subsystem: "recommend",
		Name:      "cache_misses_total",
		Help:      "Result cache misses.",
	})
)

// Query outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeNotReady = "not_ready"
)

// Query mode labels.
const (
	ModeBook    = "book"
	ModeUser    = "user"
	ModePopular = "popular"
)
