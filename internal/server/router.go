// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

// Package server exposes the operational HTTP surface: health, readiness,
// Prometheus metrics, and a JSON status page. The catalog itself has no
// HTTP API here.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/librarium/librarium/internal/recommend"
)

// StatusSource is the engine view the ops endpoints read from.
type StatusSource interface {
	Ready() bool
	Info() (recommend.BuildInfo, bool)
	Stats() (recommend.Stats, bool)
	CacheStats() (hits, misses int64, size int)
}

// statusResponse is the /statusz payload.
type statusResponse struct {
	Ready bool                 `json:"ready"`
	Build *recommend.BuildInfo `json:"build,omitempty"`
	Stats *recommend.Stats     `json:"stats,omitempty"`
	Cache cacheStatus          `json:"cache"`
}

type cacheStatus struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// Router serves the operational endpoints.
type Router struct {
	engine StatusSource
	logger zerolog.Logger
}

// NewRouter creates the ops router over the given engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(engine StatusSource, logger zerolog.Logger) *Router {
	return &Router{
		engine: engine,
		logger: logger.With().Str("component", "ops-http").Logger(),
	}
}

// Handler builds the chi handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", rt.handleHealthz)
	r.Get("/readyz", rt.handleReadyz)
	r.Get("/statusz", rt.handleStatusz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handleHealthz reports process liveness. It always succeeds while the
// server is up.
func (rt *Router) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// handleReadyz reports whether a serving generation exists. Returns 503
// until the first successful build.
func (rt *Router) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !rt.engine.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready\n"))
}

// handleStatusz serves the current generation's build info and corpus
// statistics.
func (rt *Router) handleStatusz(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{Ready: rt.engine.Ready()}
	if info, ok := rt.engine.Info(); ok {
		resp.Build = &info
	}
	if stats, ok := rt.engine.Stats(); ok {
		resp.Stats = &stats
	}
	hits, misses, size := rt.engine.CacheStats()
	resp.Cache = cacheStatus{Hits: hits, Misses: misses, Size: size}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		rt.logger.Warn().Err(err).Msg("writing statusz response")
	}
}
