// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package recommend

import (
	"errors"
	"time"

	"github.com/librarium/librarium/internal/catalog"
)

// RecommendationType labels the signal that produced a recommendation.
type RecommendationType string

// Recommendation types. Hybrid marks results backed by both collaborative
// and content signals; popularity fallback covers cold starts.
const (
	TypeContentBased       RecommendationType = "content_based"
	TypeCollaborative      RecommendationType = "collaborative"
	TypeHybrid             RecommendationType = "hybrid"
	TypePopularityFallback RecommendationType = "popularity_fallback"
)

// Recommendation is one ranked result. SimilarityScore is always in
// [0, 1]. Reason is a human-readable explanation and may be empty.
type Recommendation struct {
	Book               catalog.Book       `json:"book"`
	SimilarityScore    float64            `json:"similarity_score"`
	RecommendationType RecommendationType `json:"recommendation_type"`
	Reason             string             `json:"reason,omitempty"`
}

// BuildInfo describes the catalog generation currently serving queries.
type BuildInfo struct {
	// Generation is the unique id of the build.
	Generation string `json:"generation"`

	// BuiltAt is when the build completed.
	BuiltAt time.Time `json:"built_at"`

	// Duration is how long the build took.
	Duration time.Duration `json:"duration"`

	// Coalesced is true when this info was returned by a BuildOrRefresh
	// call that found another build already in flight.
	Coalesced bool `json:"coalesced,omitempty"`

	Books   int `json:"books"`
	Users   int `json:"users"`
	Ratings int `json:"ratings"`
}

// Stats summarizes the serving generation's corpus. Computed on demand,
// never cached across generations.
type Stats struct {
	TotalUsers        int     `json:"total_users"`
	TotalBooks        int     `json:"total_books"`
	TotalGenres       int     `json:"total_genres"`
	TotalRatings      int     `json:"total_ratings"`
	ExplicitRatings   int     `json:"explicit_ratings"`
	AverageBookRating float64 `json:"average_book_rating"`
	AverageUserRating float64 `json:"average_user_rating"`
	Sparsity          float64 `json:"sparsity"`
}

// Engine errors. Queries never return these: a not-ready engine or an
// unknown anchor yields an empty result. They exist for build-time
// diagnostics and for callers that want to distinguish the conditions.
var (
	// ErrNotReady indicates no build has succeeded yet.
	ErrNotReady = errors.New("recommend: engine not ready")

	// ErrEmptyCorpus indicates BuildOrRefresh was given a snapshot
	// without books. The previous generation, if any, keeps serving.
	ErrEmptyCorpus = errors.New("recommend: empty corpus")
)
