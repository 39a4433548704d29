// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package recommend

import (
	"fmt"
	"time"

	"github.com/librarium/librarium/internal/recommend/collab"
	"github.com/librarium/librarium/internal/recommend/feature"
)

// Config holds all engine configuration.
type Config struct {
	// Content configures the content feature model.
	Content feature.Config

	// ItemCF configures item-based collaborative filtering.
	ItemCF collab.ItemCFConfig

	// UserCF configures user-based collaborative filtering.
	UserCF collab.UserCFConfig

	// Hybrid configures signal blending.
	Hybrid HybridConfig

	// Limits configures result sizing.
	Limits LimitsConfig

	// Cache configures the per-generation result cache.
	Cache CacheConfig
}

// HybridConfig controls how collaborative and content scores blend.
type HybridConfig struct {
	// Alpha is the collaborative weight for well-rated anchors:
	// score = alpha*collab + (1-alpha)*content. Default: 0.6
	Alpha float64

	// RatingThreshold is the explicit-rating count at which an anchor
	// gets the full Alpha. Below it, alpha scales down proportionally
	// so sparse anchors lean on content. Default: 5
	RatingThreshold int

	// PopularityWeight blends a popularity boost into content-only
	// rankings for zero-rating anchors. Default: 0.3
	PopularityWeight float64
}

// LimitsConfig controls result sizing.
type LimitsConfig struct {
	// DefaultK is used when a caller requests a non-positive k.
	// Default: 10
	DefaultK int

	// MaxK caps requested result sizes. Default: 100
	MaxK int
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	// Enabled turns caching on. Default: true
	Enabled bool

	// MaxEntries caps cached rankings. Default: 10000
	MaxEntries int

	// TTL bounds entry lifetime within a generation. Default: 5m
	TTL time.Duration
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		Content: feature.DefaultConfig(),
		ItemCF:  collab.DefaultItemCFConfig(),
		UserCF:  collab.DefaultUserCFConfig(),
		Hybrid: HybridConfig{
			Alpha:            0.6,
			RatingThreshold:  5,
			PopularityWeight: 0.3,
		},
		Limits: LimitsConfig{
			DefaultK: 10,
			MaxK:     100,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 10000,
			TTL:        5 * time.Minute,
		},
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Hybrid.Alpha < 0 || c.Hybrid.Alpha > 1 {
		return fmt.Errorf("hybrid alpha must be in [0, 1], got %v", c.Hybrid.Alpha)
	}
	if c.Hybrid.RatingThreshold < 1 {
		return fmt.Errorf("rating threshold must be >= 1, got %d", c.Hybrid.RatingThreshold)
	}
	if c.Hybrid.PopularityWeight < 0 || c.Hybrid.PopularityWeight > 1 {
		return fmt.Errorf("popularity weight must be in [0, 1], got %v", c.Hybrid.PopularityWeight)
	}
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("default k must be >= 1, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("max k must be >= default k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.ItemCF.Similarity != collab.SimilarityCosine && c.ItemCF.Similarity != collab.SimilarityPearson {
		return fmt.Errorf("item cf similarity must be cosine or pearson, got %q", c.ItemCF.Similarity)
	}
	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache max entries must be >= 1, got %d", c.Cache.MaxEntries)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
