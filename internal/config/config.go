// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

// Package config defines the Librarium configuration model and its
// layered loading (defaults, optional YAML file, environment variables).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/librarium/librarium/internal/recommend"
)

// Config is the root configuration for the Librarium server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Rebuild   RebuildConfig   `koanf:"rebuild"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the operational HTTP endpoint.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// CatalogConfig points at the JSON catalog files on disk.
type CatalogConfig struct {
	BooksPath   string `koanf:"books_path"`
	UsersPath   string `koanf:"users_path"`
	RatingsPath string `koanf:"ratings_path"`
}

// RecommendConfig configures the recommendation engine.
type RecommendConfig struct {
	// Components is the dimensionality of projected content vectors.
	Components int `koanf:"components"`
	// Clusters is the configured k for content clustering; the
	// effective k shrinks with small corpora.
	Clusters int `koanf:"clusters"`
	// Similarity selects the item-item measure: cosine or pearson.
	Similarity string `koanf:"similarity"`
	// MinCoRatings is the minimum co-rating users for item similarity.
	MinCoRatings int `koanf:"min_co_ratings"`
	// Shrinkage damps similarities computed from few co-ratings.
	Shrinkage float64 `koanf:"shrinkage"`
	// Neighbors is the user-based neighborhood size.
	Neighbors int `koanf:"neighbors"`
	// Alpha weights collaborative against content scores.
	Alpha float64 `koanf:"alpha"`
	// RatingThreshold is the rating count at which alpha reaches full
	// strength.
	RatingThreshold int `koanf:"rating_threshold"`
	// PopularityWeight blends popularity into cold-start content
	// rankings.
	PopularityWeight float64 `koanf:"popularity_weight"`
	DefaultK         int     `koanf:"default_k"`
	MaxK             int     `koanf:"max_k"`
	// CacheEnabled toggles the per-generation result cache.
	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
}

// RebuildConfig configures the background model rebuild scheduler.
type RebuildConfig struct {
	// Interval is how often the scheduler reloads the catalog and
	// rebuilds the serving generation.
	Interval time.Duration `koanf:"interval"`
	// MinSpacing is the minimum gap enforced between rebuild attempts,
	// including the startup build.
	MinSpacing time.Duration `koanf:"min_spacing"`
	// BuildOnStartup triggers an immediate build when the service
	// starts instead of waiting for the first tick.
	BuildOnStartup bool `koanf:"build_on_startup"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateRebuild(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.BooksPath == "" {
		return fmt.Errorf("BOOKS_PATH is required")
	}
	if c.Catalog.UsersPath == "" {
		return fmt.Errorf("USERS_PATH is required")
	}
	if c.Catalog.RatingsPath == "" {
		return fmt.Errorf("RATINGS_PATH is required")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	switch c.Recommend.Similarity {
	case "cosine", "pearson":
	default:
		return fmt.Errorf("RECOMMEND_SIMILARITY must be cosine or pearson, got %q", c.Recommend.Similarity)
	}
	// Range checks proper to the engine live in recommend.Config;
	// reuse them so the two layers cannot drift.
	return c.Recommend.EngineConfig().Validate()
}

func (c *Config) validateRebuild() error {
	if c.Rebuild.Interval < time.Minute {
		return fmt.Errorf("REBUILD_INTERVAL must be at least 1m, got %v", c.Rebuild.Interval)
	}
	if c.Rebuild.MinSpacing <= 0 {
		return fmt.Errorf("REBUILD_MIN_SPACING must be positive, got %v", c.Rebuild.MinSpacing)
	}
	if c.Rebuild.MinSpacing > c.Rebuild.Interval {
		return fmt.Errorf("REBUILD_MIN_SPACING %v exceeds REBUILD_INTERVAL %v", c.Rebuild.MinSpacing, c.Rebuild.Interval)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be a valid level, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// EngineConfig maps the flat recommend section onto the engine's nested
// configuration.
func (c *RecommendConfig) EngineConfig() *recommend.Config {
	ec := recommend.DefaultConfig()
	ec.Content.Components = c.Components
	ec.Content.Clusters = c.Clusters
	ec.ItemCF.Similarity = c.Similarity
	ec.ItemCF.MinCoRatings = c.MinCoRatings
	ec.ItemCF.Shrinkage = c.Shrinkage
	ec.UserCF.Neighbors = c.Neighbors
	ec.Hybrid.Alpha = c.Alpha
	ec.Hybrid.RatingThreshold = c.RatingThreshold
	ec.Hybrid.PopularityWeight = c.PopularityWeight
	ec.Limits.DefaultK = c.DefaultK
	ec.Limits.MaxK = c.MaxK
	ec.Cache.Enabled = c.CacheEnabled
	ec.Cache.MaxEntries = c.CacheMaxEntries
	ec.Cache.TTL = c.CacheTTL
	return ec
}
