// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/librarium/config.yaml",
	"/etc/librarium/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8600,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Catalog: CatalogConfig{
			BooksPath:   "/data/books.json",
			UsersPath:   "/data/users.json",
			RatingsPath: "/data/ratings.json",
		},
		Recommend: RecommendConfig{
			Components:       100,
			Clusters:         20,
			Similarity:       "cosine",
			MinCoRatings:     2,
			Shrinkage:        0,
			Neighbors:        20,
			Alpha:            0.6,
			RatingThreshold:  5,
			PopularityWeight: 0.3,
			DefaultK:         10,
			MaxK:             100,
			CacheEnabled:     true,
			CacheMaxEntries:  10000,
			CacheTTL:         5 * time.Minute,
		},
		Rebuild: RebuildConfig{
			Interval:       6 * time.Hour,
			MinSpacing:     5 * time.Minute,
			BuildOnStartup: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file, checking the CONFIG_PATH
// environment variable before the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps environment variable names to koanf config
// paths. Unmapped variables are skipped so random environment variables
// cannot pollute the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - BOOKS_PATH -> catalog.books_path
//   - RECOMMEND_ALPHA -> recommend.alpha
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":          "server.host",
		"http_port":          "server.port",
		"http_read_timeout":  "server.read_timeout",
		"http_write_timeout": "server.write_timeout",
		"shutdown_timeout":   "server.shutdown_timeout",

		// Catalog mappings
		"books_path":   "catalog.books_path",
		"users_path":   "catalog.users_path",
		"ratings_path": "catalog.ratings_path",

		// Recommendation engine mappings
		"recommend_components":        "recommend.components",
		"recommend_clusters":          "recommend.clusters",
		"recommend_similarity":        "recommend.similarity",
		"recommend_min_co_ratings":    "recommend.min_co_ratings",
		"recommend_shrinkage":         "recommend.shrinkage",
		"recommend_neighbors":         "recommend.neighbors",
		"recommend_alpha":             "recommend.alpha",
		"recommend_rating_threshold":  "recommend.rating_threshold",
		"recommend_popularity_weight": "recommend.popularity_weight",
		"recommend_default_k":         "recommend.default_k",
		"recommend_max_k":             "recommend.max_k",
		"recommend_cache_enabled":     "recommend.cache_enabled",
		"recommend_cache_max_entries": "recommend.cache_max_entries",
		"recommend_cache_ttl":         "recommend.cache_ttl",

		// Rebuild scheduler mappings
		"rebuild_interval":         "rebuild.interval",
		"rebuild_min_spacing":      "rebuild.min_spacing",
		"rebuild_build_on_startup": "rebuild.build_on_startup",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}
