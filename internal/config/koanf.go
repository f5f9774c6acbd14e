// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

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

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinerec/config.yaml",
	"/etc/cinerec/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, applied before the config
// file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       "duckdb",
			Path:         "/data/cinerec.duckdb",
			MaxMemory:    "1GB",
			Threads:      0,
			Host:         "localhost",
			Port:         5432,
			User:         "postgres",
			Password:     "",
			Name:         "reviews",
			SSLMode:      "disable",
			MaxOpenConns: 10,
			QueryTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			NumClusters:            5,
			TopN:                   5,
			SimilarityThreshold:    0.3,
			MinUserRatings:         2,
			MinMovieRatings:        2,
			TopK:                   5,
			OverFetchFactor:        2,
			Seed:                   42,
			KMeansRestarts:         10,
			KMeansMaxIter:          300,
			LemmaCacheSize:         100_000,
			ClusterRefreshInterval: 0,
		},
		Collaborators: CollaboratorsConfig{
			Lemmatizer: HTTPClientConfig{
				URL:     "http://localhost:8081",
				Timeout: 10 * time.Second,
			},
			Embedding: EmbeddingClientConfig{
				URL:       "http://localhost:8082",
				Model:     "all-MiniLM-L6-v2",
				BatchSize: 32,
				Timeout:   60 * time.Second,
			},
			Sentiment: HTTPClientConfig{
				URL:     "http://localhost:8083",
				Timeout: 10 * time.Second,
			},
		},
		Cache: CacheConfig{
			Backend:  "memory",
			TTL:      10 * time.Minute,
			Capacity: 1000,
		},
		EmbeddingStore: EmbeddingStoreConfig{
			Path: "",
			TTL:  0,
		},
		Events: EventsConfig{
			Backend:    "memory",
			NATSURL:    "nats://127.0.0.1:4222",
			BufferSize: 256,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
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

// findConfigFile returns the first existing config file, or "".
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

// sliceConfigPaths are parsed from comma-separated env strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak
// into the configuration.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"request_timeout":  "server.request_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Database (DB_* names match the original deployment environment)
	"db_driver":         "database.driver",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"db_host":           "database.host",
	"db_port":           "database.port",
	"db_user":           "database.user",
	"db_pass":           "database.password",
	"db_name":           "database.name",
	"db_sslmode":        "database.ssl_mode",
	"db_max_open_conns": "database.max_open_conns",
	"db_query_timeout":  "database.query_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine
	"recommend_num_clusters":             "recommend.num_clusters",
	"recommend_top_n":                    "recommend.top_n",
	"recommend_similarity_threshold":     "recommend.similarity_threshold",
	"recommend_min_user_ratings":         "recommend.min_user_ratings",
	"recommend_min_movie_ratings":        "recommend.min_movie_ratings",
	"recommend_top_k":                    "recommend.top_k",
	"recommend_over_fetch_factor":        "recommend.over_fetch_factor",
	"recommend_seed":                     "recommend.seed",
	"recommend_kmeans_restarts":          "recommend.kmeans_restarts",
	"recommend_kmeans_max_iter":          "recommend.kmeans_max_iter",
	"recommend_lemma_cache_size":         "recommend.lemma_cache_size",
	"recommend_cluster_refresh_interval": "recommend.cluster_refresh_interval",

	// Collaborators
	"lemmatizer_url":        "collaborators.lemmatizer.url",
	"lemmatizer_timeout":    "collaborators.lemmatizer.timeout",
	"lemmatizer_rate_limit": "collaborators.lemmatizer.rate_limit",
	"embedding_url":         "collaborators.embedding.url",
	"embedding_model":       "collaborators.embedding.model",
	"embedding_batch_size":  "collaborators.embedding.batch_size",
	"embedding_timeout":     "collaborators.embedding.timeout",
	"embedding_rate_limit":  "collaborators.embedding.rate_limit",
	"sentiment_url":         "collaborators.sentiment.url",
	"sentiment_timeout":     "collaborators.sentiment.timeout",
	"sentiment_rate_limit":  "collaborators.sentiment.rate_limit",

	// Result cache
	"cache_backend":  "cache.backend",
	"cache_ttl":      "cache.ttl",
	"cache_capacity": "cache.capacity",
	"redis_url":      "cache.redis_url",

	// Embedding memo
	"embedding_store_path": "embedding_store.path",
	"embedding_store_ttl":  "embedding_store.ttl",

	// Events
	"events_backend":     "events.backend",
	"nats_url":           "events.nats_url",
	"events_buffer_size": "events.buffer_size",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc maps an environment variable name to a koanf path.
//
// Examples:
//   - DB_HOST -> database.host
//   - HTTP_PORT -> server.port
//   - EMBEDDING_URL -> collaborators.embedding.url
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
