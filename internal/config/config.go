// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config file: optional YAML (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables: explicit mapping in envTransformFunc
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server         ServerConfig         `koanf:"server"`
	Database       DatabaseConfig       `koanf:"database"`
	Logging        LoggingConfig        `koanf:"logging"`
	Recommend      RecommendConfig      `koanf:"recommend"`
	Collaborators  CollaboratorsConfig  `koanf:"collaborators"`
	Cache          CacheConfig          `koanf:"cache"`
	EmbeddingStore EmbeddingStoreConfig `koanf:"embedding_store"`
	Events         EventsConfig         `koanf:"events"`
	Security       SecurityConfig       `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`          // read/write timeout
	RequestTimeout  time.Duration `koanf:"request_timeout"`  // per-recommendation deadline
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // graceful shutdown budget
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects and tunes the review store.
//
// Driver "duckdb" opens an embedded database at Path. Driver "postgres"
// connects with Host/Port/User/Password/Name, the DB_* variables the
// service has always used.
type DatabaseConfig struct {
	Driver string `koanf:"driver"`

	// DuckDB
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()

	// PostgreSQL
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"ssl_mode"`

	MaxOpenConns int           `koanf:"max_open_conns"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// PostgresDSN builds a lib/pq connection URL from the discrete fields.
func (d DatabaseConfig) PostgresDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig mirrors recommend.Config in a flat, env-friendly shape.
// The defaults are part of the public contract of the recommendation
// endpoints and must not drift.
type RecommendConfig struct {
	NumClusters         int     `koanf:"num_clusters"`
	TopN                int     `koanf:"top_n"`
	SimilarityThreshold float64 `koanf:"similarity_threshold"`
	MinUserRatings      int     `koanf:"min_user_ratings"`
	MinMovieRatings     int     `koanf:"min_movie_ratings"`
	TopK                int     `koanf:"top_k"`
	OverFetchFactor     int     `koanf:"over_fetch_factor"`

	Seed           int64 `koanf:"seed"`
	KMeansRestarts int   `koanf:"kmeans_restarts"`
	KMeansMaxIter  int   `koanf:"kmeans_max_iter"`

	LemmaCacheSize int `koanf:"lemma_cache_size"`

	// ClusterRefreshInterval drives the background topic warmer. 0 disables it.
	ClusterRefreshInterval time.Duration `koanf:"cluster_refresh_interval"`
}

// HTTPClientConfig configures one remote collaborator.
type HTTPClientConfig struct {
	URL       string        `koanf:"url"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int           `koanf:"burst"`
}

// EmbeddingClientConfig adds batching and model selection to HTTPClientConfig.
type EmbeddingClientConfig struct {
	URL       string        `koanf:"url"`
	Model     string        `koanf:"model"`
	BatchSize int           `koanf:"batch_size"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"`
	Burst     int           `koanf:"burst"`
}

// CollaboratorsConfig groups the remote services the engine depends on.
type CollaboratorsConfig struct {
	Lemmatizer HTTPClientConfig      `koanf:"lemmatizer"`
	Embedding  EmbeddingClientConfig `koanf:"embedding"`
	Sentiment  HTTPClientConfig      `koanf:"sentiment"`
}

// CacheConfig selects the recommendation result cache.
type CacheConfig struct {
	Backend  string        `koanf:"backend"` // memory, redis, none
	TTL      time.Duration `koanf:"ttl"`
	Capacity int           `koanf:"capacity"`
	RedisURL string        `koanf:"redis_url"`
}

// EmbeddingStoreConfig configures the Badger-backed embedding memo.
type EmbeddingStoreConfig struct {
	Path string        `koanf:"path"` // empty disables the memo
	TTL  time.Duration `koanf:"ttl"`  // 0 = entries never expire
}

// EventsConfig selects the review event bus.
type EventsConfig struct {
	Backend    string `koanf:"backend"` // memory, nats
	NATSURL    string `koanf:"nats_url"`
	BufferSize int64  `koanf:"buffer_size"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load loads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
