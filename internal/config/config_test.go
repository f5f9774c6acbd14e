// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"os"
	"strings"
	"testing"
)

// setupTestEnv sets up test environment variables and returns cleanup function
func setupTestEnv(t *testing.T, envVars map[string]string) func() {
	t.Helper()
	os.Clearenv()
	for k, v := range envVars {
		if err := os.Setenv(k, v); err != nil {
			t.Fatalf("failed to set env var %s: %v", k, err)
		}
	}
	return func() {
		os.Clearenv()
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "sqlite" },
			wantErr: "DB_DRIVER",
		},
		{
			name: "postgres without host",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.Host = ""
			},
			wantErr: "DB_HOST",
		},
		{
			name:   "postgres complete",
			mutate: func(c *Config) { c.Database.Driver = "postgres" },
		},
		{
			name:    "zero clusters",
			mutate:  func(c *Config) { c.Recommend.NumClusters = 0 },
			wantErr: "RECOMMEND_NUM_CLUSTERS",
		},
		{
			name:    "threshold above one",
			mutate:  func(c *Config) { c.Recommend.SimilarityThreshold = 1.5 },
			wantErr: "RECOMMEND_SIMILARITY_THRESHOLD",
		},
		{
			name:    "negative min ratings",
			mutate:  func(c *Config) { c.Recommend.MinUserRatings = -1 },
			wantErr: "RECOMMEND_MIN_USER_RATINGS",
		},
		{
			name:   "zero min ratings allowed",
			mutate: func(c *Config) { c.Recommend.MinMovieRatings = 0 },
		},
		{
			name:    "embedding url with path",
			mutate:  func(c *Config) { c.Collaborators.Embedding.URL = "http://embedder:9000/embed" },
			wantErr: "EMBEDDING_URL",
		},
		{
			name:    "lemmatizer url missing",
			mutate:  func(c *Config) { c.Collaborators.Lemmatizer.URL = "" },
			wantErr: "LEMMATIZER_URL",
		},
		{
			name:    "redis without url",
			mutate:  func(c *Config) { c.Cache.Backend = "redis" },
			wantErr: "REDIS_URL",
		},
		{
			name: "redis with url",
			mutate: func(c *Config) {
				c.Cache.Backend = "redis"
				c.Cache.RedisURL = "redis://localhost:6379/0"
			},
		},
		{
			name:    "nats with http scheme",
			mutate:  func(c *Config) { c.Events.Backend = "nats"; c.Events.NATSURL = "http://nats:4222" },
			wantErr: "NATS_URL",
		},
		{
			name:    "unknown events backend",
			mutate:  func(c *Config) { c.Events.Backend = "kafka" },
			wantErr: "EVENTS_BACKEND",
		},
		{
			name:    "rate limit zero",
			mutate:  func(c *Config) { c.Security.RateLimitReqs = 0 },
			wantErr: "RATE_LIMIT_REQUESTS",
		},
		{
			name: "rate limit zero but disabled",
			mutate: func(c *Config) {
				c.Security.RateLimitReqs = 0
				c.Security.RateLimitDisabled = true
			},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:8081", false},
		{"https://lemmatizer.internal/", false},
		{"ftp://lemmatizer", true},
		{"http://", true},
		{"http://host/path", true},
		{"http://host?q=1", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			err := validateHTTPURL(tt.url, "TEST_URL")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := defaultConfig().Database
	cfg.User = "reviewer"
	cfg.Password = "p@ss"
	cfg.Host = "db"
	cfg.Port = 5433
	cfg.Name = "films"

	dsn := cfg.PostgresDSN()
	for _, want := range []string{"postgres://reviewer:p%40ss@db:5433/films", "sslmode=disable"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("PostgresDSN() = %q, want it to contain %q", dsn, want)
		}
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8000}
	if got := s.Addr(); got != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8000", got)
	}
}
