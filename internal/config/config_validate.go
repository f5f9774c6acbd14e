// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateCollaborators(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch strings.ToLower(c.Database.Driver) {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DB_DRIVER=duckdb")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required when DB_DRIVER=postgres")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required when DB_DRIVER=postgres")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("DB_PORT must be between 1 and 65535")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be duckdb or postgres, got: %s", c.Database.Driver)
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

// validateRecommend rejects parameters the algorithms cannot run with.
func (c *Config) validateRecommend() error {
	r := c.Recommend
	positive := []struct {
		value int
		name  string
	}{
		{r.NumClusters, "RECOMMEND_NUM_CLUSTERS"},
		{r.TopN, "RECOMMEND_TOP_N"},
		{r.TopK, "RECOMMEND_TOP_K"},
		{r.OverFetchFactor, "RECOMMEND_OVER_FETCH_FACTOR"},
		{r.KMeansRestarts, "RECOMMEND_KMEANS_RESTARTS"},
		{r.KMeansMaxIter, "RECOMMEND_KMEANS_MAX_ITER"},
		{r.LemmaCacheSize, "RECOMMEND_LEMMA_CACHE_SIZE"},
	}
	for _, p := range positive {
		if p.value < 1 {
			return fmt.Errorf("%s must be at least 1, got: %d", p.name, p.value)
		}
	}
	if r.MinUserRatings < 0 || r.MinMovieRatings < 0 {
		return fmt.Errorf("RECOMMEND_MIN_USER_RATINGS and RECOMMEND_MIN_MOVIE_RATINGS must be non-negative")
	}
	if r.SimilarityThreshold < -1 || r.SimilarityThreshold > 1 {
		return fmt.Errorf("RECOMMEND_SIMILARITY_THRESHOLD must be between -1 and 1, got: %g", r.SimilarityThreshold)
	}
	if r.ClusterRefreshInterval < 0 {
		return fmt.Errorf("RECOMMEND_CLUSTER_REFRESH_INTERVAL must be non-negative")
	}
	return nil
}

func (c *Config) validateCollaborators() error {
	urls := []struct {
		value string
		name  string
	}{
		{c.Collaborators.Lemmatizer.URL, "LEMMATIZER_URL"},
		{c.Collaborators.Embedding.URL, "EMBEDDING_URL"},
		{c.Collaborators.Sentiment.URL, "SENTIMENT_URL"},
	}
	for _, u := range urls {
		if u.value == "" {
			return fmt.Errorf("%s is required", u.name)
		}
		if err := validateHTTPURL(u.value, u.name); err != nil {
			return fmt.Errorf("%s is invalid: %w", u.name, err)
		}
	}
	if c.Collaborators.Embedding.BatchSize < 1 {
		return fmt.Errorf("EMBEDDING_BATCH_SIZE must be at least 1")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "memory":
		if c.Cache.Capacity < 1 {
			return fmt.Errorf("CACHE_CAPACITY must be at least 1 for the memory backend")
		}
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
	case "none":
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory, redis or none, got: %s", c.Cache.Backend)
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case "memory":
		if c.Events.BufferSize < 0 {
			return fmt.Errorf("EVENTS_BUFFER_SIZE must be non-negative")
		}
	case "nats":
		if c.Events.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required when EVENTS_BACKEND=nats")
		}
		if !strings.HasPrefix(c.Events.NATSURL, "nats://") && !strings.HasPrefix(c.Events.NATSURL, "tls://") {
			return fmt.Errorf("NATS_URL must use nats:// or tls:// scheme, got: %s", c.Events.NATSURL)
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be memory or nats, got: %s", c.Events.Backend)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

var (
	validLogLevels = map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	validLogFormats = map[string]bool{
		"json": true, "console": true,
	}
)

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %s", c.Logging.Level)
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that rawURL is a bare http(s) base URL.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	// Allow trailing slash but no other paths
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsedURL.Path)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}
