// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
// The defaults returned by DefaultConfig are part of the public API and
// must be reproduced exactly.
type Config struct {
	// Clustering contains parameters for the topic clusterer.
	Clustering ClusteringConfig `json:"clustering"`

	// Collaborative contains the default collaborative filter parameters.
	Collaborative CFParams `json:"collaborative"`

	// Semantic contains parameters for the semantic retriever.
	Semantic SemanticConfig `json:"semantic"`

	// Popular contains parameters for the popularity recommender.
	Popular PopularConfig `json:"popular"`

	// Cache controls the dataset-version result cache.
	Cache CacheConfig `json:"cache"`

	// RequestTimeout bounds a single recommendation call. Zero disables it.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// ClusteringConfig contains parameters for TF-IDF + k-means clustering.
type ClusteringConfig struct {
	// NumClusters is the default k.
	// Default: 5.
	NumClusters int `json:"num_clusters"`

	// Seed makes k-means++ initialization reproducible.
	// Default: 42.
	Seed int64 `json:"seed"`

	// Restarts is the number of k-means runs; the lowest inertia wins.
	// Default: 10.
	Restarts int `json:"restarts"`

	// MaxIter bounds Lloyd iterations per run.
	// Default: 300.
	MaxIter int `json:"max_iter"`

	// Tolerance is the relative center-shift threshold for convergence.
	// Default: 1e-4.
	Tolerance float64 `json:"tolerance"`

	// NormalizeConcurrency bounds concurrent Normalize calls per request.
	// Default: 8.
	NormalizeConcurrency int `json:"normalize_concurrency"`
}

// SemanticConfig contains parameters for the semantic retriever.
type SemanticConfig struct {
	// TopK is the default number of titles returned.
	// Default: 5.
	TopK int `json:"top_k"`

	// OverFetchFactor multiplies TopK for the index query so that movies
	// the user already reviewed can be skipped without re-querying. It is
	// a heuristic; fewer than TopK titles may come back.
	// Default: 2.
	OverFetchFactor int `json:"over_fetch_factor"`
}

// PopularConfig contains parameters for the popularity recommender.
type PopularConfig struct {
	// TopK is the default number of titles returned.
	// Default: 5.
	TopK int `json:"top_k"`
}

// CacheConfig controls result caching.
type CacheConfig struct {
	// Enabled turns on the result cache when a ResultCache and a
	// VersionSource are both configured.
	// Default: true.
	Enabled bool `json:"enabled"`
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Clustering: ClusteringConfig{
			NumClusters:          5,
			Seed:                 42,
			Restarts:             10,
			MaxIter:              300,
			Tolerance:            1e-4,
			NormalizeConcurrency: 8,
		},
		Collaborative: CFParams{
			TopN:                5,
			SimilarityThreshold: 0.3,
			MinUserRatings:      2,
			MinMovieRatings:     2,
		},
		Semantic: SemanticConfig{
			TopK:            5,
			OverFetchFactor: 2,
		},
		Popular: PopularConfig{
			TopK: 5,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		RequestTimeout: 60 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Clustering.NumClusters < 1 {
		return fmt.Errorf("clustering.num_clusters must be positive, got %d", c.Clustering.NumClusters)
	}
	if c.Clustering.Restarts < 1 {
		return fmt.Errorf("clustering.restarts must be positive, got %d", c.Clustering.Restarts)
	}
	if c.Clustering.MaxIter < 1 {
		return fmt.Errorf("clustering.max_iter must be positive, got %d", c.Clustering.MaxIter)
	}
	if c.Clustering.Tolerance < 0 {
		return fmt.Errorf("clustering.tolerance must be non-negative, got %g", c.Clustering.Tolerance)
	}
	if c.Clustering.NormalizeConcurrency < 1 {
		return fmt.Errorf("clustering.normalize_concurrency must be positive, got %d", c.Clustering.NormalizeConcurrency)
	}

	if err := c.Collaborative.Validate(); err != nil {
		return fmt.Errorf("collaborative: %w", err)
	}

	if c.Semantic.TopK < 1 {
		return fmt.Errorf("semantic.top_k must be positive, got %d", c.Semantic.TopK)
	}
	if c.Semantic.OverFetchFactor < 1 {
		return fmt.Errorf("semantic.over_fetch_factor must be positive, got %d", c.Semantic.OverFetchFactor)
	}
	if c.Popular.TopK < 1 {
		return fmt.Errorf("popular.top_k must be positive, got %d", c.Popular.TopK)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative, got %v", c.RequestTimeout)
	}

	return nil
}

// Validate checks collaborative filter parameters.
func (p CFParams) Validate() error {
	if p.TopN < 1 {
		return fmt.Errorf("top_n must be positive, got %d", p.TopN)
	}
	if p.SimilarityThreshold < -1 || p.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [-1, 1], got %g", p.SimilarityThreshold)
	}
	if p.MinUserRatings < 0 {
		return fmt.Errorf("min_user_ratings must be non-negative, got %d", p.MinUserRatings)
	}
	if p.MinMovieRatings < 0 {
		return fmt.Errorf("min_movie_ratings must be non-negative, got %d", p.MinMovieRatings)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types
	clone := *c
	return &clone
}
