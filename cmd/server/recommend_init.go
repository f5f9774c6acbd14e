// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/recommend/algorithms"
)

// recommendDeps are the collaborators the four strategies read from.
type recommendDeps struct {
	store      recommend.RatingStore
	versions   recommend.VersionSource
	normalizer recommend.TextNormalizer
	embedder   recommend.EmbeddingProvider
}

// buildEngineConfig maps the flat service configuration onto the engine's.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := recommend.DefaultConfig()

	ec.Clustering.NumClusters = cfg.Recommend.NumClusters
	ec.Clustering.Seed = cfg.Recommend.Seed
	ec.Clustering.Restarts = cfg.Recommend.KMeansRestarts
	ec.Clustering.MaxIter = cfg.Recommend.KMeansMaxIter

	ec.Collaborative = recommend.CFParams{
		TopN:                cfg.Recommend.TopN,
		SimilarityThreshold: cfg.Recommend.SimilarityThreshold,
		MinUserRatings:      cfg.Recommend.MinUserRatings,
		MinMovieRatings:     cfg.Recommend.MinMovieRatings,
	}

	ec.Semantic.TopK = cfg.Recommend.TopK
	ec.Semantic.OverFetchFactor = cfg.Recommend.OverFetchFactor
	ec.Popular.TopK = cfg.Recommend.TopK

	ec.Cache.Enabled = cfg.Cache.Backend != "none"
	ec.RequestTimeout = cfg.Server.RequestTimeout

	return ec
}

// initRecommend creates the engine and registers every strategy.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, deps recommendDeps, results recommend.ResultCache, logger zerolog.Logger) (*recommend.Engine, error) {
	ec := buildEngineConfig(cfg)

	engine, err := recommend.NewEngine(ec, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	engine.RegisterStrategy(algorithms.NewTopicClusterer(deps.store, deps.normalizer, ec.Clustering))
	engine.RegisterStrategy(algorithms.NewCollaborativeFilter(deps.store, ec.Collaborative))
	engine.RegisterStrategy(algorithms.NewSemanticRetriever(deps.store, deps.embedder, ec.Semantic))
	engine.RegisterStrategy(algorithms.NewPopularity(deps.store))

	if results != nil && deps.versions != nil {
		engine.SetResultCache(results, deps.versions)
	}

	logger.Info().
		Strs("strategies", engine.Strategies()).
		Int("num_clusters", ec.Clustering.NumClusters).
		Int("top_n", ec.Collaborative.TopN).
		Float64("similarity_threshold", ec.Collaborative.SimilarityThreshold).
		Int("top_k", ec.Semantic.TopK).
		Bool("result_cache", results != nil).
		Msg("Recommendation engine initialized")

	return engine, nil
}

// initResultCache selects the result cache backend. "none" yields nil.
func initResultCache(ctx context.Context, cfg config.CacheConfig) (recommend.ResultCache, error) {
	switch cfg.Backend {
	case "none", "":
		return nil, nil
	case "memory":
		return cache.NewMemoryStore(cfg.Capacity, cfg.TTL), nil
	case "redis":
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{URL: cfg.RedisURL, TTL: cfg.TTL})
		if err != nil {
			return nil, fmt.Errorf("connect result cache: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
