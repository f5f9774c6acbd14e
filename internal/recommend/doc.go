// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package recommend implements the movie recommendation engine.
//
// # Architecture
//
// The Engine dispatches requests to independent strategies that share no
// state (implementations live in the algorithms subpackage):
//
//   - clustering: TF-IDF over per-movie review documents, then k-means
//   - collaborative: min-max scaled user rows, cosine similarity and a
//     thresholded weighted rating prediction
//   - semantic: mean-pooled unit review embeddings, an exact inner-product
//     index and a fixed over-fetch factor
//   - popular: positive review counts
//
// Every call recomputes from a fresh read of the RatingStore. Derived
// structures (documents, matrices, vectors, indexes) are request-scoped.
// The engine never writes to the store.
//
// # Collaborators
//
// Strategies consume three interfaces: RatingStore, TextNormalizer and
// EmbeddingProvider. Normalizer and embedding failures are returned
// wrapped in ErrCollaborator and fail the request; nothing is retried.
// Empty input and unknown users produce empty results, not errors.
//
// # Result Cache
//
// When a ResultCache and a VersionSource are configured, results are
// cached under a key that includes the dataset version, so a new review
// makes old entries unreachable. Concurrent identical requests are
// collapsed with singleflight. Cache failures are logged and bypassed.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	engine.RegisterStrategy(algorithms.NewTopicClusterer(store, normalizer, cfg.Clustering))
//	engine.RegisterStrategy(algorithms.NewCollaborativeFilter(store))
//	engine.RegisterStrategy(algorithms.NewSemanticRetriever(store, embedder, cfg.Semantic))
//	engine.RegisterStrategy(algorithms.NewPopularity(store))
//
//	titles, err := engine.SemanticRecommend(ctx, userID, 5)
//
// # Thread Safety
//
// The engine and all strategies are safe for concurrent use.
package recommend
