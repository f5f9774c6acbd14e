// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package algorithms implements the recommendation strategies behind the
// engine in package recommend.
//
// Each strategy implements recommend.Strategy, reads the full review set
// from a recommend.RatingStore on every call and keeps no state between
// calls:
//
//   - TopicClusterer: TF-IDF over per-movie documents of normalized review
//     tokens, then seeded k-means with k-means++ initialization
//   - CollaborativeFilter: user x movie rating pivot, per-user min-max
//     scaling, cosine user similarity and a thresholded weighted prediction
//   - SemanticRetriever: unit review embeddings mean-pooled per movie and
//     searched with an exact inner-product index
//   - Popularity: positive review counts, the cold-start baseline
//
// # Building Blocks
//
// The numeric pieces are exported for reuse and testing:
//
//	features, vocab := algorithms.FitTransform(docs)
//	res, err := algorithms.KMeans(ctx, features, algorithms.KMeansConfig{K: 5, Restarts: 10, Seed: 42})
//	sim := algorithms.CosineSimilarity(ratings)
//
//	index := algorithms.NewFlatIPIndex(384)
//	_ = index.Add(movieID, vec)
//	hits, err := index.Search(query, 10)
//
// All matrix work uses gonum. Results are deterministic: rows are ordered
// by ascending movie or user id and ties are broken by id.
//
// # Usage Example
//
//	clusterer := algorithms.NewTopicClusterer(store, normalizer, cfg.Clustering)
//	clusters, err := clusterer.ClusterMovies(ctx, 5)
//
//	cf := algorithms.NewCollaborativeFilter(store, cfg.Collaborative)
//	titles, err := cf.RecommendForUser(ctx, userID, cfg.Collaborative)
package algorithms
