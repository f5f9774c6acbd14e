// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// TopicClusterer groups reviewed movies into k topic clusters.
//
// Each movie becomes one document: the normalized tokens of all its reviews
// concatenated in review id order. Documents are vectorized with TF-IDF and
// clustered with seeded k-means, so the same data and k always yield the
// same partition.
type TopicClusterer struct {
	BaseStrategy

	normalizer recommend.TextNormalizer
	cfg        recommend.ClusteringConfig
}

// NewTopicClusterer creates a topic clusterer.
//
//nolint:gocritic // hugeParam: config passed by value at construction time only
func NewTopicClusterer(store recommend.RatingStore, normalizer recommend.TextNormalizer, cfg recommend.ClusteringConfig) *TopicClusterer {
	if cfg.NormalizeConcurrency < 1 {
		cfg.NormalizeConcurrency = 1
	}
	return &TopicClusterer{
		BaseStrategy: NewBaseStrategy(recommend.StrategyClustering, store),
		normalizer:   normalizer,
		cfg:          cfg,
	}
}

// Recommend implements recommend.Strategy. req.K is the cluster count.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (t *TopicClusterer) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	clusters, err := t.ClusterMovies(ctx, req.K)
	if err != nil {
		return nil, err
	}
	return &recommend.Result{
		Strategy: t.Name(),
		Clusters: clusters,
	}, nil
}

// ClusterMovies partitions every reviewed movie into one of k clusters and
// returns cluster id -> titles. Every id in [0, k) is present. With no
// reviews the result is empty.
func (t *TopicClusterer) ClusterMovies(ctx context.Context, k int) (map[int][]string, error) {
	if k <= 0 {
		return map[int][]string{}, nil
	}

	reviews, err := t.fetchReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	if len(reviews) == 0 {
		return map[int][]string{}, nil
	}

	movieIDs, docs, err := t.buildDocuments(ctx, reviews)
	if err != nil {
		return nil, err
	}

	features, _ := FitTransform(docs)

	res, err := KMeans(ctx, features, KMeansConfig{
		K:         k,
		Restarts:  t.cfg.Restarts,
		MaxIter:   t.cfg.MaxIter,
		Tolerance: t.cfg.Tolerance,
		Seed:      t.cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("kmeans: %w", err)
	}

	return recommend.ResolveClusters(ctx, t.store, k, movieIDs, res.Labels)
}

// buildDocuments normalizes every review concurrently and joins the tokens
// per movie. Reviews arrive ordered by id, which fixes token order within
// a document.
func (t *TopicClusterer) buildDocuments(ctx context.Context, reviews []recommend.Review) ([]int64, []string, error) {
	tokens := make([][]string, len(reviews))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.NormalizeConcurrency)
	for i := range reviews {
		g.Go(func() error {
			toks, err := t.normalizer.Normalize(gctx, reviews[i].Text)
			if err != nil {
				return err
			}
			tokens[i] = toks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, recommend.CollaboratorError("text normalizer", err)
	}

	movieIDs, byMovie := groupIndexByMovie(reviews)
	docs := make([]string, len(movieIDs))
	for i, id := range movieIDs {
		var doc []string
		for _, idx := range byMovie[id] {
			doc = append(doc, tokens[idx]...)
		}
		docs[i] = strings.Join(doc, " ")
	}
	return movieIDs, docs, nil
}
