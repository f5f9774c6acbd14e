// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// SemanticRetriever recommends movies whose reviews are close in embedding
// space to the user's positive reviews.
//
// Every review text is embedded and L2-normalized. A movie vector is the
// normalized mean of its review vectors; the user's taste vector is the
// normalized mean of their positive review vectors. Movies are ranked by
// inner product with the taste vector in an exact index. The index is
// queried once for OverFetchFactor * topK hits and already reviewed movies
// are skipped, so fewer than topK titles may come back.
type SemanticRetriever struct {
	BaseStrategy

	embedder recommend.EmbeddingProvider
	cfg      recommend.SemanticConfig
}

// NewSemanticRetriever creates a semantic retriever.
func NewSemanticRetriever(store recommend.RatingStore, embedder recommend.EmbeddingProvider, cfg recommend.SemanticConfig) *SemanticRetriever {
	if cfg.OverFetchFactor < 1 {
		cfg.OverFetchFactor = 1
	}
	return &SemanticRetriever{
		BaseStrategy: NewBaseStrategy(recommend.StrategySemantic, store),
		embedder:     embedder,
		cfg:          cfg,
	}
}

// Recommend implements recommend.Strategy. req.K is the result size.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *SemanticRetriever) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	topK := req.K
	if topK == 0 {
		topK = s.cfg.TopK
	}

	titles, err := s.RecommendForUser(ctx, req.UserID, topK)
	if err != nil {
		return nil, err
	}
	return &recommend.Result{
		Strategy: s.Name(),
		Titles:   titles,
	}, nil
}

// RecommendForUser returns up to topK titles. A user without positive
// reviews gets an empty list and no embedding call is made.
//
//nolint:gocritic // rangeValCopy: Review is small enough to copy
func (s *SemanticRetriever) RecommendForUser(ctx context.Context, userID int64, topK int) ([]string, error) {
	if topK <= 0 {
		return []string{}, nil
	}

	reviews, err := s.fetchReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	var positive []int
	for i, r := range reviews {
		if r.UserID == userID && r.Sentiment == recommend.SentimentPositive {
			positive = append(positive, i)
		}
	}
	if len(positive) == 0 {
		return []string{}, nil
	}

	vectors, err := s.embedReviews(ctx, reviews)
	if err != nil {
		return nil, err
	}

	index, err := movieIndex(reviews, vectors)
	if err != nil {
		return nil, err
	}

	hits, err := index.Search(tasteVector(vectors, positive), topK*s.cfg.OverFetchFactor)
	if err != nil {
		return nil, err
	}

	seen := reviewedBy(reviews, userID)
	ranked := make([]int64, 0, topK)
	for _, h := range hits {
		if _, ok := seen[h.ID]; ok {
			continue
		}
		ranked = append(ranked, h.ID)
		if len(ranked) == topK {
			break
		}
	}

	return recommend.ResolveTitles(ctx, s.store, ranked)
}

// movieIndex stores one unit vector per movie: the normalized mean of
// its review vectors.
func movieIndex(reviews []recommend.Review, vectors [][]float64) (*FlatIPIndex, error) {
	movieIDs, byMovie := groupIndexByMovie(reviews)
	index := NewFlatIPIndex(len(vectors[0]))
	for _, id := range movieIDs {
		group := make([][]float64, 0, len(byMovie[id]))
		for _, idx := range byMovie[id] {
			group = append(group, vectors[idx])
		}
		if err := index.Add(id, normalizedMean(group)); err != nil {
			return nil, err
		}
	}
	return index, nil
}

// tasteVector is the normalized mean of the vectors at positive.
func tasteVector(vectors [][]float64, positive []int) []float64 {
	taste := make([][]float64, len(positive))
	for i, idx := range positive {
		taste[i] = vectors[idx]
	}
	return normalizedMean(taste)
}

// embedReviews embeds each distinct review text once and returns one unit
// vector per review, aligned with reviews.
//
//nolint:gocritic // rangeValCopy: Review is small enough to copy
func (s *SemanticRetriever) embedReviews(ctx context.Context, reviews []recommend.Review) ([][]float64, error) {
	textIdx := make(map[string]int)
	texts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := textIdx[r.Text]; !ok {
			textIdx[r.Text] = len(texts)
			texts = append(texts, r.Text)
		}
	}

	raw, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, recommend.CollaboratorError("embedding provider", err)
	}
	if len(raw) != len(texts) {
		return nil, recommend.CollaboratorError("embedding provider",
			fmt.Errorf("got %d vectors for %d texts", len(raw), len(texts)))
	}

	dim := len(raw[0])
	if dim == 0 {
		return nil, recommend.CollaboratorError("embedding provider", fmt.Errorf("empty vectors"))
	}
	unit := make([][]float64, len(raw))
	for i, v := range raw {
		if len(v) != dim {
			return nil, recommend.CollaboratorError("embedding provider",
				fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim))
		}
		unit[i] = normalizeL2(toFloat64(v))
	}

	out := make([][]float64, len(reviews))
	for i, r := range reviews {
		out[i] = unit[textIdx[r.Text]]
	}
	return out, nil
}
