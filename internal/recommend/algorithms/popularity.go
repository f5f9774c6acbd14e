// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// Popularity recommends the movies with the most positive reviews that the
// user has not reviewed. It needs no collaborators and serves as the
// baseline for cold-start users.
//
//	score(m) = count of positive reviews of m
//
// Ties are broken by ascending movie id.
type Popularity struct {
	BaseStrategy
}

// NewPopularity creates a popularity recommender.
func NewPopularity(store recommend.RatingStore) *Popularity {
	return &Popularity{
		BaseStrategy: NewBaseStrategy(recommend.StrategyPopular, store),
	}
}

// Recommend implements recommend.Strategy. req.K is the result size.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (p *Popularity) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	reviews, err := p.fetchReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	titles, err := recommend.ResolveTitles(ctx, p.store, popularRank(reviews, req.UserID, req.K))
	if err != nil {
		return nil, err
	}
	return &recommend.Result{
		Strategy: p.Name(),
		Titles:   titles,
	}, nil
}

//nolint:gocritic // rangeValCopy: Review is small enough to copy
func popularRank(reviews []recommend.Review, userID int64, k int) []int64 {
	if k <= 0 {
		return []int64{}
	}

	seen := reviewedBy(reviews, userID)
	counts := make(map[int64]int)
	for _, r := range reviews {
		if r.Sentiment != recommend.SentimentPositive {
			continue
		}
		if _, ok := seen[r.MovieID]; ok {
			continue
		}
		counts[r.MovieID]++
	}

	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if len(ids) > k {
		ids = ids[:k]
	}
	return ids
}
