// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"sort"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// BaseStrategy provides common functionality for all strategies.
type BaseStrategy struct {
	name  string
	store recommend.RatingStore
}

// NewBaseStrategy creates a new base strategy with the given name.
func NewBaseStrategy(name string, store recommend.RatingStore) BaseStrategy {
	return BaseStrategy{
		name:  name,
		store: store,
	}
}

// Name returns the strategy identifier.
func (b *BaseStrategy) Name() string {
	return b.name
}

// fetchReviews reads the full review set for one request.
func (b *BaseStrategy) fetchReviews(ctx context.Context) ([]recommend.Review, error) {
	reviews, err := b.store.FetchAllReviews(ctx)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// groupIndexByMovie maps each movie to the positions of its reviews. The
// returned ids are ascending so every downstream structure has a
// deterministic row order.
//
//nolint:gocritic // rangeValCopy: Review is small enough to copy
func groupIndexByMovie(reviews []recommend.Review) ([]int64, map[int64][]int) {
	byMovie := make(map[int64][]int)
	for i, r := range reviews {
		byMovie[r.MovieID] = append(byMovie[r.MovieID], i)
	}

	ids := make([]int64, 0, len(byMovie))
	for id := range byMovie {
		ids = append(ids, id)
	}
	sortInt64s(ids)
	return ids, byMovie
}

// reviewedBy returns the set of movies the user reviewed with any sentiment.
//
//nolint:gocritic // rangeValCopy: Review is small enough to copy
func reviewedBy(reviews []recommend.Review, userID int64) map[int64]struct{} {
	seen := make(map[int64]struct{})
	for _, r := range reviews {
		if r.UserID == userID {
			seen[r.MovieID] = struct{}{}
		}
	}
	return seen
}

func sortInt64s(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// Ensure all strategies implement the interface.
var (
	_ recommend.Strategy = (*TopicClusterer)(nil)
	_ recommend.Strategy = (*CollaborativeFilter)(nil)
	_ recommend.Strategy = (*SemanticRetriever)(nil)
	_ recommend.Strategy = (*Popularity)(nil)
)
