// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// CollaborativeFilter predicts ratings for unseen movies from the ratings
// of similar users.
//
// Algorithm:
//  1. Drop users and movies below the rating-count minimums, both counted
//     on the unfiltered review set.
//  2. Pivot to a user x movie matrix of raw ratings (duplicates averaged,
//     missing cells 0).
//  3. Min-max scale every user row to [0, 1]; constant rows become 0.
//  4. Cosine similarity between scaled rows.
//  5. For every movie the user has not rated:
//
//	score(m) = sum(raw[v][m] * sim(u, v)) / sum(sim(u, v))
//
// over users v != u with sim(u, v) >= threshold. Movies are ranked by
// score descending, ties by ascending movie id.
type CollaborativeFilter struct {
	BaseStrategy

	defaults recommend.CFParams
}

// NewCollaborativeFilter creates a collaborative filter. Requests without
// explicit parameters use defaults.
func NewCollaborativeFilter(store recommend.RatingStore, defaults recommend.CFParams) *CollaborativeFilter {
	return &CollaborativeFilter{
		BaseStrategy: NewBaseStrategy(recommend.StrategyCollaborative, store),
		defaults:     defaults,
	}
}

// Recommend implements recommend.Strategy.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (c *CollaborativeFilter) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	params := c.defaults
	if req.Collaborative != nil {
		params = *req.Collaborative
	}

	titles, err := c.RecommendForUser(ctx, req.UserID, params)
	if err != nil {
		return nil, err
	}
	return &recommend.Result{
		Strategy: c.Name(),
		Titles:   titles,
	}, nil
}

// RecommendForUser returns up to params.TopN titles for userID. Unknown
// users, users filtered out by the minimums and users without similar
// peers get an empty list.
func (c *CollaborativeFilter) RecommendForUser(ctx context.Context, userID int64, params recommend.CFParams) ([]string, error) {
	if params.TopN <= 0 {
		return []string{}, nil
	}

	reviews, err := c.fetchReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked := collaborativeRank(reviews, userID, params)
	return recommend.ResolveTitles(ctx, c.store, ranked)
}

// collaborativeRank is the pure ranking step of the collaborative filter.
//
//nolint:gocritic // rangeValCopy: Review is small enough to copy
func collaborativeRank(reviews []recommend.Review, userID int64, p recommend.CFParams) []int64 {
	userCount := make(map[int64]int)
	movieCount := make(map[int64]int)
	for _, r := range reviews {
		userCount[r.UserID]++
		movieCount[r.MovieID]++
	}

	if userCount[userID] < p.MinUserRatings {
		return []int64{}
	}

	type cell struct{ user, movie int64 }
	sums := make(map[cell]float64)
	counts := make(map[cell]int)
	userSet := make(map[int64]struct{})
	movieSet := make(map[int64]struct{})

	for _, r := range reviews {
		if userCount[r.UserID] < p.MinUserRatings || movieCount[r.MovieID] < p.MinMovieRatings {
			continue
		}
		key := cell{r.UserID, r.MovieID}
		sums[key] += float64(r.Rating)
		counts[key]++
		userSet[r.UserID] = struct{}{}
		movieSet[r.MovieID] = struct{}{}
	}

	if _, ok := userSet[userID]; !ok {
		return []int64{}
	}

	users := sortedKeys(userSet)
	movies := sortedKeys(movieSet)
	userIdx := indexOf(users)
	movieIdx := indexOf(movies)

	raw := mat.NewDense(len(users), len(movies), nil)
	for key, sum := range sums {
		raw.Set(userIdx[key.user], movieIdx[key.movie], sum/float64(counts[key]))
	}

	scaled := minMaxScaleRows(raw)
	sim := CosineSimilarity(scaled)

	target := userIdx[userID]
	var peers []int
	for v := range users {
		if v != target && sim.At(target, v) >= p.SimilarityThreshold {
			peers = append(peers, v)
		}
	}
	if len(peers) == 0 {
		return []int64{}
	}

	var denom float64
	for _, v := range peers {
		denom += sim.At(target, v)
	}

	type scored struct {
		id    int64
		score float64
	}
	candidates := make([]scored, 0, len(movies))
	for j, id := range movies {
		if raw.At(target, j) > 0 {
			continue
		}
		var score float64
		if denom != 0 {
			var num float64
			for _, v := range peers {
				num += raw.At(v, j) * sim.At(target, v)
			}
			score = num / denom
		}
		candidates = append(candidates, scored{id: id, score: score})
	}

	// movies are ascending, so a stable sort breaks ties by id
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > p.TopN {
		candidates = candidates[:p.TopN]
	}
	out := make([]int64, len(candidates))
	for i, s := range candidates {
		out[i] = s.id
	}
	return out
}

// minMaxScaleRows scales each row to [0, 1] using that row's own minimum
// and maximum, zero cells included. Constant rows become all zeros.
func minMaxScaleRows(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		src := m.RawRowView(i)
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, x := range src {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
		span := hi - lo
		if span == 0 {
			continue
		}
		dst := out.RawRowView(i)
		for j, x := range src {
			dst[j] = (x - lo) / span
		}
	}
	return out
}

// CosineSimilarity returns the symmetric row-by-row cosine similarity of m.
// Rows with zero norm have similarity 0 to everything, themselves included;
// every other row has exactly 1 on the diagonal. Returns nil for an empty
// matrix.
func CosineSimilarity(m *mat.Dense) *mat.SymDense {
	r, _ := m.Dims()
	if r == 0 {
		return nil
	}
	sim := mat.NewSymDense(r, nil)
	sim.SymOuterK(1, m)

	norms := make([]float64, r)
	for i := 0; i < r; i++ {
		norms[i] = math.Sqrt(sim.At(i, i))
	}

	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			switch {
			case norms[i] == 0 || norms[j] == 0:
				sim.SetSym(i, j, 0)
			case i == j:
				sim.SetSym(i, j, 1)
			default:
				sim.SetSym(i, j, sim.At(i, j)/(norms[i]*norms[j]))
			}
		}
	}
	return sim
}

func sortedKeys(set map[int64]struct{}) []int64 {
	keys := make([]int64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sortInt64s(keys)
	return keys
}

func indexOf(ids []int64) map[int64]int {
	idx := make(map[int64]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}
