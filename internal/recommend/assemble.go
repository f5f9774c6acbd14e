// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"fmt"
)

// ResolveTitles maps ranked movie ids to titles, preserving order. Ids
// unknown to the store are skipped. The result is never nil.
func ResolveTitles(ctx context.Context, store RatingStore, ids []int64) ([]string, error) {
	titles := make([]string, 0, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	byID, err := store.FetchMovies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch movies: %w", err)
	}

	for _, id := range ids {
		if title, ok := byID[id]; ok {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// ResolveClusters maps cluster assignments to titles. Every cluster id in
// [0, k) is present in the output, empty clusters as empty slices.
func ResolveClusters(ctx context.Context, store RatingStore, k int, movieIDs []int64, labels []int) (map[int][]string, error) {
	out := make(map[int][]string, k)
	for c := 0; c < k; c++ {
		out[c] = []string{}
	}
	if len(movieIDs) == 0 {
		return out, nil
	}

	byID, err := store.FetchMovies(ctx, movieIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch movies: %w", err)
	}

	for i, id := range movieIDs {
		title, ok := byID[id]
		if !ok {
			continue
		}
		out[labels[i]] = append(out[labels[i]], title)
	}
	return out, nil
}
