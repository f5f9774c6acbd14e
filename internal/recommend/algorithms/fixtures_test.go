// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/tomtom215/cinerec/internal/recommend"
)

var errFake = errors.New("fake failure")

// memoryStore is an in-memory recommend.RatingStore.
type memoryStore struct {
	reviews []recommend.Review
	titles  map[int64]string
	err     error
}

func (m *memoryStore) FetchAllReviews(_ context.Context) ([]recommend.Review, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]recommend.Review, len(m.reviews))
	copy(out, m.reviews)
	return out, nil
}

func (m *memoryStore) FetchMovies(_ context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if title, ok := m.titles[id]; ok {
			out[id] = title
		}
	}
	return out, nil
}

// titled names movie n "M<n>".
func titled(ids ...int64) map[int64]string {
	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		out[id] = fmt.Sprintf("M%d", id)
	}
	return out
}

// review builds a review with sequential ids assigned by the caller.
func review(id, user, movie int64, rating int, sentiment recommend.Sentiment, text string) recommend.Review {
	return recommend.Review{
		ID:        id,
		UserID:    user,
		MovieID:   movie,
		Rating:    rating,
		Sentiment: sentiment,
		Text:      text,
	}
}

// fieldsNormalizer lowercases and splits on whitespace.
type fieldsNormalizer struct {
	err   error
	calls atomic.Int64
}

func (f *fieldsNormalizer) Normalize(_ context.Context, raw string) ([]string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return strings.Fields(strings.ToLower(raw)), nil
}

// tableEmbedder returns a fixed vector per text.
type tableEmbedder struct {
	vectors map[string][]float32
	err     error
	short   bool
	calls   atomic.Int64
}

func (e *tableEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, ok := e.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", text)
		}
		out = append(out, v)
	}
	if e.short {
		out = out[:len(out)-1]
	}
	return out, nil
}
