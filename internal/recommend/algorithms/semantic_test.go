// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/cinerec/internal/recommend"
)

const (
	pos = recommend.SentimentPositive
	neg = recommend.SentimentNegative
	neu = recommend.SentimentNeutral
)

func semanticConfig() recommend.SemanticConfig {
	return recommend.DefaultConfig().Semantic
}

// Texts point in fixed directions of a 2-d space. Scales differ to show
// that every vector is normalized before pooling.
func directionEmbedder() *tableEmbedder {
	return &tableEmbedder{vectors: map[string][]float32{
		"east":      {2, 0},
		"east-too":  {5, 0},
		"northeast": {0.6, 0.8},
		"north":     {0, 3},
		"south":     {0, -1},
	}}
}

func TestSemanticRetriever_RecommendForUser(t *testing.T) {
	tests := []struct {
		name    string
		reviews []recommend.Review
		userID  int64
		topK    int
		want    []string
	}{
		{
			name: "ranked by closeness to positive reviews",
			reviews: []recommend.Review{
				review(1, 1, 1, 9, pos, "east"),
				review(2, 2, 2, 8, pos, "east-too"),
				review(3, 2, 3, 8, pos, "northeast"),
				review(4, 3, 4, 8, pos, "north"),
			},
			userID: 1,
			topK:   5,
			want:   []string{"M2", "M3", "M4"},
		},
		{
			name: "no positive reviews",
			reviews: []recommend.Review{
				review(1, 1, 1, 2, neg, "east"),
				review(2, 1, 2, 5, neu, "north"),
				review(3, 2, 3, 8, pos, "east-too"),
			},
			userID: 1,
			topK:   5,
			want:   []string{},
		},
		{
			name: "unknown user",
			reviews: []recommend.Review{
				review(1, 2, 1, 9, pos, "east"),
			},
			userID: 42,
			topK:   5,
			want:   []string{},
		},
		{
			name: "movies reviewed with any sentiment are excluded",
			reviews: []recommend.Review{
				review(1, 1, 1, 9, pos, "east"),
				review(2, 1, 2, 2, neg, "east-too"),
				review(3, 2, 2, 9, pos, "east-too"),
				review(4, 2, 3, 8, pos, "northeast"),
				review(5, 3, 4, 8, pos, "north"),
			},
			userID: 1,
			topK:   5,
			want:   []string{"M3", "M4"},
		},
		{
			name: "over-fetched candidates are not re-queried",
			reviews: []recommend.Review{
				review(1, 1, 1, 9, pos, "east"),
				review(2, 1, 2, 3, neg, "east-too"),
				review(3, 2, 3, 8, pos, "northeast"),
			},
			userID: 1,
			topK:   1,
			want:   []string{},
		},
		{
			name: "taste vector averages positive reviews",
			reviews: []recommend.Review{
				review(1, 1, 1, 9, pos, "east"),
				review(2, 1, 2, 9, pos, "north"),
				review(3, 2, 3, 8, pos, "south"),
				review(4, 2, 4, 8, pos, "northeast"),
			},
			userID: 1,
			topK:   2,
			want:   []string{"M4", "M3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{reviews: tt.reviews, titles: titled(1, 2, 3, 4)}
			s := NewSemanticRetriever(store, directionEmbedder(), semanticConfig())

			got, err := s.RecommendForUser(context.Background(), tt.userID, tt.topK)
			if err != nil {
				t.Fatalf("RecommendForUser() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RecommendForUser() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSemanticRetriever_PooledVectorsAreUnitLength(t *testing.T) {
	// Orthogonal reviews pool to a mean of length 1/sqrt(2) before
	// normalization.
	reviews := []recommend.Review{
		review(1, 1, 1, 9, pos, "east"),
		review(2, 1, 1, 9, pos, "north"),
		review(3, 2, 2, 8, pos, "northeast"),
		review(4, 2, 3, 8, pos, "east-too"),
		review(5, 3, 3, 7, pos, "south"),
	}
	s := NewSemanticRetriever(&memoryStore{reviews: reviews}, directionEmbedder(), semanticConfig())

	vectors, err := s.embedReviews(context.Background(), reviews)
	if err != nil {
		t.Fatalf("embedReviews() error = %v", err)
	}
	if raw := floats.Norm(meanVector(vectors[:2]), 2); raw > 0.99 {
		t.Fatalf("raw mean norm = %v, want < 1 for this fixture", raw)
	}

	const tol = 1e-9
	index, err := movieIndex(reviews, vectors)
	if err != nil {
		t.Fatalf("movieIndex() error = %v", err)
	}
	if index.Len() != 3 {
		t.Fatalf("index.Len() = %d, want 3", index.Len())
	}
	for i := 0; i < index.Len(); i++ {
		row := index.data[i*index.Dim() : (i+1)*index.Dim()]
		if n := floats.Norm(row, 2); math.Abs(n-1) > tol {
			t.Errorf("movie %d vector norm = %v, want 1", index.ids[i], n)
		}
	}

	taste := tasteVector(vectors, []int{0, 1})
	if n := floats.Norm(taste, 2); math.Abs(n-1) > tol {
		t.Errorf("taste vector norm = %v, want 1", n)
	}
	want := 1 / math.Sqrt2
	if math.Abs(taste[0]-want) > tol || math.Abs(taste[1]-want) > tol {
		t.Errorf("taste vector = %v, want [%v %v]", taste, want, want)
	}
}

func TestSemanticRetriever_NoEmbeddingWithoutPositiveReviews(t *testing.T) {
	emb := directionEmbedder()
	store := &memoryStore{
		reviews: []recommend.Review{review(1, 1, 1, 2, neg, "east")},
		titles:  titled(1),
	}
	s := NewSemanticRetriever(store, emb, semanticConfig())

	if _, err := s.RecommendForUser(context.Background(), 1, 5); err != nil {
		t.Fatalf("RecommendForUser() error = %v", err)
	}
	if emb.calls.Load() != 0 {
		t.Errorf("Embed called %d times, want 0", emb.calls.Load())
	}
}

func TestSemanticRetriever_EmbedsDistinctTextsOnce(t *testing.T) {
	emb := directionEmbedder()
	store := &memoryStore{
		reviews: []recommend.Review{
			review(1, 1, 1, 9, pos, "east"),
			review(2, 2, 2, 9, pos, "east"),
			review(3, 3, 3, 9, pos, "north"),
		},
		titles: titled(1, 2, 3),
	}
	s := NewSemanticRetriever(store, emb, semanticConfig())

	got, err := s.RecommendForUser(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("RecommendForUser() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"M2", "M3"}) {
		t.Errorf("RecommendForUser() = %v", got)
	}
	if emb.calls.Load() != 1 {
		t.Errorf("Embed called %d times, want 1", emb.calls.Load())
	}
}

func TestSemanticRetriever_Errors(t *testing.T) {
	reviews := []recommend.Review{
		review(1, 1, 1, 9, pos, "east"),
		review(2, 2, 2, 9, pos, "north"),
	}

	tests := []struct {
		name     string
		embedder *tableEmbedder
	}{
		{"provider failure", &tableEmbedder{err: errFake}},
		{"vector count mismatch", &tableEmbedder{vectors: directionEmbedder().vectors, short: true}},
		{"dimension mismatch", &tableEmbedder{vectors: map[string][]float32{"east": {1, 0}, "north": {0, 1, 0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{reviews: reviews, titles: titled(1, 2)}
			s := NewSemanticRetriever(store, tt.embedder, semanticConfig())

			_, err := s.RecommendForUser(context.Background(), 1, 5)
			if !errors.Is(err, recommend.ErrCollaborator) {
				t.Errorf("error = %v, want ErrCollaborator", err)
			}
		})
	}
}

func TestSemanticRetriever_Recommend(t *testing.T) {
	store := &memoryStore{
		reviews: []recommend.Review{
			review(1, 1, 1, 9, pos, "east"),
			review(2, 2, 2, 9, pos, "east-too"),
		},
		titles: titled(1, 2),
	}
	s := NewSemanticRetriever(store, directionEmbedder(), semanticConfig())

	res, err := s.Recommend(context.Background(), recommend.Request{UserID: 1})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Strategy != recommend.StrategySemantic {
		t.Errorf("Strategy = %q", res.Strategy)
	}
	if !reflect.DeepEqual(res.Titles, []string{"M2"}) {
		t.Errorf("Titles = %v, want [M2]", res.Titles)
	}
}
