// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"errors"
	"math"
	"testing"
)

func TestFlatIPIndex(t *testing.T) {
	idx := NewFlatIPIndex(2)
	vectors := map[int64][]float64{
		1: {1, 0},
		2: {0.6, 0.8},
		3: {0, 1},
		4: {1, 0},
	}
	for _, id := range []int64{1, 2, 3, 4} {
		if err := idx.Add(id, vectors[id]); err != nil {
			t.Fatalf("Add(%d) error = %v", id, err)
		}
	}
	if idx.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", idx.Len())
	}

	tests := []struct {
		name    string
		query   []float64
		k       int
		wantIDs []int64
	}{
		{"ranked by inner product", []float64{0, 1}, 3, []int64{3, 2, 1}},
		{"ties keep insertion order", []float64{1, 0}, 2, []int64{1, 4}},
		{"k larger than index", []float64{1, 0}, 10, []int64{1, 4, 2, 3}},
		{"zero k", []float64{1, 0}, 0, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := idx.Search(tt.query, tt.k)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(hits) != len(tt.wantIDs) {
				t.Fatalf("len(hits) = %d, want %d", len(hits), len(tt.wantIDs))
			}
			for i, h := range hits {
				if h.ID != tt.wantIDs[i] {
					t.Errorf("hits[%d].ID = %d, want %d", i, h.ID, tt.wantIDs[i])
				}
			}
		})
	}

	t.Run("scores are inner products", func(t *testing.T) {
		hits, _ := idx.Search([]float64{0, 1}, 1)
		if math.Abs(hits[0].Score-1) > 1e-12 {
			t.Errorf("Score = %f, want 1", hits[0].Score)
		}
	})
}

func TestFlatIPIndex_DimensionMismatch(t *testing.T) {
	idx := NewFlatIPIndex(3)

	if err := idx.Add(1, []float64{1, 0}); !errors.Is(err, ErrIndexDimension) {
		t.Errorf("Add() error = %v, want ErrIndexDimension", err)
	}
	if _, err := idx.Search([]float64{1}, 1); !errors.Is(err, ErrIndexDimension) {
		t.Errorf("Search() error = %v, want ErrIndexDimension", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d after rejected Add", idx.Len())
	}
}

func TestFlatIPIndex_AddCopies(t *testing.T) {
	idx := NewFlatIPIndex(2)
	v := []float64{1, 0}
	_ = idx.Add(1, v)
	v[0] = -1

	hits, _ := idx.Search([]float64{1, 0}, 1)
	if hits[0].Score != 1 {
		t.Errorf("Score = %f, stored vector was aliased", hits[0].Score)
	}
}

func TestVectorHelpers(t *testing.T) {
	t.Run("normalizeL2", func(t *testing.T) {
		v := normalizeL2([]float64{3, 4})
		if math.Abs(v[0]-0.6) > 1e-12 || math.Abs(v[1]-0.8) > 1e-12 {
			t.Errorf("normalizeL2 = %v", v)
		}
		zero := normalizeL2([]float64{0, 0})
		if zero[0] != 0 || zero[1] != 0 {
			t.Errorf("zero vector changed: %v", zero)
		}
	})

	t.Run("normalizedMean", func(t *testing.T) {
		v := normalizedMean([][]float64{{1, 0}, {0, 1}})
		want := 1 / math.Sqrt2
		if math.Abs(v[0]-want) > 1e-12 || math.Abs(v[1]-want) > 1e-12 {
			t.Errorf("normalizedMean = %v", v)
		}
	})

	t.Run("meanVector empty", func(t *testing.T) {
		if meanVector(nil) != nil {
			t.Error("meanVector(nil) should be nil")
		}
	})
}
