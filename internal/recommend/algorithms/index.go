// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ErrIndexDimension is returned when a vector does not match the index
// dimension.
var ErrIndexDimension = errors.New("vector dimension mismatch")

// Hit is one search result.
type Hit struct {
	ID    int64
	Score float64
}

// FlatIPIndex is an exact inner-product index. With unit vectors the score
// equals cosine similarity. It is built per request and not safe for
// concurrent mutation.
type FlatIPIndex struct {
	dim  int
	ids  []int64
	data []float64
}

// NewFlatIPIndex creates an empty index for vectors of length dim.
func NewFlatIPIndex(dim int) *FlatIPIndex {
	return &FlatIPIndex{dim: dim}
}

// Dim returns the vector dimension.
func (x *FlatIPIndex) Dim() int {
	return x.dim
}

// Len returns the number of stored vectors.
func (x *FlatIPIndex) Len() int {
	return len(x.ids)
}

// Add stores vec under id. The vector is copied.
func (x *FlatIPIndex) Add(id int64, vec []float64) error {
	if len(vec) != x.dim {
		return fmt.Errorf("%w: index has %d, got %d", ErrIndexDimension, x.dim, len(vec))
	}
	x.ids = append(x.ids, id)
	x.data = append(x.data, vec...)
	return nil
}

// Search returns up to k stored ids by descending inner product with
// query. Equal scores keep insertion order.
func (x *FlatIPIndex) Search(query []float64, k int) ([]Hit, error) {
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: index has %d, got %d", ErrIndexDimension, x.dim, len(query))
	}
	if k <= 0 || len(x.ids) == 0 || x.dim == 0 {
		return []Hit{}, nil
	}

	vectors := mat.NewDense(len(x.ids), x.dim, x.data)
	scores := mat.NewVecDense(len(x.ids), nil)
	scores.MulVec(vectors, mat.NewVecDense(x.dim, query))

	hits := make([]Hit, len(x.ids))
	for i, id := range x.ids {
		hits[i] = Hit{ID: id, Score: scores.AtVec(i)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}
