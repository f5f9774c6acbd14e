// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"gonum.org/v1/gonum/floats"
)

// toFloat64 widens an embedding for accumulation.
func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// normalizeL2 scales v to unit length in place and returns it.
// A zero vector is left unchanged.
func normalizeL2(v []float64) []float64 {
	norm := floats.Norm(v, 2)
	if norm == 0 {
		return v
	}
	floats.Scale(1/norm, v)
	return v
}

// meanVector returns the element-wise mean of equal-length vectors.
func meanVector(vs [][]float64) []float64 {
	if len(vs) == 0 {
		return nil
	}
	mean := make([]float64, len(vs[0]))
	for _, v := range vs {
		floats.Add(mean, v)
	}
	floats.Scale(1/float64(len(vs)), mean)
	return mean
}

// normalizedMean is normalizeL2(meanVector(vs)).
func normalizedMean(vs [][]float64) []float64 {
	return normalizeL2(meanVector(vs))
}

// sqEuclidean returns the squared Euclidean distance between a and b.
func sqEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
