// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KMeansConfig contains parameters for k-means clustering.
type KMeansConfig struct {
	// K is the number of clusters.
	K int

	// Restarts is the number of independent runs. The run with the lowest
	// inertia wins; ties go to the earliest run.
	Restarts int

	// MaxIter bounds Lloyd iterations per run.
	MaxIter int

	// Tolerance is relative to the mean per-feature variance of the data.
	// A run converges when the summed squared centroid shift falls to or
	// below Tolerance * meanVariance.
	Tolerance float64

	// Seed drives every random choice. Equal seeds give equal results
	// regardless of scheduling.
	Seed int64
}

// KMeansResult is the best run of a KMeans call.
type KMeansResult struct {
	// Labels assigns each row of the input to a cluster in [0, K).
	Labels []int

	// Centroids is the K x d centroid matrix. Nil when every row got its
	// own cluster without running Lloyd iterations.
	Centroids *mat.Dense

	// Inertia is the sum of squared distances to the assigned centroid.
	Inertia float64

	// Iterations is the number of Lloyd iterations of the winning run.
	Iterations int
}

// KMeans clusters the rows of X with Euclidean k-means and k-means++
// initialization. With no more rows than clusters each row becomes its
// own cluster (row i -> cluster i) and the remaining ids stay empty.
//
// Restarts run in parallel, each with its own seeded source, so the result
// only depends on X and cfg.
func KMeans(ctx context.Context, X *mat.Dense, cfg KMeansConfig) (*KMeansResult, error) {
	if cfg.K < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", cfg.K)
	}
	if cfg.Restarts < 1 {
		cfg.Restarts = 1
	}
	if cfg.MaxIter < 1 {
		cfg.MaxIter = 300
	}

	if X == nil || X.IsEmpty() {
		return &KMeansResult{Labels: []int{}}, nil
	}

	n, _ := X.Dims()
	if n <= cfg.K {
		labels := make([]int, n)
		for i := range labels {
			labels[i] = i
		}
		return &KMeansResult{Labels: labels}, nil
	}

	tol := cfg.Tolerance * meanVariance(X)

	// Derive per-run seeds up front so parallel runs stay reproducible
	master := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // math/rand is fine for clustering initialization
	seeds := make([]int64, cfg.Restarts)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	runs := make([]*KMeansResult, cfg.Restarts)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for r := range seeds {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seeds[r])) //nolint:gosec // see above
			centroids := initializeCentroidsKMeansPlusPlus(X, cfg.K, rng)
			res, err := lloyd(gctx, X, centroids, cfg.MaxIter, tol)
			if err != nil {
				return err
			}
			runs[r] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := runs[0]
	for _, run := range runs[1:] {
		if run.Inertia < best.Inertia {
			best = run
		}
	}
	return best, nil
}

// initializeCentroidsKMeansPlusPlus picks K initial centroids with greedy
// k-means++: each step samples 2+ln(K) candidates proportionally to the
// squared distance to the nearest chosen centroid and keeps the candidate
// that lowers the total potential most.
func initializeCentroidsKMeansPlusPlus(X *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, d := X.Dims()
	centroids := mat.NewDense(k, d, nil)
	trials := 2 + int(math.Log(float64(k)))

	first := rng.Intn(n)
	centroids.SetRow(0, X.RawRowView(first))

	closest := make([]float64, n)
	for i := 0; i < n; i++ {
		closest[i] = sqEuclidean(X.RawRowView(i), X.RawRowView(first))
	}
	potential := floats.Sum(closest)

	cumulative := make([]float64, n)
	candidateDist := make([]float64, n)
	bestDist := make([]float64, n)

	for c := 1; c < k; c++ {
		if potential == 0 {
			// All remaining points coincide with a chosen centroid
			centroids.SetRow(c, X.RawRowView(rng.Intn(n)))
			continue
		}

		floats.CumSum(cumulative, closest)

		bestCandidate := -1
		bestPotential := math.Inf(1)
		for t := 0; t < trials; t++ {
			target := rng.Float64() * potential
			cand := sort.SearchFloat64s(cumulative, target)
			if cand >= n {
				cand = n - 1
			}

			point := X.RawRowView(cand)
			for i := 0; i < n; i++ {
				candidateDist[i] = math.Min(closest[i], sqEuclidean(X.RawRowView(i), point))
			}
			if p := floats.Sum(candidateDist); p < bestPotential {
				bestPotential = p
				bestCandidate = cand
				copy(bestDist, candidateDist)
			}
		}

		centroids.SetRow(c, X.RawRowView(bestCandidate))
		copy(closest, bestDist)
		potential = bestPotential
	}

	return centroids
}

// lloyd runs Lloyd iterations from the given centroids, then performs a
// final assignment so labels always match the returned centroids.
func lloyd(ctx context.Context, X, centroids *mat.Dense, maxIter int, tol float64) (*KMeansResult, error) {
	n, _ := X.Dims()
	labels := make([]int, n)
	dist := make([]float64, n)

	iter := 0
	for iter < maxIter {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iter++

		assignPointsToClusters(X, centroids, labels, dist)
		updated := updateCentroids(X, labels, dist, centroids)
		shift := centroidShift(centroids, updated)
		centroids = updated

		if shift <= tol {
			break
		}
	}

	inertia := assignPointsToClusters(X, centroids, labels, dist)
	return &KMeansResult{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iter,
	}, nil
}

// assignPointsToClusters writes the nearest centroid of every row into
// labels and the squared distance into dist, returning the inertia. Ties go
// to the lower cluster index.
func assignPointsToClusters(X, centroids *mat.Dense, labels []int, dist []float64) float64 {
	n, _ := X.Dims()
	k, _ := centroids.Dims()

	var inertia float64
	for i := 0; i < n; i++ {
		point := X.RawRowView(i)
		best, bestDist := 0, math.Inf(1)
		for c := 0; c < k; c++ {
			if d := sqEuclidean(point, centroids.RawRowView(c)); d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
		dist[i] = bestDist
		inertia += bestDist
	}
	return inertia
}

// updateCentroids recomputes centroids as cluster means. An empty cluster
// is moved onto the point currently farthest from its centroid; each such
// point is used at most once.
func updateCentroids(X *mat.Dense, labels []int, dist []float64, previous *mat.Dense) *mat.Dense {
	n, d := X.Dims()
	k, _ := previous.Dims()
	centroids := mat.NewDense(k, d, nil)
	counts := make([]int, k)

	for i := 0; i < n; i++ {
		floats.Add(centroids.RawRowView(labels[i]), X.RawRowView(i))
		counts[labels[i]]++
	}

	var far []int
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			floats.Scale(1/float64(counts[c]), centroids.RawRowView(c))
			continue
		}
		if far == nil {
			far = farthestFirst(dist)
		}
		if len(far) > 0 {
			centroids.SetRow(c, X.RawRowView(far[0]))
			far = far[1:]
		}
	}

	return centroids
}

// farthestFirst returns row indices ordered by descending distance, ties by
// ascending index.
func farthestFirst(dist []float64) []int {
	idx := make([]int, len(dist))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return dist[idx[a]] > dist[idx[b]] })
	return idx
}

// centroidShift is the summed squared movement of all centroids.
func centroidShift(old, updated *mat.Dense) float64 {
	k, _ := old.Dims()
	var shift float64
	for c := 0; c < k; c++ {
		shift += sqEuclidean(old.RawRowView(c), updated.RawRowView(c))
	}
	return shift
}

// meanVariance is the mean over columns of the population variance.
func meanVariance(X *mat.Dense) float64 {
	n, d := X.Dims()
	col := make([]float64, n)

	var total float64
	for j := 0; j < d; j++ {
		mat.Col(col, j, X)
		mean := floats.Sum(col) / float64(n)
		var v float64
		for _, x := range col {
			v += (x - mean) * (x - mean)
		}
		total += v / float64(n)
	}
	return total / float64(d)
}
