// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package feature

import (
	"context"
	"math"
	"math/rand"
)

// maxKMeansIterations bounds the Lloyd iteration count; assignments
// typically stabilize far earlier on reduced book vectors.
const maxKMeansIterations = 50

// kMeans partitions the vectors into k clusters with seeded kmeans++
// initialization and Lloyd iterations. It returns the cluster assignment
// per vector. The result is deterministic for a given (vectors, k, seed).
//
// Callers must pass 1 <= k <= len(vectors). The context is checked once
// per iteration so long runs stay cancelable.
func kMeans(ctx context.Context, vectors [][]float64, k int, seed int64) ([]int, error) {
	n := len(vectors)
	assign := make([]int, n)
	if k <= 1 || n == 0 {
		return assign, ctx.Err()
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic clustering, not security-sensitive
	centroids := initCentroids(vectors, k, rng)

	for iter := 0; iter < maxKMeansIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed := false
		for i, vec := range vectors {
			best := nearestCentroid(vec, centroids)
			if best != assign[i] {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		recomputeCentroids(vectors, assign, centroids)
	}
	return assign, nil
}

// initCentroids picks k starting centroids with the kmeans++ scheme:
// the first uniformly, the rest weighted by squared distance to the
// nearest chosen centroid.
func initCentroids(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(vectors)
	dim := len(vectors[0])
	centroids := make([][]float64, 0, k)

	first := make([]float64, dim)
	copy(first, vectors[rng.Intn(n)])
	centroids = append(centroids, first)

	dist := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, vec := range vectors {
			d := squaredDistance(vec, centroids[len(centroids)-1])
			if len(centroids) == 1 || d < dist[i] {
				dist[i] = d
			}
			total += dist[i]
		}

		idx := 0
		if total > 0 {
			target := rng.Float64() * total
			var acc float64
			for i := range dist {
				acc += dist[i]
				if acc >= target {
					idx = i
					break
				}
			}
		} else {
			idx = rng.Intn(n)
		}

		next := make([]float64, dim)
		copy(next, vectors[idx])
		centroids = append(centroids, next)
	}
	return centroids
}

// nearestCentroid returns the index of the closest centroid, lowest index
// winning ties so assignment is deterministic.
func nearestCentroid(vec []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.MaxFloat64
	for c, centroid := range centroids {
		if d := squaredDistance(vec, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// recomputeCentroids replaces each centroid with the mean of its members.
// Empty clusters keep their previous centroid.
func recomputeCentroids(vectors [][]float64, assign []int, centroids [][]float64) {
	dim := len(centroids[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}

	for i, vec := range vectors {
		c := assign[i]
		counts[c]++
		for j, v := range vec {
			sums[c][j] += v
		}
	}

	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

// squaredDistance returns the squared Euclidean distance between two
// equal-length vectors.
func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
