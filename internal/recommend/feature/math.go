// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package feature

import (
	"sort"

	"github.com/librarium/librarium/internal/catalog"
)

// dot computes the dot product of two equal-length vectors. With
// L2-normalized inputs this is the cosine similarity.
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// clamp01 clamps a score into [0, 1]. Negative cosine values carry no
// useful ranking signal for book metadata and floor at 0.
func clamp01(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}

// isZeroVec reports whether every component is zero.
func isZeroVec(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// sortScored orders by score descending, ISBN ascending on ties.
func sortScored(scored []Scored) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ISBN < scored[j].ISBN
	})
}

// sortBooksByISBN orders books by ISBN ascending in place.
func sortBooksByISBN(books []catalog.Book) {
	sort.Slice(books, func(i, j int) bool {
		return books[i].ISBN < books[j].ISBN
	})
}
