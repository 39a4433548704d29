// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package collab

import (
	"math"
	"sort"
)

// Similarity metric names accepted by the collaborative filters.
const (
	SimilarityCosine  = "cosine"
	SimilarityPearson = "pearson"
)

// ItemCFConfig controls item-based collaborative filtering.
type ItemCFConfig struct {
	// Similarity selects the metric: cosine or pearson. Default: cosine
	Similarity string

	// MinCoRatings is the minimum number of users that must have rated
	// both books for the pair to score at all. Default: 2
	MinCoRatings int

	// Shrinkage damps similarities computed over few co-raters:
	// sim' = sim * n / (n + shrinkage). Zero disables damping.
	Shrinkage float64
}

// DefaultItemCFConfig returns the standard item CF settings.
func DefaultItemCFConfig() ItemCFConfig {
	return ItemCFConfig{
		Similarity:   SimilarityCosine,
		MinCoRatings: 2,
		Shrinkage:    0,
	}
}

// ItemCF computes item-item similarities over the users who rated both
// books. Stateless beyond its matrix reference and safe for concurrent
// use.
type ItemCF struct {
	matrix *Matrix
	config ItemCFConfig
}

// NewItemCF creates an item-based collaborative filter over the matrix.
func NewItemCF(matrix *Matrix, cfg ItemCFConfig) *ItemCF {
	if cfg.Similarity == "" {
		cfg.Similarity = SimilarityCosine
	}
	if cfg.MinCoRatings < 1 {
		cfg.MinCoRatings = 2
	}
	return &ItemCF{matrix: matrix, config: cfg}
}

// Similarity returns the similarity between two books in [0, 1]. Pairs
// with fewer than MinCoRatings common raters score 0, as do books with no
// ratings at all.
func (c *ItemCF) Similarity(a, b string) float64 {
	ra := c.matrix.BookRatings(a)
	rb := c.matrix.BookRatings(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	// Iterate the smaller column.
	if len(rb) < len(ra) {
		ra, rb = rb, ra
	}

	var va, vb []float64
	for user, x := range ra {
		if y, ok := rb[user]; ok {
			va = append(va, x)
			vb = append(vb, y)
		}
	}
	n := len(va)
	if n < c.config.MinCoRatings {
		return 0
	}

	var sim float64
	switch c.config.Similarity {
	case SimilarityPearson:
		sim = pearson(va, vb)
	default:
		sim = cosine(va, vb)
	}
	if c.config.Shrinkage > 0 {
		sim *= float64(n) / (float64(n) + c.config.Shrinkage)
	}
	return clamp01(sim)
}

// Rank scores every book sharing at least one rater with the anchor and
// returns the ranking (score descending, ISBN ascending on ties). Books
// below the co-rating minimum are omitted. A book with no ratings yields
// an empty result: collaborative cold start is not an error.
func (c *ItemCF) Rank(isbn string) []Scored {
	anchor := c.matrix.BookRatings(isbn)
	if len(anchor) == 0 {
		return nil
	}

	// Candidate books are those rated by any of the anchor's raters;
	// everything else has zero co-raters by construction.
	candidates := make(map[string]struct{})
	for user := range anchor {
		for other := range c.matrix.UserRatings(user) {
			if other != isbn {
				candidates[other] = struct{}{}
			}
		}
	}

	scored := make([]Scored, 0, len(candidates))
	for other := range candidates {
		if sim := c.Similarity(isbn, other); sim > 0 {
			scored = append(scored, Scored{ISBN: other, Score: sim})
		}
	}
	sortScored(scored)
	return scored
}

// cosine computes the cosine similarity of two dense, equal-length
// vectors.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// pearson computes the Pearson correlation of two dense, equal-length
// vectors. Zero-variance inputs yield 0.
func pearson(a, b []float64) float64 {
	n := float64(len(a))
	if n == 0 {
		return 0
	}
	var ma, mb float64
	for i := range a {
		ma += a[i]
		mb += b[i]
	}
	ma /= n
	mb /= n

	var cov, va, vb float64
	for i := range a {
		da, db := a[i]-ma, b[i]-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0
	}
	return cov / (math.Sqrt(va) * math.Sqrt(vb))
}

// clamp01 clamps a similarity into [0, 1]. Negative correlations carry no
// ranking value here and floor at 0.
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

// sortScored orders by score descending, ISBN ascending on ties.
func sortScored(scored []Scored) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ISBN < scored[j].ISBN
	})
}
