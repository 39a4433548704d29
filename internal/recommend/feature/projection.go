// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package feature

import (
	"math"
	"math/rand"
)

// Projection reduces sparse TF-IDF vectors to a fixed-rank dense
// representation with a seeded sparse random projection. The projection
// matrix is a pure function of (seed, vocabSize, components), so rebuilds
// over the same corpus produce identical vectors.
//
// Entries follow the sparse Achlioptas distribution: +1/-1 with
// probability 1/6 each, 0 otherwise, scaled by sqrt(3/components).
type Projection struct {
	components int
	rows       [][]float64
}

// NewProjection builds the projection matrix for the given vocabulary
// size. Components is clamped to the vocabulary size; a zero vocabulary
// yields a zero-rank projection.
func NewProjection(vocabSize, components int, seed int64) *Projection {
	if components > vocabSize {
		components = vocabSize
	}
	if components < 0 {
		components = 0
	}

	p := &Projection{
		components: components,
		rows:       make([][]float64, vocabSize),
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic projection, not security-sensitive
	scale := 0.0
	if components > 0 {
		scale = math.Sqrt(3.0 / float64(components))
	}
	for i := range p.rows {
		row := make([]float64, components)
		for j := range row {
			switch r := rng.Intn(6); r {
			case 0:
				row[j] = scale
			case 1:
				row[j] = -scale
			}
		}
		p.rows[i] = row
	}
	return p
}

// Components returns the output dimensionality.
func (p *Projection) Components() int {
	return p.components
}

// Apply projects a sparse vector into the reduced space and L2-normalizes
// the result. A zero input yields a zero output.
func (p *Projection) Apply(vec SparseVec) []float64 {
	out := make([]float64, p.components)
	// Sorted indices keep the accumulation order fixed across runs.
	for _, idx := range vec.Indices() {
		if idx < 0 || idx >= len(p.rows) {
			continue
		}
		w := vec[idx]
		row := p.rows[idx]
		for j, rw := range row {
			if rw != 0 {
				out[j] += w * rw
			}
		}
	}

	var norm float64
	for _, v := range out {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for j := range out {
			out[j] /= norm
		}
	}
	return out
}
