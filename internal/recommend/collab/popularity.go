// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package collab

import (
	"math"
	"sort"

	"github.com/librarium/librarium/internal/catalog"
)

// BookStats aggregates rating activity for one book.
type BookStats struct {
	// ExplicitCount is the number of explicit ratings.
	ExplicitCount int

	// ImplicitCount is the number of implicit (zero-valued) interactions.
	ImplicitCount int

	// Mean is the average explicit rating, 0 when unrated.
	Mean float64

	// Boost is the popularity score: Mean * ln(ExplicitCount + 1).
	// Confidence grows with volume, so a well-rated book with many
	// ratings outranks an equally-rated book with few.
	Boost float64
}

// Popularity ranks every book in the snapshot by popularity boost. Books
// without ratings carry a zero boost and sort by ISBN, which makes the
// ranking total and deterministic even for an entirely unrated catalog.
type Popularity struct {
	stats    map[string]BookStats
	ranked   []string
	maxBoost float64
}

// BuildPopularity computes per-book stats and the full popularity ranking
// from a snapshot.
func BuildPopularity(snap *catalog.Snapshot) *Popularity {
	type agg struct {
		sum      float64
		explicit int
		implicit int
	}
	aggs := make(map[string]*agg, snap.NumBooks())
	for _, r := range snap.Ratings() {
		a := aggs[r.ISBN]
		if a == nil {
			a = &agg{}
			aggs[r.ISBN] = a
		}
		if r.IsExplicit() {
			a.sum += r.Value
			a.explicit++
		} else {
			a.implicit++
		}
	}

	p := &Popularity{
		stats:  make(map[string]BookStats, snap.NumBooks()),
		ranked: snap.SortedISBNs(),
	}
	for _, isbn := range p.ranked {
		st := BookStats{}
		if a := aggs[isbn]; a != nil {
			st.ExplicitCount = a.explicit
			st.ImplicitCount = a.implicit
			if a.explicit > 0 {
				st.Mean = a.sum / float64(a.explicit)
				st.Boost = st.Mean * math.Log(float64(a.explicit)+1)
			}
		}
		p.stats[isbn] = st
		if st.Boost > p.maxBoost {
			p.maxBoost = st.Boost
		}
	}

	// ranked starts ISBN-ascending, so a stable sort on (boost desc,
	// count desc) leaves ISBN as the final tie-break.
	sort.SliceStable(p.ranked, func(i, j int) bool {
		si, sj := p.stats[p.ranked[i]], p.stats[p.ranked[j]]
		if si.Boost != sj.Boost {
			return si.Boost > sj.Boost
		}
		return si.ExplicitCount > sj.ExplicitCount
	})

	return p
}

// Stats returns the aggregated stats for a book. Unknown books yield the
// zero value.
func (p *Popularity) Stats(isbn string) BookStats {
	return p.stats[isbn]
}

// Boost returns the raw popularity boost for a book.
func (p *Popularity) Boost(isbn string) float64 {
	return p.stats[isbn].Boost
}

// NormalizedBoost returns the boost scaled into [0, 1] against the most
// popular book. Zero when the catalog has no explicit ratings at all.
func (p *Popularity) NormalizedBoost(isbn string) float64 {
	if p.maxBoost == 0 {
		return 0
	}
	return p.stats[isbn].Boost / p.maxBoost
}

// Ranked returns all ISBNs ordered by boost descending, explicit count
// descending, ISBN ascending. Callers must not modify the result.
func (p *Popularity) Ranked() []string {
	return p.ranked
}

// TopK returns the first k entries of the ranking as scored results using
// the normalized boost. k is clamped to the catalog size.
func (p *Popularity) TopK(k int) []Scored {
	if k < 1 {
		k = 1
	}
	if k > len(p.ranked) {
		k = len(p.ranked)
	}
	out := make([]Scored, 0, k)
	for _, isbn := range p.ranked[:k] {
		out = append(out, Scored{ISBN: isbn, Score: p.NormalizedBoost(isbn)})
	}
	return out
}
