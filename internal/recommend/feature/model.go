// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package feature

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/librarium/librarium/internal/catalog"
)

// Config controls content model construction.
type Config struct {
	// Components is the reduced vector dimensionality. Default: 100
	Components int

	// Clusters is the target cluster count, clamped to corpusSize/5
	// with a floor of 2. Default: 20
	Clusters int

	// Vectorizer holds vocabulary settings.
	Vectorizer VectorizerConfig

	// Seed drives the projection matrix and cluster initialization.
	// Default: 42
	Seed int64
}

// DefaultConfig returns the standard content model settings.
func DefaultConfig() Config {
	return Config{
		Components: 100,
		Clusters:   20,
		Vectorizer: DefaultVectorizerConfig(),
		Seed:       42,
	}
}

// ErrEmptyCorpus is returned by Build when no books are given.
var ErrEmptyCorpus = errors.New("feature: empty corpus")

// Scored pairs a book with a similarity score in [0, 1].
type Scored struct {
	ISBN  string
	Score float64
}

// Model is the immutable content model for one catalog generation:
// reduced vectors per book plus flat cluster lookup tables. All methods
// are safe for concurrent use.
type Model struct {
	isbns     []string
	index     map[string]int
	vecs      [][]float64
	zero      []bool
	clusterOf []int
	members   [][]int
	clusters  int
}

// Build vectorizes the books, reduces the vectors, and clusters them.
// Books with no usable text get a zero vector and never appear in
// similarity results. Returns ErrEmptyCorpus for an empty book list.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Build(ctx context.Context, books []catalog.Book, cfg Config, logger zerolog.Logger) (*Model, error) {
	if len(books) == 0 {
		return nil, ErrEmptyCorpus
	}
	if cfg.Components <= 0 {
		cfg.Components = 100
	}
	if cfg.Clusters <= 0 {
		cfg.Clusters = 20
	}
	log := logger.With().Str("component", "content-model").Logger()

	// Stable book ordering keeps every downstream structure
	// deterministic.
	ordered := make([]catalog.Book, len(books))
	copy(ordered, books)
	sortBooksByISBN(ordered)

	m := &Model{
		isbns: make([]string, len(ordered)),
		index: make(map[string]int, len(ordered)),
	}
	docs := make([]string, len(ordered))
	for i := range ordered {
		m.isbns[i] = ordered[i].ISBN
		m.index[ordered[i].ISBN] = i
		docs[i] = bookDocument(&ordered[i])
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vectorizer := FitVectorizer(docs, cfg.Vectorizer)
	projection := NewProjection(vectorizer.VocabSize(), cfg.Components, cfg.Seed)

	m.vecs = make([][]float64, len(docs))
	m.zero = make([]bool, len(docs))
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reduced := projection.Apply(vectorizer.Transform(doc))
		m.vecs[i] = reduced
		m.zero[i] = isZeroVec(reduced)
	}

	k := clusterCount(cfg.Clusters, len(ordered))
	assign, err := kMeans(ctx, m.vecs, k, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("cluster books: %w", err)
	}
	m.clusterOf = assign
	m.clusters = k
	m.members = make([][]int, k)
	for i, c := range assign {
		m.members[c] = append(m.members[c], i)
	}

	log.Info().
		Int("books", len(ordered)).
		Int("vocabulary", vectorizer.VocabSize()).
		Int("components", projection.Components()).
		Int("clusters", k).
		Msg("content model built")

	return m, nil
}

// clusterCount derives the effective cluster count: one cluster per five
// books, capped by the configured target, floored at 2, never above the
// corpus size.
func clusterCount(configured, corpusSize int) int {
	k := corpusSize / 5
	if k > configured {
		k = configured
	}
	if k < 2 {
		k = 2
	}
	if k > corpusSize {
		k = corpusSize
	}
	return k
}

// bookDocument concatenates the text fields used for vectorization.
// Empty fields contribute nothing.
func bookDocument(b *catalog.Book) string {
	return b.Title + " " + b.Author + " " + b.Genre + " " + b.Description
}

// HasVector reports whether the book exists and has a nonzero content
// vector.
func (m *Model) HasVector(isbn string) bool {
	idx, ok := m.index[isbn]
	return ok && !m.zero[idx]
}

// ClusterOf returns the cluster id for a book.
func (m *Model) ClusterOf(isbn string) (int, bool) {
	idx, ok := m.index[isbn]
	if !ok {
		return 0, false
	}
	return m.clusterOf[idx], true
}

// NumClusters returns the effective cluster count.
func (m *Model) NumClusters() int {
	return m.clusters
}

// ClusterMembers returns the ISBNs in a cluster in ascending order.
func (m *Model) ClusterMembers(cluster int) []string {
	if cluster < 0 || cluster >= len(m.members) {
		return nil
	}
	isbns := make([]string, len(m.members[cluster]))
	for i, idx := range m.members[cluster] {
		isbns[i] = m.isbns[idx]
	}
	return isbns
}

// Similarity returns the content similarity between two books, clamped to
// [0, 1]. Unknown books or books without vectors score 0.
func (m *Model) Similarity(a, b string) float64 {
	ia, ok := m.index[a]
	if !ok || m.zero[ia] {
		return 0
	}
	ib, ok := m.index[b]
	if !ok || m.zero[ib] {
		return 0
	}
	return clamp01(dot(m.vecs[ia], m.vecs[ib]))
}

// Similar returns the k most similar books to the anchor, using the
// anchor's cluster as a candidate pre-filter and widening to the full
// corpus when the cluster holds fewer than k candidates. The anchor never
// appears in the result. Unknown anchors and anchors without a content
// vector yield an empty result.
func (m *Model) Similar(isbn string, k int) []Scored {
	idx, ok := m.index[isbn]
	if !ok || m.zero[idx] || k < 1 {
		return nil
	}

	candidates := m.members[m.clusterOf[idx]]
	if len(candidates)-1 < k {
		candidates = nil // widen to full corpus
	}

	ranked := m.rankCandidates(idx, candidates)
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Rank scores the anchor against the entire corpus and returns the full
// ranking. Callers that need prefix-stable truncation at varying depths
// should rank once and slice.
func (m *Model) Rank(isbn string) []Scored {
	idx, ok := m.index[isbn]
	if !ok || m.zero[idx] {
		return nil
	}
	return m.rankCandidates(idx, nil)
}

// rankCandidates scores the anchor against the candidate positions (nil
// means the full corpus), excluding the anchor itself and zero vectors,
// ordered by score descending with ISBN ascending as tie-break.
func (m *Model) rankCandidates(anchor int, candidates []int) []Scored {
	n := len(candidates)
	if candidates == nil {
		n = len(m.vecs)
	}

	scored := make([]Scored, 0, n)
	appendCandidate := func(i int) {
		if i == anchor || m.zero[i] {
			return
		}
		scored = append(scored, Scored{
			ISBN:  m.isbns[i],
			Score: clamp01(dot(m.vecs[anchor], m.vecs[i])),
		})
	}

	if candidates == nil {
		for i := range m.vecs {
			appendCandidate(i)
		}
	} else {
		for _, i := range candidates {
			appendCandidate(i)
		}
	}

	sortScored(scored)
	return scored
}
