// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package feature

import (
	"math"
	"sort"
)

// VectorizerConfig controls vocabulary construction.
type VectorizerConfig struct {
	// MaxFeatures caps the vocabulary size, keeping the most frequent
	// terms. Default: 5000
	MaxFeatures int

	// MinDocFreq drops terms appearing in fewer documents than this.
	// Relaxed to 1 automatically for corpora under smallCorpusSize.
	// Default: 2
	MinDocFreq int

	// MaxDocRatio drops terms appearing in more than this fraction of
	// documents. Applied only for corpora of at least smallCorpusSize
	// so that tiny corpora keep their shared vocabulary. Default: 0.95
	MaxDocRatio float64
}

// DefaultVectorizerConfig returns the standard vocabulary settings.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: 5000,
		MinDocFreq:  2,
		MaxDocRatio: 0.95,
	}
}

// smallCorpusSize is the corpus size below which document-frequency
// pruning is disabled. Pruning a handful of documents removes exactly the
// terms they share, which is the signal similarity needs.
const smallCorpusSize = 10

// SparseVec is a term-index to weight map. Vectors produced by the
// vectorizer are L2-normalized.
type SparseVec map[int]float64

// Indices returns the populated term indices in ascending order. Every
// float accumulation over a vector iterates these, never the map itself:
// map iteration order varies run to run and would perturb the low-order
// bits, breaking bit-identical rebuilds.
func (v SparseVec) Indices() []int {
	idxs := make([]int, 0, len(v))
	for idx := range v {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	return idxs
}

// Norm returns the Euclidean norm of the vector.
func (v SparseVec) Norm() float64 {
	var sum float64
	for _, idx := range v.Indices() {
		w := v[idx]
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Vectorizer maps documents to TF-IDF vectors over a fixed vocabulary.
type Vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// termStat accumulates corpus-wide counts for one term during fitting.
type termStat struct {
	term    string
	docFreq int
	total   int
}

// FitVectorizer learns a vocabulary and IDF weights from the documents.
// Documents are tokenized with Tokenize and expanded with Terms.
func FitVectorizer(docs []string, cfg VectorizerConfig) *Vectorizer {
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = 5000
	}
	if cfg.MinDocFreq <= 0 {
		cfg.MinDocFreq = 2
	}
	if cfg.MaxDocRatio <= 0 || cfg.MaxDocRatio > 1 {
		cfg.MaxDocRatio = 0.95
	}

	numDocs := len(docs)
	minDF := cfg.MinDocFreq
	pruneCommon := numDocs >= smallCorpusSize
	if numDocs < smallCorpusSize {
		minDF = 1
	}

	stats := make(map[string]*termStat)
	for _, doc := range docs {
		terms := Terms(Tokenize(doc))
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			st, ok := stats[term]
			if !ok {
				st = &termStat{term: term}
				stats[term] = st
			}
			st.total++
			if _, dup := seen[term]; !dup {
				st.docFreq++
				seen[term] = struct{}{}
			}
		}
	}

	kept := make([]*termStat, 0, len(stats))
	maxDF := int(cfg.MaxDocRatio * float64(numDocs))
	for _, st := range stats {
		if st.docFreq < minDF {
			continue
		}
		if pruneCommon && st.docFreq > maxDF {
			continue
		}
		kept = append(kept, st)
	}

	// Most frequent terms first; term order breaks ties so the
	// vocabulary is deterministic.
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].total != kept[j].total {
			return kept[i].total > kept[j].total
		}
		return kept[i].term < kept[j].term
	})
	if len(kept) > cfg.MaxFeatures {
		kept = kept[:cfg.MaxFeatures]
	}

	// Stable index assignment: alphabetical over the kept terms.
	sort.Slice(kept, func(i, j int) bool { return kept[i].term < kept[j].term })

	v := &Vectorizer{
		vocab: make(map[string]int, len(kept)),
		idf:   make([]float64, len(kept)),
	}
	for i, st := range kept {
		v.vocab[st.term] = i
		// Smoothed IDF keeps weights finite for terms present in every
		// document.
		v.idf[i] = math.Log(float64(1+numDocs)/float64(1+st.docFreq)) + 1
	}
	return v
}

// VocabSize returns the number of terms in the learned vocabulary.
func (v *Vectorizer) VocabSize() int {
	return len(v.vocab)
}

// Transform maps a document to its L2-normalized TF-IDF vector. Terms
// outside the vocabulary are ignored; a document with no known terms
// yields an empty vector.
func (v *Vectorizer) Transform(doc string) SparseVec {
	vec := make(SparseVec)
	for _, term := range Terms(Tokenize(doc)) {
		if idx, ok := v.vocab[term]; ok {
			vec[idx]++
		}
	}
	for idx := range vec {
		vec[idx] *= v.idf[idx]
	}
	if norm := vec.Norm(); norm > 0 {
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}
