// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package feature

import (
	"math"
	"testing"
)

func TestFitVectorizerSmallCorpusKeepsSharedTerms(t *testing.T) {
	// Below smallCorpusSize both document-frequency prunings relax so a
	// pair of similar documents keeps its shared vocabulary.
	docs := []string{
		"wizard tower magic",
		"wizard tower spells",
	}
	v := FitVectorizer(docs, DefaultVectorizerConfig())

	if v.VocabSize() == 0 {
		t.Fatal("vocabulary empty for small corpus")
	}
	vec := v.Transform("wizard tower magic")
	if len(vec) == 0 {
		t.Fatal("transform produced empty vector for in-vocabulary terms")
	}
}

func TestVectorizerNormalization(t *testing.T) {
	docs := []string{
		"dragons castles knights",
		"dragons castles quests",
		"spaceships lasers dragons",
	}
	v := FitVectorizer(docs, VectorizerConfig{MaxFeatures: 100, MinDocFreq: 1, MaxDocRatio: 0.95})

	vec := v.Transform(docs[0])
	if norm := vec.Norm(); math.Abs(norm-1.0) > 1e-9 {
		t.Errorf("norm = %v, want 1.0", norm)
	}
}

func TestVectorizerIdenticalDocsIdenticalVectors(t *testing.T) {
	docs := []string{
		"desert planet spice empire",
		"desert planet spice empire",
		"orbital station mystery",
	}
	v := FitVectorizer(docs, VectorizerConfig{MinDocFreq: 1})

	a := v.Transform(docs[0])
	b := v.Transform(docs[1])
	if len(a) != len(b) {
		t.Fatalf("vector sizes differ: %d vs %d", len(a), len(b))
	}
	for idx, w := range a {
		if bw := b[idx]; math.Abs(w-bw) > 1e-12 {
			t.Errorf("weight mismatch at %d: %v vs %v", idx, w, bw)
		}
	}
}

func TestVectorizerMaxFeaturesCap(t *testing.T) {
	docs := []string{
		"alpha beta gamma delta",
		"alpha beta gamma epsilon",
		"alpha beta zeta eta",
	}
	v := FitVectorizer(docs, VectorizerConfig{MaxFeatures: 3, MinDocFreq: 1})
	if got := v.VocabSize(); got != 3 {
		t.Errorf("VocabSize() = %d, want 3", got)
	}
}

func TestVectorizerUnknownTermsIgnored(t *testing.T) {
	docs := []string{
		"pirates treasure islands",
		"pirates treasure maps",
	}
	v := FitVectorizer(docs, VectorizerConfig{MinDocFreq: 1})

	vec := v.Transform("completely unrelated metallurgy")
	if len(vec) != 0 {
		t.Errorf("out-of-vocabulary transform = %v, want empty", vec)
	}
}

func TestSparseVecIndicesSorted(t *testing.T) {
	vec := SparseVec{7: 1, 0: 1, 42: 1, 3: 1}
	got := vec.Indices()
	want := []int{0, 3, 7, 42}
	if len(got) != len(want) {
		t.Fatalf("Indices() = %v, want %v", got, want)
	}
	for i, idx := range want {
		if got[i] != idx {
			t.Errorf("Indices()[%d] = %d, want %d", i, got[i], idx)
		}
	}
}

func TestTransformBitIdenticalAcrossCalls(t *testing.T) {
	// Wide documents give the term-index map enough entries that an
	// order-dependent summation would drift in the low bits.
	docs := []string{
		"arctic expedition frozen wasteland survival sledge compass aurora glacier crevasse blizzard provisions",
		"arctic expedition frozen tundra survival huskies compass aurora iceberg crevasse whiteout provisions",
		"jungle expedition humid canopy survival machete compass rainfall vines quicksand provisions fever",
	}
	v := FitVectorizer(docs, VectorizerConfig{MinDocFreq: 1})

	base := v.Transform(docs[0])
	if len(base) < 10 {
		t.Fatalf("fixture too narrow: %d terms", len(base))
	}
	for i := 0; i < 50; i++ {
		vec := v.Transform(docs[0])
		if len(vec) != len(base) {
			t.Fatalf("run %d: vector size %d, want %d", i, len(vec), len(base))
		}
		for idx, w := range base {
			if vec[idx] != w {
				t.Fatalf("run %d: weight at %d = %v, want exactly %v", i, idx, vec[idx], w)
			}
		}
	}
}

func TestVectorizerDeterministicVocabulary(t *testing.T) {
	docs := []string{
		"ghost ship haunting",
		"ghost ship crew",
		"ghost lighthouse keeper",
	}
	v1 := FitVectorizer(docs, VectorizerConfig{MinDocFreq: 1})
	v2 := FitVectorizer(docs, VectorizerConfig{MinDocFreq: 1})

	a := v1.Transform(docs[0])
	b := v2.Transform(docs[0])
	if len(a) != len(b) {
		t.Fatalf("vector sizes differ across fits: %d vs %d", len(a), len(b))
	}
	for idx, w := range a {
		if b[idx] != w {
			t.Errorf("weight at %d differs across fits: %v vs %v", idx, w, b[idx])
		}
	}
}
