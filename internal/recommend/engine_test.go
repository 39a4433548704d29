// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package recommend

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/librarium/librarium/internal/catalog"
)

func testLogger() zerolog.Logger {
	var buf bytes.Buffer
	return zerolog.New(&buf)
}

// testConfig lowers the rating threshold so small fixtures reach the
// full-alpha tier.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Hybrid.RatingThreshold = 2
	return cfg
}

// libraryFixture builds a snapshot with two content groups, one book
// without usable text, and enough ratings to exercise every blend tier.
func libraryFixture() *catalog.Snapshot {
	books := []catalog.Book{
		{ISBN: "f1", Title: "The Dragon Throne", Genre: "fantasy", Description: "a dragon rider defends the mountain kingdom with ancient magic"},
		{ISBN: "f2", Title: "Dragon Mage", Genre: "fantasy", Description: "a young mage bonds with a dragon to save the kingdom from dark magic"},
		{ISBN: "f3", Title: "The Last Spellweaver", Genre: "fantasy", Description: "magic fades from the kingdom until a weaver of spells returns"},
		{ISBN: "s1", Title: "Starship Vanguard", Genre: "sci-fi", Description: "a starship crew explores distant planets beyond the solar frontier"},
		{ISBN: "s2", Title: "Planet of Iron", Genre: "sci-fi", Description: "colonists on a distant planet fight for survival against machines"},
		{ISBN: "s3", Title: "The Quantum Drive", Genre: "sci-fi", Description: "an experimental starship drive folds space between planets"},
		{ISBN: "zz-blank", Title: "??"},
	}
	users := []catalog.User{
		{ID: "u1"}, {ID: "u2"}, {ID: "u3"}, {ID: "u4"},
	}
	ratings := []catalog.Rating{
		{UserID: "u1", ISBN: "f1", Value: 5.0},
		{UserID: "u1", ISBN: "f2", Value: 4.0},
		{UserID: "u2", ISBN: "f1", Value: 4.5},
		{UserID: "u2", ISBN: "f2", Value: 5.0},
		{UserID: "u2", ISBN: "s1", Value: 2.0},
		{UserID: "u3", ISBN: "s1", Value: 5.0},
		{UserID: "u3", ISBN: "s2", Value: 4.5},
		{UserID: "u4", ISBN: "f1", Value: 0}, // implicit only
	}
	return catalog.NewSnapshot(books, users, ratings)
}

func builtEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if _, err := e.BuildOrRefresh(context.Background(), libraryFixture()); err != nil {
		t.Fatalf("BuildOrRefresh() error = %v", err)
	}
	return e
}

func TestNewEngineInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hybrid.Alpha = 1.5
	if _, err := NewEngine(cfg, testLogger()); err == nil {
		t.Error("NewEngine() with invalid alpha should error")
	}
}

func TestEngineNotReadyQueries(t *testing.T) {
	e, err := NewEngine(testConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	if e.Ready() {
		t.Error("engine should not be ready before first build")
	}
	if got := e.RecommendFromBook(context.Background(), "f1", 5); got != nil {
		t.Errorf("RecommendFromBook() before build = %v, want nil", got)
	}
	if got := e.RecommendForUser(context.Background(), "u1", 5); got != nil {
		t.Errorf("RecommendForUser() before build = %v, want nil", got)
	}
	if got := e.PopularBooks(5); got != nil {
		t.Errorf("PopularBooks() before build = %v, want nil", got)
	}
	if _, ok := e.Stats(); ok {
		t.Error("Stats() before build should report not ok")
	}
	if _, ok := e.Info(); ok {
		t.Error("Info() before build should report not ok")
	}
}

func TestBuildOrRefreshEmptyCorpus(t *testing.T) {
	e, err := NewEngine(testConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	_, err = e.BuildOrRefresh(context.Background(), catalog.NewSnapshot(nil, nil, nil))
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("BuildOrRefresh(empty) error = %v, want ErrEmptyCorpus", err)
	}
	if e.Ready() {
		t.Error("failed build must not mark engine ready")
	}
}

func TestFailedRebuildKeepsPreviousGeneration(t *testing.T) {
	e := builtEngine(t)
	before, ok := e.Info()
	if !ok {
		t.Fatal("Info() not ok after build")
	}

	if _, err := e.BuildOrRefresh(context.Background(), catalog.NewSnapshot(nil, nil, nil)); err == nil {
		t.Fatal("rebuild with empty snapshot should error")
	}

	after, ok := e.Info()
	if !ok || after.Generation != before.Generation {
		t.Errorf("generation changed after failed rebuild: %s -> %s", before.Generation, after.Generation)
	}
	if got := e.RecommendFromBook(context.Background(), "f1", 3); len(got) == 0 {
		t.Error("queries should keep serving the previous generation")
	}
}

func TestRebuildSwapsGeneration(t *testing.T) {
	e := builtEngine(t)
	first, _ := e.Info()

	if _, err := e.BuildOrRefresh(context.Background(), libraryFixture()); err != nil {
		t.Fatalf("second BuildOrRefresh() error = %v", err)
	}
	second, _ := e.Info()
	if second.Generation == first.Generation {
		t.Error("rebuild should install a new generation id")
	}
}

func TestBuildOrRefreshCoalesces(t *testing.T) {
	e := builtEngine(t)
	serving, _ := e.Info()

	// Simulate an in-flight build holding the lock.
	e.buildMu.Lock()
	info, err := e.BuildOrRefresh(context.Background(), libraryFixture())
	e.buildMu.Unlock()

	if err != nil {
		t.Fatalf("coalesced BuildOrRefresh() error = %v", err)
	}
	if !info.Coalesced {
		t.Error("contended BuildOrRefresh should report Coalesced")
	}
	if info.Generation != serving.Generation {
		t.Errorf("coalesced info generation = %s, want serving %s", info.Generation, serving.Generation)
	}
}

func TestRecommendFromBookContract(t *testing.T) {
	e := builtEngine(t)

	recs := e.RecommendFromBook(context.Background(), "f1", 6)
	if len(recs) == 0 {
		t.Fatal("no recommendations for rated anchor")
	}

	seen := make(map[string]struct{})
	for i, r := range recs {
		if r.Book.ISBN == "f1" {
			t.Error("anchor recommended to itself")
		}
		if _, dup := seen[r.Book.ISBN]; dup {
			t.Errorf("duplicate isbn %s in results", r.Book.ISBN)
		}
		seen[r.Book.ISBN] = struct{}{}
		if r.SimilarityScore < 0 || r.SimilarityScore > 1 {
			t.Errorf("score %v out of [0, 1]", r.SimilarityScore)
		}
		if i > 0 && recs[i].SimilarityScore > recs[i-1].SimilarityScore {
			t.Error("results not ordered by score descending")
		}
	}

	// f2 shares both raters and dragon metadata with f1: it must rank
	// first and carry the hybrid label.
	if recs[0].Book.ISBN != "f2" {
		t.Errorf("top recommendation = %s, want f2", recs[0].Book.ISBN)
	}
	if recs[0].RecommendationType != TypeHybrid {
		t.Errorf("top type = %s, want hybrid", recs[0].RecommendationType)
	}
	if recs[0].Reason == "" {
		t.Error("recommendation reason should not be empty")
	}
}

func TestRecommendFromBookUnknownISBN(t *testing.T) {
	e := builtEngine(t)
	if got := e.RecommendFromBook(context.Background(), "no-such-book", 5); got != nil {
		t.Errorf("RecommendFromBook(unknown) = %v, want nil", got)
	}
}

func TestRecommendFromBookPrefixStability(t *testing.T) {
	e := builtEngine(t)

	small := e.RecommendFromBook(context.Background(), "f1", 3)
	large := e.RecommendFromBook(context.Background(), "f1", 6)
	if len(small) > len(large) {
		t.Fatalf("k=3 returned more than k=6: %d vs %d", len(small), len(large))
	}
	for i := range small {
		if small[i].Book.ISBN != large[i].Book.ISBN {
			t.Errorf("prefix mismatch at %d: %s vs %s", i, small[i].Book.ISBN, large[i].Book.ISBN)
		}
	}
}

func TestRecommendFromBookKClamping(t *testing.T) {
	e := builtEngine(t)

	// Non-positive k falls back to the default.
	if got := e.RecommendFromBook(context.Background(), "f1", 0); len(got) == 0 {
		t.Error("k=0 should use the default k, not return empty")
	}

	// Oversized k clamps to the corpus.
	got := e.RecommendFromBook(context.Background(), "f1", 10000)
	if len(got) > 7 {
		t.Errorf("k beyond corpus returned %d results", len(got))
	}
}

func TestRecommendForUserExcludesInteracted(t *testing.T) {
	e := builtEngine(t)

	recs := e.RecommendForUser(context.Background(), "u3", 6)
	if len(recs) == 0 {
		t.Fatal("no recommendations for rated user")
	}
	for _, r := range recs {
		if r.Book.ISBN == "s1" || r.Book.ISBN == "s2" {
			t.Errorf("already-rated book %s recommended", r.Book.ISBN)
		}
	}
}

func TestRecommendForUserColdStart(t *testing.T) {
	e := builtEngine(t)

	// u4 has only an implicit interaction with f1: popularity fallback,
	// with f1 still excluded.
	recs := e.RecommendForUser(context.Background(), "u4", 6)
	if len(recs) == 0 {
		t.Fatal("cold-start user should get popularity fallback, not empty")
	}
	for _, r := range recs {
		if r.RecommendationType != TypePopularityFallback {
			t.Errorf("type = %s, want popularity_fallback", r.RecommendationType)
		}
		if r.Book.ISBN == "f1" {
			t.Error("implicitly interacted book recommended to cold-start user")
		}
	}
}

func TestRecommendForUserUnknown(t *testing.T) {
	e := builtEngine(t)
	if got := e.RecommendForUser(context.Background(), "ghost", 5); got != nil {
		t.Errorf("RecommendForUser(unknown) = %v, want nil", got)
	}
}

func TestPopularBooksDeterministicWithoutRatings(t *testing.T) {
	books := []catalog.Book{
		{ISBN: "c", Title: "Gamma"},
		{ISBN: "a", Title: "Alpha"},
		{ISBN: "b", Title: "Beta"},
	}
	e, err := NewEngine(testConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if _, err := e.BuildOrRefresh(context.Background(), catalog.NewSnapshot(books, nil, nil)); err != nil {
		t.Fatalf("BuildOrRefresh() error = %v", err)
	}

	recs := e.PopularBooks(3)
	want := []string{"a", "b", "c"}
	if len(recs) != 3 {
		t.Fatalf("PopularBooks(3) len = %d", len(recs))
	}
	for i, isbn := range want {
		if recs[i].Book.ISBN != isbn {
			t.Errorf("position %d = %s, want %s (ISBN order)", i, recs[i].Book.ISBN, isbn)
		}
	}
}

func TestPopularBooksRanksByBoost(t *testing.T) {
	e := builtEngine(t)

	recs := e.PopularBooks(3)
	if len(recs) != 3 {
		t.Fatalf("PopularBooks(3) len = %d", len(recs))
	}
	// f1 has two explicit 4.5+ ratings; it must lead.
	if recs[0].Book.ISBN != "f1" && recs[0].Book.ISBN != "f2" {
		t.Errorf("top popular = %s, want a heavily rated fantasy title", recs[0].Book.ISBN)
	}
	if recs[0].SimilarityScore != 1.0 {
		t.Errorf("top normalized boost = %v, want 1.0", recs[0].SimilarityScore)
	}
}

func TestEngineDeterministicAcrossRebuilds(t *testing.T) {
	e1 := builtEngine(t)
	e2 := builtEngine(t)

	r1 := e1.RecommendFromBook(context.Background(), "f1", 6)
	r2 := e2.RecommendFromBook(context.Background(), "f1", 6)
	if len(r1) != len(r2) {
		t.Fatalf("result lengths differ: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i].Book.ISBN != r2[i].Book.ISBN || r1[i].SimilarityScore != r2[i].SimilarityScore {
			t.Errorf("results differ at %d: %s/%v vs %s/%v", i,
				r1[i].Book.ISBN, r1[i].SimilarityScore, r2[i].Book.ISBN, r2[i].SimilarityScore)
		}
	}
}

func TestCachedRankingServesRepeatQueries(t *testing.T) {
	e := builtEngine(t)

	first := e.RecommendFromBook(context.Background(), "f1", 3)
	second := e.RecommendFromBook(context.Background(), "f1", 3)
	hits, _, _ := e.CacheStats()
	if hits == 0 {
		t.Error("repeat query should hit the result cache")
	}
	for i := range first {
		if first[i].Book.ISBN != second[i].Book.ISBN {
			t.Errorf("cached result differs at %d", i)
		}
	}
}
