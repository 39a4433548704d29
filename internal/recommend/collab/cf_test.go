// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package collab

import (
	"math"
	"testing"

	"github.com/librarium/librarium/internal/catalog"
)

// tasteClusterMatrix builds a matrix with two taste groups: u1/u2 both
// love b1 and b2, u3 loves b3 alone.
func tasteClusterMatrix(t *testing.T) *Matrix {
	t.Helper()
	snap := snapshotFor(t,
		[]string{"b1", "b2", "b3", "b4"},
		[]string{"u1", "u2", "u3"},
		[]catalog.Rating{
			{UserID: "u1", ISBN: "b1", Value: 5.0},
			{UserID: "u1", ISBN: "b2", Value: 4.5},
			{UserID: "u2", ISBN: "b1", Value: 4.5},
			{UserID: "u2", ISBN: "b2", Value: 5.0},
			{UserID: "u3", ISBN: "b3", Value: 5.0},
		})
	return BuildMatrix(snap)
}

func TestItemCFSimilarity(t *testing.T) {
	m := tasteClusterMatrix(t)

	tests := []struct {
		name   string
		cfg    ItemCFConfig
		a, b   string
		verify func(t *testing.T, sim float64)
	}{
		{
			name: "co-rated pair scores positive",
			cfg:  DefaultItemCFConfig(),
			a:    "b1", b: "b2",
			verify: func(t *testing.T, sim float64) {
				if sim <= 0 || sim > 1 {
					t.Errorf("sim = %v, want in (0, 1]", sim)
				}
			},
		},
		{
			name: "below co-rating minimum scores zero",
			cfg:  DefaultItemCFConfig(),
			a:    "b1", b: "b3",
			verify: func(t *testing.T, sim float64) {
				if sim != 0 {
					t.Errorf("sim = %v, want 0 (no co-raters)", sim)
				}
			},
		},
		{
			name: "unrated book scores zero",
			cfg:  DefaultItemCFConfig(),
			a:    "b1", b: "b4",
			verify: func(t *testing.T, sim float64) {
				if sim != 0 {
					t.Errorf("sim = %v, want 0 (b4 unrated)", sim)
				}
			},
		},
		{
			name: "shrinkage damps thin overlap",
			cfg:  ItemCFConfig{Similarity: SimilarityCosine, MinCoRatings: 2, Shrinkage: 10},
			a:    "b1", b: "b2",
			verify: func(t *testing.T, sim float64) {
				plain := NewItemCF(tasteClusterMatrix(t), DefaultItemCFConfig()).Similarity("b1", "b2")
				if sim >= plain {
					t.Errorf("shrunk sim %v should be below plain %v", sim, plain)
				}
			},
		},
		{
			name: "pearson constant ratings score zero",
			cfg:  ItemCFConfig{Similarity: SimilarityPearson, MinCoRatings: 2},
			a:    "b1", b: "b2",
			verify: func(t *testing.T, sim float64) {
				// b1 and b2 columns are (5, 4.5) and (4.5, 5):
				// anti-correlated, so Pearson floors at 0.
				if sim != 0 {
					t.Errorf("sim = %v, want 0 (negative correlation floored)", sim)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := NewItemCF(m, tt.cfg)
			tt.verify(t, cf.Similarity(tt.a, tt.b))
		})
	}
}

func TestItemCFSimilaritySymmetric(t *testing.T) {
	cf := NewItemCF(tasteClusterMatrix(t), DefaultItemCFConfig())
	ab := cf.Similarity("b1", "b2")
	ba := cf.Similarity("b2", "b1")
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("similarity not symmetric: %v vs %v", ab, ba)
	}
}

func TestItemCFRank(t *testing.T) {
	cf := NewItemCF(tasteClusterMatrix(t), DefaultItemCFConfig())

	ranked := cf.Rank("b1")
	if len(ranked) != 1 || ranked[0].ISBN != "b2" {
		t.Fatalf("Rank(b1) = %v, want only b2", ranked)
	}

	if got := cf.Rank("b4"); got != nil {
		t.Errorf("Rank(unrated) = %v, want nil", got)
	}
	if got := cf.Rank("missing"); got != nil {
		t.Errorf("Rank(unknown) = %v, want nil", got)
	}
}

func TestUserCFRank(t *testing.T) {
	snap := snapshotFor(t,
		[]string{"b1", "b2", "b3", "b4"},
		[]string{"target", "twin", "loner"},
		[]catalog.Rating{
			{UserID: "target", ISBN: "b1", Value: 5.0},
			{UserID: "target", ISBN: "b4", Value: 0}, // implicit: owned, unscored
			{UserID: "twin", ISBN: "b1", Value: 5.0},
			{UserID: "twin", ISBN: "b2", Value: 4.0},
			{UserID: "twin", ISBN: "b4", Value: 5.0},
			{UserID: "loner", ISBN: "b3", Value: 5.0},
		})
	cf := NewUserCF(BuildMatrix(snap), DefaultUserCFConfig())

	ranked := cf.Rank("target")
	if len(ranked) != 1 {
		t.Fatalf("Rank(target) = %v, want exactly b2", ranked)
	}
	if ranked[0].ISBN != "b2" {
		t.Errorf("recommended %s, want b2 (b1 rated, b4 implicit, b3 unreachable)", ranked[0].ISBN)
	}
	// Single neighbor with sim 1 rating b2 at 4.0 predicts 4.0/5 = 0.8.
	if math.Abs(ranked[0].Score-0.8) > 1e-9 {
		t.Errorf("score = %v, want 0.8", ranked[0].Score)
	}
}

func TestUserCFColdStart(t *testing.T) {
	cf := NewUserCF(tasteClusterMatrix(t), DefaultUserCFConfig())

	if got := cf.Rank("unknown-user"); got != nil {
		t.Errorf("Rank(unknown) = %v, want nil", got)
	}

	// A user whose only interactions are implicit has no explicit vector.
	snap := snapshotFor(t,
		[]string{"b1"},
		[]string{"u1"},
		[]catalog.Rating{{UserID: "u1", ISBN: "b1", Value: 0}})
	cf = NewUserCF(BuildMatrix(snap), DefaultUserCFConfig())
	if got := cf.Rank("u1"); got != nil {
		t.Errorf("Rank(implicit-only) = %v, want nil", got)
	}
}

func TestUserCFNeighborLimit(t *testing.T) {
	ratings := []catalog.Rating{
		{UserID: "target", ISBN: "shared", Value: 5.0},
	}
	users := []string{"target"}
	books := []string{"shared", "rec1", "rec2"}
	for _, id := range []string{"n1", "n2", "n3"} {
		users = append(users, id)
		ratings = append(ratings,
			catalog.Rating{UserID: id, ISBN: "shared", Value: 5.0},
			catalog.Rating{UserID: id, ISBN: "rec1", Value: 4.0},
		)
	}
	snap := snapshotFor(t, books, users, ratings)

	cf := NewUserCF(BuildMatrix(snap), UserCFConfig{Neighbors: 2, MinOverlap: 1})
	ranked := cf.Rank("target")
	if len(ranked) != 1 || ranked[0].ISBN != "rec1" {
		t.Fatalf("Rank(target) = %v, want rec1", ranked)
	}
}
