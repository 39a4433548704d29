// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package collab

import (
	"sort"

	"github.com/librarium/librarium/internal/catalog"
)

// UserCFConfig controls user-based collaborative filtering.
type UserCFConfig struct {
	// Neighbors is the number of most-similar users consulted.
	// Default: 20
	Neighbors int

	// MinOverlap is the minimum number of co-rated books required for a
	// user pair to count as neighbors. Default: 1
	MinOverlap int
}

// DefaultUserCFConfig returns the standard user CF settings.
func DefaultUserCFConfig() UserCFConfig {
	return UserCFConfig{
		Neighbors:  20,
		MinOverlap: 1,
	}
}

// neighbor is a similar user with their cosine similarity to the target.
type neighbor struct {
	userID string
	sim    float64
}

// UserCF scores unseen books for a user from the ratings of the user's
// nearest neighbors. Safe for concurrent use.
type UserCF struct {
	matrix *Matrix
	config UserCFConfig
}

// NewUserCF creates a user-based collaborative filter over the matrix.
func NewUserCF(matrix *Matrix, cfg UserCFConfig) *UserCF {
	if cfg.Neighbors < 1 {
		cfg.Neighbors = 20
	}
	if cfg.MinOverlap < 1 {
		cfg.MinOverlap = 1
	}
	return &UserCF{matrix: matrix, config: cfg}
}

// Rank scores every book the user's neighbors rated but the user has not
// interacted with. Scores are similarity-weighted average ratings
// normalized by the rating scale, so they land in [0, 1]. A user with no
// explicit ratings yields an empty result.
func (c *UserCF) Rank(userID string) []Scored {
	target := c.matrix.UserRatings(userID)
	if len(target) == 0 {
		return nil
	}

	neighbors := c.nearestNeighbors(userID, target)
	if len(neighbors) == 0 {
		return nil
	}

	type accum struct {
		weighted float64
		simSum   float64
	}
	candidates := make(map[string]*accum)
	for _, nb := range neighbors {
		for isbn, value := range c.matrix.UserRatings(nb.userID) {
			if c.matrix.HasInteracted(userID, isbn) {
				continue
			}
			a := candidates[isbn]
			if a == nil {
				a = &accum{}
				candidates[isbn] = a
			}
			a.weighted += nb.sim * value
			a.simSum += nb.sim
		}
	}

	scored := make([]Scored, 0, len(candidates))
	for isbn, a := range candidates {
		if a.simSum == 0 {
			continue
		}
		predicted := a.weighted / a.simSum
		scored = append(scored, Scored{ISBN: isbn, Score: clamp01(predicted / catalog.RatingScale)})
	}
	sortScored(scored)
	return scored
}

// nearestNeighbors finds the top-N users by cosine similarity over
// co-rated books. Candidate users are discovered through the target's
// rated books, so disjoint users are never scanned.
func (c *UserCF) nearestNeighbors(userID string, target map[string]float64) []neighbor {
	seen := make(map[string]struct{})
	var neighbors []neighbor
	for isbn := range target {
		for other := range c.matrix.BookRatings(isbn) {
			if other == userID {
				continue
			}
			if _, done := seen[other]; done {
				continue
			}
			seen[other] = struct{}{}

			sim, overlap := c.userSimilarity(target, c.matrix.UserRatings(other))
			if overlap >= c.config.MinOverlap && sim > 0 {
				neighbors = append(neighbors, neighbor{userID: other, sim: sim})
			}
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].sim != neighbors[j].sim {
			return neighbors[i].sim > neighbors[j].sim
		}
		return neighbors[i].userID < neighbors[j].userID
	})
	if len(neighbors) > c.config.Neighbors {
		neighbors = neighbors[:c.config.Neighbors]
	}
	return neighbors
}

// userSimilarity computes cosine similarity over the books both users
// rated and reports the overlap size.
func (c *UserCF) userSimilarity(a, b map[string]float64) (sim float64, overlap int) {
	if len(b) < len(a) {
		a, b = b, a
	}
	var va, vb []float64
	for isbn, x := range a {
		if y, ok := b[isbn]; ok {
			va = append(va, x)
			vb = append(vb, y)
		}
	}
	if len(va) == 0 {
		return 0, 0
	}
	return clamp01(cosine(va, vb)), len(va)
}
