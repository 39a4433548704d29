// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package recommend

// stats computes corpus statistics from this generation's snapshot and
// matrix. Cheap enough to run per call; nothing is memoized so a new
// generation can never serve stale numbers.
func (g *generation) stats() Stats {
	snap := g.snapshot

	var explicitSum float64
	var explicitCount int
	userSums := make(map[string]float64)
	userCounts := make(map[string]int)
	for _, r := range snap.Ratings() {
		if !r.IsExplicit() {
			continue
		}
		explicitSum += r.Value
		explicitCount++
		userSums[r.UserID] += r.Value
		userCounts[r.UserID]++
	}

	s := Stats{
		TotalUsers:      snap.NumUsers(),
		TotalBooks:      snap.NumBooks(),
		TotalGenres:     len(snap.Genres()),
		TotalRatings:    snap.NumRatings(),
		ExplicitRatings: explicitCount,
		Sparsity:        g.matrix.Sparsity(),
	}
	if explicitCount > 0 {
		s.AverageBookRating = explicitSum / float64(explicitCount)
	}
	if len(userSums) > 0 {
		var total float64
		for userID, sum := range userSums {
			total += sum / float64(userCounts[userID])
		}
		s.AverageUserRating = total / float64(len(userSums))
	}
	return s
}
