// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

// Package collab implements the interaction matrix and collaborative
// filtering: item-item similarity over co-rating users, user-based
// neighborhood scoring, and the popularity table used for cold starts.
package collab

import (
	"github.com/librarium/librarium/internal/catalog"
)

// Scored pairs a book with a score in [0, 1].
type Scored struct {
	ISBN  string
	Score float64
}

// Matrix is the sparse user-by-book interaction matrix for one catalog
// generation. Only explicit ratings (value > 0) enter the matrix; implicit
// interactions are tracked separately so they can suppress
// already-seen books without polluting similarity math. Immutable after
// construction and safe for concurrent reads.
type Matrix struct {
	byUser map[string]map[string]float64
	byBook map[string]map[string]float64

	// interacted covers explicit and implicit entries per user.
	interacted map[string]map[string]struct{}

	numUsers int
	numBooks int
	explicit int
}

// BuildMatrix constructs the matrix from a snapshot. The snapshot's full
// dimensions (all users, all books) are retained for sparsity reporting
// even when many rows or columns are empty.
func BuildMatrix(snap *catalog.Snapshot) *Matrix {
	m := &Matrix{
		byUser:     make(map[string]map[string]float64),
		byBook:     make(map[string]map[string]float64),
		interacted: make(map[string]map[string]struct{}),
		numUsers:   snap.NumUsers(),
		numBooks:   snap.NumBooks(),
	}

	for _, r := range snap.Ratings() {
		seen := m.interacted[r.UserID]
		if seen == nil {
			seen = make(map[string]struct{})
			m.interacted[r.UserID] = seen
		}
		seen[r.ISBN] = struct{}{}

		if !r.IsExplicit() {
			continue
		}

		row := m.byUser[r.UserID]
		if row == nil {
			row = make(map[string]float64)
			m.byUser[r.UserID] = row
		}
		row[r.ISBN] = r.Value

		col := m.byBook[r.ISBN]
		if col == nil {
			col = make(map[string]float64)
			m.byBook[r.ISBN] = col
		}
		col[r.UserID] = r.Value
		m.explicit++
	}

	return m
}

// Sparsity returns 1 - explicit/(users*books) over the full snapshot
// dimensions. An empty matrix is fully sparse.
func (m *Matrix) Sparsity() float64 {
	cells := float64(m.numUsers) * float64(m.numBooks)
	if cells == 0 {
		return 1.0
	}
	return 1.0 - float64(m.explicit)/cells
}

// ExplicitCount returns the number of explicit ratings in the matrix.
func (m *Matrix) ExplicitCount() int {
	return m.explicit
}

// UserRatings returns a user's explicit ratings keyed by ISBN. Callers
// must not modify the result. Unknown users yield nil.
func (m *Matrix) UserRatings(userID string) map[string]float64 {
	return m.byUser[userID]
}

// BookRatings returns a book's explicit ratings keyed by user ID. Callers
// must not modify the result. Unknown books yield nil.
func (m *Matrix) BookRatings(isbn string) map[string]float64 {
	return m.byBook[isbn]
}

// UserRatingCount returns the user's explicit rating count.
func (m *Matrix) UserRatingCount(userID string) int {
	return len(m.byUser[userID])
}

// BookRatingCount returns the book's explicit rating count.
func (m *Matrix) BookRatingCount(isbn string) int {
	return len(m.byBook[isbn])
}

// HasInteracted reports whether the user has any recorded interaction with
// the book, explicit or implicit. Used to keep already-seen books out of
// recommendations.
func (m *Matrix) HasInteracted(userID, isbn string) bool {
	_, ok := m.interacted[userID][isbn]
	return ok
}

// Interactions returns the set of books a user has interacted with,
// explicit and implicit. Callers must not modify the result.
func (m *Matrix) Interactions(userID string) map[string]struct{} {
	return m.interacted[userID]
}
