// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

// Package catalog defines the book catalog data model and the immutable
// snapshots the recommendation engine trains on.
//
// A Snapshot is a point-in-time, read-only view of the catalog: books,
// users, and ratings plus lookup indexes. The engine never mutates a
// snapshot; rebuilds construct derived structures from one and swap them
// in atomically.
package catalog

// RatingScale is the upper bound of the normalized rating scale.
// Source data arrives on a 0-10 scale and is halved at ingest.
const RatingScale = 5.0

// Book is a single catalog entry. Identity is the ISBN; all other fields
// are descriptive metadata. Genre and Description are optional and may be
// empty without affecting catalog validity.
type Book struct {
	ISBN        string  `json:"isbn" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author"`
	Year        int     `json:"year"`
	Publisher   string  `json:"publisher"`
	ImageURL    string  `json:"image_url"`
	Rating      float64 `json:"rating,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Description string  `json:"description,omitempty"`
}

// User is a catalog member. Location and Age are carried through from the
// source data for completeness but never participate in scoring.
type User struct {
	ID       string `json:"id" validate:"required"`
	Location string `json:"location,omitempty"`
	Age      int    `json:"age,omitempty"`
}

// Rating records one user's interaction with one book.
//
// Value is on the normalized 0-5 scale. A value of exactly 0 is an
// implicit interaction (the user shelved or viewed the book without
// scoring it) and is deliberately distinct from a low explicit rating.
type Rating struct {
	UserID string  `json:"user_id" validate:"required"`
	ISBN   string  `json:"isbn" validate:"required"`
	Value  float64 `json:"value" validate:"gte=0,lte=5"`
}

// IsExplicit reports whether the rating carries an explicit score.
func (r Rating) IsExplicit() bool {
	return r.Value > 0
}
