// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

// Package recommend implements the hybrid book recommendation engine.
//
// The engine blends two signals per candidate book:
//
//   - content similarity: cosine over reduced TF-IDF vectors of the book
//     metadata (package feature)
//   - collaborative similarity: item-item and user-neighborhood scores
//     from the explicit rating matrix (package collab)
//
// Blending is three-tiered by the anchor's explicit rating count n
// against a threshold N: anchors with n >= N get the configured
// collaborative weight alpha, anchors with 0 < n < N get alpha scaled by
// n/N, and anchors with no ratings fall back to content re-ranked with a
// popularity boost. Anchors with no signal at all get the pure
// popularity ranking.
//
// All derived state lives in an immutable generation swapped atomically
// by BuildOrRefresh, so queries are lock-free, rebuilds never disturb
// in-flight reads, and a failed rebuild leaves the previous generation
// serving. Full rankings are cached per (generation, anchor) and sliced
// per request, which keeps results prefix-stable across different k.
package recommend
