// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/librarium/librarium/internal/catalog"
	"github.com/librarium/librarium/internal/recommend/collab"
	"github.com/librarium/librarium/internal/recommend/feature"
)

// generation bundles every derived structure for one catalog snapshot.
// It is immutable once built and installed with a single pointer swap,
// so readers always see a consistent set: snapshot, content model,
// interaction matrix, popularity table, and the two collaborative
// filters all describe the same data.
type generation struct {
	id         string
	snapshot   *catalog.Snapshot
	content    *feature.Model
	matrix     *collab.Matrix
	popularity *collab.Popularity
	itemCF     *collab.ItemCF
	userCF     *collab.UserCF
	info       BuildInfo
}

// buildGeneration derives all structures from the snapshot. Returns
// ErrEmptyCorpus when the snapshot holds no books; the context is
// honored throughout the content build.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildGeneration(ctx context.Context, snap *catalog.Snapshot, cfg *Config, logger zerolog.Logger) (*generation, error) {
	if snap == nil || snap.NumBooks() == 0 {
		return nil, ErrEmptyCorpus
	}

	start := time.Now()
	content, err := feature.Build(ctx, snap.Books(), cfg.Content, logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrix := collab.BuildMatrix(snap)
	g := &generation{
		id:         uuid.NewString(),
		snapshot:   snap,
		content:    content,
		matrix:     matrix,
		popularity: collab.BuildPopularity(snap),
		itemCF:     collab.NewItemCF(matrix, cfg.ItemCF),
		userCF:     collab.NewUserCF(matrix, cfg.UserCF),
	}
	g.info = BuildInfo{
		Generation: g.id,
		BuiltAt:    time.Now().UTC(),
		Duration:   time.Since(start),
		Books:      snap.NumBooks(),
		Users:      snap.NumUsers(),
		Ratings:    snap.NumRatings(),
	}
	return g, nil
}

// corpusSize returns the number of books in this generation.
func (g *generation) corpusSize() int {
	return g.snapshot.NumBooks()
}
