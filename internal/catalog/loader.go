// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package catalog

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// rawRating is the on-disk rating shape. Values arrive on the source 0-10
// scale and are normalized to 0-5 during load.
type rawRating struct {
	UserID string  `json:"user_id" validate:"required"`
	ISBN   string  `json:"isbn" validate:"required"`
	Value  float64 `json:"value" validate:"gte=0,lte=10"`
}

// LoaderConfig points the loader at the catalog dump files.
type LoaderConfig struct {
	// BooksPath is the JSON array of books.
	BooksPath string

	// UsersPath is the JSON array of users.
	UsersPath string

	// RatingsPath is the JSON array of ratings (0-10 scale).
	RatingsPath string
}

// LoadReport summarizes one load, including how many records were dropped
// by validation. Dropped records are logged individually at debug level.
type LoadReport struct {
	Books           int
	Users           int
	Ratings         int
	SkippedBooks    int
	SkippedUsers    int
	SkippedRatings  int
	ImplicitRatings int
}

// Loader reads catalog dump files into snapshots.
type Loader struct {
	config   LoaderConfig
	logger   zerolog.Logger
	validate *validator.Validate
}

// NewLoader creates a loader for the given dump files.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(cfg LoaderConfig, logger zerolog.Logger) *Loader {
	return &Loader{
		config:   cfg,
		logger:   logger.With().Str("component", "catalog-loader").Logger(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load reads, validates, and normalizes all three dump files into a
// snapshot. Records failing validation are skipped and counted, never
// fatal; missing or unreadable files are.
func (l *Loader) Load() (*Snapshot, LoadReport, error) {
	var report LoadReport

	var rawBooks []Book
	if err := readJSONFile(l.config.BooksPath, &rawBooks); err != nil {
		return nil, report, fmt.Errorf("load books: %w", err)
	}

	var rawUsers []User
	if err := readJSONFile(l.config.UsersPath, &rawUsers); err != nil {
		return nil, report, fmt.Errorf("load users: %w", err)
	}

	var rawRatings []rawRating
	if err := readJSONFile(l.config.RatingsPath, &rawRatings); err != nil {
		return nil, report, fmt.Errorf("load ratings: %w", err)
	}

	books := make([]Book, 0, len(rawBooks))
	for i := range rawBooks {
		if err := l.validate.Struct(&rawBooks[i]); err != nil {
			report.SkippedBooks++
			l.logger.Debug().Err(err).Str("isbn", rawBooks[i].ISBN).Msg("skipping invalid book")
			continue
		}
		books = append(books, rawBooks[i])
	}

	users := make([]User, 0, len(rawUsers))
	for i := range rawUsers {
		if err := l.validate.Struct(&rawUsers[i]); err != nil {
			report.SkippedUsers++
			l.logger.Debug().Err(err).Str("user", rawUsers[i].ID).Msg("skipping invalid user")
			continue
		}
		users = append(users, rawUsers[i])
	}

	ratings := make([]Rating, 0, len(rawRatings))
	for i := range rawRatings {
		if err := l.validate.Struct(&rawRatings[i]); err != nil {
			report.SkippedRatings++
			l.logger.Debug().Err(err).
				Str("user", rawRatings[i].UserID).
				Str("isbn", rawRatings[i].ISBN).
				Msg("skipping invalid rating")
			continue
		}
		r := Rating{
			UserID: rawRatings[i].UserID,
			ISBN:   rawRatings[i].ISBN,
			Value:  rawRatings[i].Value / 2,
		}
		if !r.IsExplicit() {
			report.ImplicitRatings++
		}
		ratings = append(ratings, r)
	}

	snap := NewSnapshot(books, users, ratings)
	report.Books = snap.NumBooks()
	report.Users = snap.NumUsers()
	report.Ratings = snap.NumRatings()

	l.logger.Info().
		Int("books", report.Books).
		Int("users", report.Users).
		Int("ratings", report.Ratings).
		Int("skipped_books", report.SkippedBooks).
		Int("skipped_users", report.SkippedUsers).
		Int("skipped_ratings", report.SkippedRatings).
		Msg("catalog loaded")

	return snap, report, nil
}

// readJSONFile reads and unmarshals a JSON file into dst.
func readJSONFile(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
