// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package catalog

import (
	"testing"
)

func TestNewSnapshotDeduplication(t *testing.T) {
	tests := []struct {
		name        string
		books       []Book
		users       []User
		ratings     []Rating
		wantBooks   int
		wantUsers   int
		wantRatings int
		verify      func(t *testing.T, s *Snapshot)
	}{
		{
			name: "duplicate rating keeps last value",
			books: []Book{
				{ISBN: "111", Title: "Dune"},
			},
			users: []User{
				{ID: "u1"},
			},
			ratings: []Rating{
				{UserID: "u1", ISBN: "111", Value: 2.0},
				{UserID: "u1", ISBN: "111", Value: 4.5},
			},
			wantBooks:   1,
			wantUsers:   1,
			wantRatings: 1,
			verify: func(t *testing.T, s *Snapshot) {
				if got := s.Ratings()[0].Value; got != 4.5 {
					t.Errorf("rating value = %v, want 4.5 (last wins)", got)
				}
			},
		},
		{
			name: "dangling ratings dropped",
			books: []Book{
				{ISBN: "111", Title: "Dune"},
			},
			users: []User{
				{ID: "u1"},
			},
			ratings: []Rating{
				{UserID: "u1", ISBN: "111", Value: 3.0},
				{UserID: "ghost", ISBN: "111", Value: 3.0},
				{UserID: "u1", ISBN: "missing", Value: 3.0},
			},
			wantBooks:   1,
			wantUsers:   1,
			wantRatings: 1,
		},
		{
			name: "duplicate book keeps last metadata",
			books: []Book{
				{ISBN: "111", Title: "Dune"},
				{ISBN: "111", Title: "Dune (Revised)"},
			},
			wantBooks: 1,
			verify: func(t *testing.T, s *Snapshot) {
				b, ok := s.Book("111")
				if !ok {
					t.Fatal("book 111 not found")
				}
				if b.Title != "Dune (Revised)" {
					t.Errorf("title = %q, want revised edition", b.Title)
				}
			},
		},
		{
			name:        "empty inputs",
			wantBooks:   0,
			wantUsers:   0,
			wantRatings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSnapshot(tt.books, tt.users, tt.ratings)
			if got := s.NumBooks(); got != tt.wantBooks {
				t.Errorf("NumBooks() = %d, want %d", got, tt.wantBooks)
			}
			if got := s.NumUsers(); got != tt.wantUsers {
				t.Errorf("NumUsers() = %d, want %d", got, tt.wantUsers)
			}
			if got := s.NumRatings(); got != tt.wantRatings {
				t.Errorf("NumRatings() = %d, want %d", got, tt.wantRatings)
			}
			if tt.verify != nil {
				tt.verify(t, s)
			}
		})
	}
}

func TestSnapshotGenres(t *testing.T) {
	s := NewSnapshot([]Book{
		{ISBN: "1", Title: "a", Genre: "sci-fi"},
		{ISBN: "2", Title: "b", Genre: "fantasy"},
		{ISBN: "3", Title: "c", Genre: "sci-fi"},
		{ISBN: "4", Title: "d"},
	}, nil, nil)

	genres := s.Genres()
	if len(genres) != 2 {
		t.Fatalf("Genres() = %v, want 2 distinct", genres)
	}
	if genres[0] != "fantasy" || genres[1] != "sci-fi" {
		t.Errorf("Genres() = %v, want sorted [fantasy sci-fi]", genres)
	}
}

func TestSnapshotSortedISBNs(t *testing.T) {
	s := NewSnapshot([]Book{
		{ISBN: "222", Title: "b"},
		{ISBN: "111", Title: "a"},
		{ISBN: "333", Title: "c"},
	}, nil, nil)

	got := s.SortedISBNs()
	want := []string{"111", "222", "333"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedISBNs() = %v, want %v", got, want)
		}
	}
}

func TestRatingIsExplicit(t *testing.T) {
	if (Rating{Value: 0}).IsExplicit() {
		t.Error("zero rating should be implicit")
	}
	if !(Rating{Value: 0.5}).IsExplicit() {
		t.Error("positive rating should be explicit")
	}
}
