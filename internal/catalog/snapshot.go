// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package catalog

import (
	"sort"
)

// Snapshot is an immutable point-in-time view of the catalog.
//
// Ratings are deduplicated on (UserID, ISBN) with last-wins semantics and
// dangling ratings (unknown user or book) are dropped during construction,
// so downstream consumers can index without existence checks.
type Snapshot struct {
	books   []Book
	users   []User
	ratings []Rating

	bookIdx map[string]int
	userIdx map[string]int
}

// NewSnapshot builds a snapshot from raw catalog tables.
//
// Duplicate books/users on their key keep the last occurrence. Ratings
// referencing an unknown user or book are discarded. The input slices are
// copied; callers may reuse them afterwards.
func NewSnapshot(books []Book, users []User, ratings []Rating) *Snapshot {
	s := &Snapshot{
		bookIdx: make(map[string]int, len(books)),
		userIdx: make(map[string]int, len(users)),
	}

	for _, b := range books {
		if idx, ok := s.bookIdx[b.ISBN]; ok {
			s.books[idx] = b
			continue
		}
		s.bookIdx[b.ISBN] = len(s.books)
		s.books = append(s.books, b)
	}

	for _, u := range users {
		if idx, ok := s.userIdx[u.ID]; ok {
			s.users[idx] = u
			continue
		}
		s.userIdx[u.ID] = len(s.users)
		s.users = append(s.users, u)
	}

	// Last-wins dedup on (user, book).
	seen := make(map[[2]string]int, len(ratings))
	for _, r := range ratings {
		if _, ok := s.userIdx[r.UserID]; !ok {
			continue
		}
		if _, ok := s.bookIdx[r.ISBN]; !ok {
			continue
		}
		key := [2]string{r.UserID, r.ISBN}
		if idx, ok := seen[key]; ok {
			s.ratings[idx] = r
			continue
		}
		seen[key] = len(s.ratings)
		s.ratings = append(s.ratings, r)
	}

	return s
}

// Books returns the book table. Callers must not modify the result.
func (s *Snapshot) Books() []Book {
	return s.books
}

// Users returns the user table. Callers must not modify the result.
func (s *Snapshot) Users() []User {
	return s.users
}

// Ratings returns the deduplicated rating table. Callers must not modify
// the result.
func (s *Snapshot) Ratings() []Rating {
	return s.ratings
}

// Book looks up a book by ISBN.
func (s *Snapshot) Book(isbn string) (Book, bool) {
	idx, ok := s.bookIdx[isbn]
	if !ok {
		return Book{}, false
	}
	return s.books[idx], true
}

// HasBook reports whether the ISBN exists in the snapshot.
func (s *Snapshot) HasBook(isbn string) bool {
	_, ok := s.bookIdx[isbn]
	return ok
}

// HasUser reports whether the user ID exists in the snapshot.
func (s *Snapshot) HasUser(id string) bool {
	_, ok := s.userIdx[id]
	return ok
}

// NumBooks returns the number of distinct books.
func (s *Snapshot) NumBooks() int { return len(s.books) }

// NumUsers returns the number of distinct users.
func (s *Snapshot) NumUsers() int { return len(s.users) }

// NumRatings returns the number of deduplicated ratings, implicit included.
func (s *Snapshot) NumRatings() int { return len(s.ratings) }

// Genres returns the distinct non-empty genres in ascending order.
func (s *Snapshot) Genres() []string {
	set := make(map[string]struct{})
	for i := range s.books {
		if g := s.books[i].Genre; g != "" {
			set[g] = struct{}{}
		}
	}
	genres := make([]string, 0, len(set))
	for g := range set {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// SortedISBNs returns all ISBNs in ascending order. The result is a fresh
// slice owned by the caller.
func (s *Snapshot) SortedISBNs() []string {
	isbns := make([]string, 0, len(s.books))
	for i := range s.books {
		isbns = append(isbns, s.books[i].ISBN)
	}
	sort.Strings(isbns)
	return isbns
}
