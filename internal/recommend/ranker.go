// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

package recommend

import (
	"fmt"
	"sort"

	"github.com/librarium/librarium/internal/catalog"
	"github.com/librarium/librarium/internal/recommend/feature"
)

// profileBooks caps how many of a user's top-rated books seed the content
// side of user recommendations. Each profile book costs one full content
// ranking.
const profileBooks = 5

// blended accumulates the per-candidate signal components before final
// scoring.
type blended struct {
	collab  float64
	content float64
}

// effectiveAlpha returns the collaborative weight for an anchor with n
// explicit ratings. Anchors below the threshold get a proportionally
// smaller alpha so thin collaborative evidence never dominates content.
func effectiveAlpha(cfg *HybridConfig, n int) float64 {
	if n >= cfg.RatingThreshold {
		return cfg.Alpha
	}
	return cfg.Alpha * float64(n) / float64(cfg.RatingThreshold)
}

// rankFromBook produces the full ranking for a book anchor. The result
// excludes the anchor, is deduplicated by ISBN, and is ordered by score
// descending with popularity then ISBN as tie-breaks. Unknown anchors
// yield nil.
func (g *generation) rankFromBook(isbn string, cfg *HybridConfig) []Recommendation {
	anchor, ok := g.snapshot.Book(isbn)
	if !ok {
		return nil
	}

	n := g.matrix.BookRatingCount(isbn)
	contentRank := g.content.Rank(isbn)

	if n == 0 {
		if len(contentRank) == 0 {
			// No signal at all: neither text nor ratings.
			return g.popularityRanking(func(candidate string) bool {
				return candidate == isbn
			})
		}
		return g.coldStartContentRanking(&anchor, contentRank, cfg)
	}

	scores := make(map[string]*blended, len(contentRank))
	for _, s := range contentRank {
		scores[s.ISBN] = &blended{content: s.Score}
	}
	for _, s := range g.itemCF.Rank(isbn) {
		b := scores[s.ISBN]
		if b == nil {
			b = &blended{}
			scores[s.ISBN] = b
		}
		b.collab = s.Score
	}
	delete(scores, isbn)

	alpha := effectiveAlpha(cfg, n)
	recs := make([]Recommendation, 0, len(scores))
	for candidate, b := range scores {
		book, found := g.snapshot.Book(candidate)
		if !found {
			continue
		}
		score := alpha*b.collab + (1-alpha)*b.content
		if score <= 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Book:               book,
			SimilarityScore:    score,
			RecommendationType: blendType(b),
			Reason:             g.bookReason(&anchor, b, alpha),
		})
	}
	g.sortRecommendations(recs)
	return recs
}

// coldStartContentRanking re-ranks a content ranking with a popularity
// boost for anchors nobody has rated yet.
func (g *generation) coldStartContentRanking(anchor *catalog.Book, contentRank []feature.Scored, cfg *HybridConfig) []Recommendation {
	w := cfg.PopularityWeight
	recs := make([]Recommendation, 0, len(contentRank))
	for _, s := range contentRank {
		book, found := g.snapshot.Book(s.ISBN)
		if !found {
			continue
		}
		score := (1-w)*s.Score + w*g.popularity.NormalizedBoost(s.ISBN)
		if score <= 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Book:               book,
			SimilarityScore:    score,
			RecommendationType: TypeContentBased,
			Reason:             contentReason(anchor.Title),
		})
	}
	g.sortRecommendations(recs)
	return recs
}

// rankForUser produces the full ranking for a user anchor. Books the user
// has interacted with, explicitly or implicitly, never appear. Unknown
// users yield nil; known users without explicit ratings get the
// popularity fallback.
func (g *generation) rankForUser(userID string, cfg *HybridConfig) []Recommendation {
	if !g.snapshot.HasUser(userID) {
		return nil
	}

	rated := g.matrix.UserRatings(userID)
	if len(rated) == 0 {
		return g.popularityRanking(func(candidate string) bool {
			return g.matrix.HasInteracted(userID, candidate)
		})
	}

	scores := make(map[string]*blended)
	for _, s := range g.userCF.Rank(userID) {
		scores[s.ISBN] = &blended{collab: s.Score}
	}
	g.addUserContentScores(scores, userID, rated)

	alpha := effectiveAlpha(cfg, len(rated))
	recs := make([]Recommendation, 0, len(scores))
	for candidate, b := range scores {
		if g.matrix.HasInteracted(userID, candidate) {
			continue
		}
		book, found := g.snapshot.Book(candidate)
		if !found {
			continue
		}
		score := alpha*b.collab + (1-alpha)*b.content
		if score <= 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Book:               book,
			SimilarityScore:    score,
			RecommendationType: blendType(b),
			Reason:             userReason(b, alpha),
		})
	}
	g.sortRecommendations(recs)
	return recs
}

// addUserContentScores folds content similarity into the candidate map
// from the user's highest-rated books, weighted by how much the user
// liked each profile book.
func (g *generation) addUserContentScores(scores map[string]*blended, userID string, rated map[string]float64) {
	type profileBook struct {
		isbn  string
		value float64
	}
	profile := make([]profileBook, 0, len(rated))
	for isbn, value := range rated {
		profile = append(profile, profileBook{isbn: isbn, value: value})
	}
	sort.Slice(profile, func(i, j int) bool {
		if profile[i].value != profile[j].value {
			return profile[i].value > profile[j].value
		}
		return profile[i].isbn < profile[j].isbn
	})
	if len(profile) > profileBooks {
		profile = profile[:profileBooks]
	}

	var totalWeight float64
	accum := make(map[string]float64)
	for _, p := range profile {
		weight := p.value / catalog.RatingScale
		totalWeight += weight
		for _, s := range g.content.Rank(p.isbn) {
			accum[s.ISBN] += weight * s.Score
		}
	}
	if totalWeight == 0 {
		return
	}

	for isbn, sum := range accum {
		b := scores[isbn]
		if b == nil {
			b = &blended{}
			scores[isbn] = b
		}
		b.content = sum / totalWeight
	}
}

// popularityRanking returns the full popularity fallback ranking, skipping
// candidates the exclude predicate rejects.
func (g *generation) popularityRanking(exclude func(isbn string) bool) []Recommendation {
	ranked := g.popularity.Ranked()
	recs := make([]Recommendation, 0, len(ranked))
	for _, isbn := range ranked {
		if exclude(isbn) {
			continue
		}
		book, found := g.snapshot.Book(isbn)
		if !found {
			continue
		}
		recs = append(recs, Recommendation{
			Book:               book,
			SimilarityScore:    g.popularity.NormalizedBoost(isbn),
			RecommendationType: TypePopularityFallback,
			Reason:             popularityReason,
		})
	}
	return recs
}

// sortRecommendations orders by score descending, popularity boost
// descending, ISBN ascending.
func (g *generation) sortRecommendations(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].SimilarityScore != recs[j].SimilarityScore {
			return recs[i].SimilarityScore > recs[j].SimilarityScore
		}
		bi := g.popularity.Boost(recs[i].Book.ISBN)
		bj := g.popularity.Boost(recs[j].Book.ISBN)
		if bi != bj {
			return bi > bj
		}
		return recs[i].Book.ISBN < recs[j].Book.ISBN
	})
}

// blendType labels a candidate by which signals contributed.
func blendType(b *blended) RecommendationType {
	switch {
	case b.collab > 0 && b.content > 0:
		return TypeHybrid
	case b.collab > 0:
		return TypeCollaborative
	default:
		return TypeContentBased
	}
}

const popularityReason = "Popular among readers"

func contentReason(title string) string {
	return fmt.Sprintf("Similar content and themes to '%s'", title)
}

func collabReason(title string) string {
	return fmt.Sprintf("Users who liked '%s' also enjoyed this book", title)
}

// bookReason picks the reason string for a book-anchored result based on
// the dominant signal.
func (g *generation) bookReason(anchor *catalog.Book, b *blended, alpha float64) string {
	if alpha*b.collab >= (1-alpha)*b.content && b.collab > 0 {
		return collabReason(anchor.Title)
	}
	return contentReason(anchor.Title)
}

// userReason picks the reason string for a user-anchored result based on
// the dominant signal.
func userReason(b *blended, alpha float64) string {
	if alpha*b.collab >= (1-alpha)*b.content && b.collab > 0 {
		return "Readers with similar taste rated this highly"
	}
	return "Matches the themes of books you rated highly"
}
