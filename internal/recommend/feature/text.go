// Librarium - Book Catalog and Hybrid Recommendation Engine
// Copyright 2026 Librarium Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/librarium/librarium

// Package feature builds the content model: TF-IDF vectors over book
// metadata, reduced by a seeded random projection and partitioned into
// clusters used as a candidate pre-filter for similarity queries.
package feature

import (
	"regexp"
	"strings"
)

var (
	htmlTagPattern   = regexp.MustCompile(`<[^>]+>`)
	urlPattern       = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailPattern     = regexp.MustCompile(`\S+@\S+\.\S+`)
	nonLetterPattern = regexp.MustCompile(`[^a-z]+`)
)

// englishStopWords is the standard English stop word list used for
// vocabulary pruning.
var englishStopWords = map[string]struct{}{}

// bookStopWords removes terms so common in book metadata that they carry
// no discriminative signal.
var bookStopWords = map[string]struct{}{}

func init() {
	english := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "can", "did", "do",
		"does", "doing", "down", "during", "each", "few", "for", "from",
		"further", "had", "has", "have", "having", "he", "her", "here", "hers",
		"herself", "him", "himself", "his", "how", "i", "if", "in", "into",
		"is", "it", "its", "itself", "just", "me", "more", "most", "my",
		"myself", "no", "nor", "not", "now", "of", "off", "on", "once", "only",
		"or", "other", "our", "ours", "ourselves", "out", "over", "own", "s",
		"same", "she", "should", "so", "some", "such", "t", "than", "that",
		"the", "their", "theirs", "them", "themselves", "then", "there",
		"these", "they", "this", "those", "through", "to", "too", "under",
		"until", "up", "very", "was", "we", "were", "what", "when", "where",
		"which", "while", "who", "whom", "why", "will", "with", "you", "your",
		"yours", "yourself", "yourselves",
	}
	for _, w := range english {
		englishStopWords[w] = struct{}{}
	}

	domain := []string{
		"book", "novel", "story", "tale", "chapter", "page", "read",
		"reading", "author", "writer", "written", "publish", "published",
		"publication", "edition", "volume", "series", "part", "first",
		"second", "third",
	}
	for _, w := range domain {
		bookStopWords[w] = struct{}{}
	}
}

// CleanText lowercases the input and strips HTML tags, URLs, email
// addresses, and non-letter characters, collapsing runs of whitespace.
func CleanText(s string) string {
	s = strings.ToLower(s)
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = urlPattern.ReplaceAllString(s, " ")
	s = emailPattern.ReplaceAllString(s, " ")
	s = nonLetterPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize cleans the input and splits it into tokens, dropping stop words
// and single-letter tokens.
func Tokenize(s string) []string {
	fields := strings.Fields(CleanText(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		if _, stop := bookStopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Terms expands a token sequence into the term set used for vectorization:
// the unigrams plus adjacent-pair bigrams joined by a space.
func Terms(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
