// Package search implements the shared free-text filter grammar used by
// catalog listings, settlement rows and the statistics dashboard.
//
// A query is a comma-separated list of AND groups; inside a group, hyphens
// separate OR alternatives. Tokens and haystack fields are normalized
// (accents stripped, lowercased) before substring matching.
package search

import (
	"strings"

	"github.com/sistemascrenat/liquidaciones-sub000/pkg/textnorm"
)

// Matches reports whether the haystack fields satisfy the query.
// An empty query matches everything. Groups that end up with no usable
// tokens after splitting are dropped rather than forcing a non-match.
func Matches(fields []string, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}

	normalized := make([]string, 0, len(fields))
	for _, f := range fields {
		if nf := textnorm.Normalize(f); nf != "" {
			normalized = append(normalized, nf)
		}
	}
	haystack := strings.Join(normalized, " ")

	for _, group := range strings.Split(query, ",") {
		tokens := tokenize(group)
		if len(tokens) == 0 {
			continue
		}
		if !anyContained(haystack, tokens) {
			return false
		}
	}
	return true
}

func tokenize(group string) []string {
	parts := strings.Split(group, "-")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if tok := textnorm.Normalize(p); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func anyContained(haystack string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			return true
		}
	}
	return false
}
