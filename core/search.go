package core

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// filterOutUnlikelyMatches takes in a sorted list of fuzzy matches and returns
// the matches with a positive score if there's any, otherwise all of them.
func filterOutUnlikelyMatches(matches []fuzzy.Match) []fuzzy.Match {
	if len(matches) == 0 || matches[0].Score <= 0 {
		return matches
	}
	positive := make([]fuzzy.Match, 0, len(matches))
	for _, match := range matches {
		if match.Score > 0 {
			positive = append(positive, match)
		}
	}
	return positive
}

// FilterTerms fuzzy matches terms against query, best match first.
// Ties keep their history order. An empty query returns every term.
func FilterTerms(terms []string, query string) []string {
	if query == "" {
		return append([]string{}, terms...)
	}
	matches := fuzzy.Find(query, terms)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Index < matches[j].Index
		}
		return matches[i].Score > matches[j].Score
	})
	matches = filterOutUnlikelyMatches(matches)
	results := make([]string, 0, len(matches))
	for _, match := range matches {
		results = append(results, terms[match.Index])
	}
	return results
}
