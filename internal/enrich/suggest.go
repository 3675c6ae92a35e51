package enrich

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// querySynonyms maps common search words to documentation vocabulary.
// synonymOrder fixes iteration order so suggestions are deterministic.
var (
	querySynonyms = map[string][]string{
		"login":  {"authentication", "sign in", "access"},
		"error":  {"issue", "problem", "troubleshooting"},
		"create": {"add", "new", "make"},
		"delete": {"remove", "destroy", "clear"},
		"update": {"modify", "change", "edit"},
	}
	synonymOrder = []string{"login", "error", "create", "delete", "update"}
)

const (
	maxSuggestions = 3

	// minTitleMatchScore filters weak fuzzy matches (normalised score)
	minTitleMatchScore = 0.3
)

// SuggestAlternativeQueries proposes up to three rewrites of a query that
// returned little or nothing: a singular/plural flip, synonym substitutions,
// and close matches against known document titles.
func SuggestAlternativeQueries(query string, knownTitles []string) []string {
	var suggestions []string

	// Singular/plural flip
	if strings.HasSuffix(query, "s") {
		suggestions = append(suggestions, strings.TrimSuffix(query, "s"))
	} else {
		suggestions = append(suggestions, query+"s")
	}

	queryLower := strings.ToLower(query)
	for _, word := range synonymOrder {
		if !strings.Contains(queryLower, word) {
			continue
		}
		for _, alt := range querySynonyms[word] {
			suggestions = append(suggestions, strings.ReplaceAll(queryLower, word, alt))
		}
	}

	// Titles that nearly match the query make good queries themselves
	if len(knownTitles) > 0 {
		for _, match := range fuzzy.Find(query, knownTitles) {
			if float64(match.Score)/100.0 < minTitleMatchScore {
				continue
			}
			suggestions = append(suggestions, match.Str)
		}
	}

	return dedupeSuggestions(query, suggestions, maxSuggestions)
}

// dedupeSuggestions drops duplicates and the original query, keeping order
func dedupeSuggestions(query string, suggestions []string, limit int) []string {
	seen := map[string]bool{strings.ToLower(query): true}
	result := make([]string, 0, limit)
	for _, s := range suggestions {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, s)
		if len(result) == limit {
			break
		}
	}
	return result
}
