// Package enrich layers assistant-friendly summaries over raw Deploy API
// search and content responses: relevance-scored snippets, quick answers,
// result categories, alternative queries and reading orders. Enrichment is
// additive only, upstream fields are never removed or rewritten.
package enrich

import (
	"sort"
	"strings"
)

const (
	// maxProcessedResults bounds per-result work on large result sets
	maxProcessedResults = 10

	// TopResultsLimit is how many enhanced results tools surface up front
	TopResultsLimit = 5
)

// SearchEnhancement summarises a result set for an assistant
type SearchEnhancement struct {
	Query            string                   `json:"query"`
	TotalResults     int                      `json:"total_results"`
	EnhancedResults  []map[string]interface{} `json:"enhanced_results"`
	QuickAnswer      string                   `json:"quick_answer,omitempty"`
	SuggestedQueries []string                 `json:"suggested_queries,omitempty"`
	Categories       map[string]int           `json:"categories"`
}

// EnhanceSearchResults scores, categorises and summarises search results.
// knownTitles feeds alternative-query suggestions when the search came back
// empty; pass nil when no structure snapshot is available.
func EnhanceSearchResults(results []interface{}, query string, knownTitles []string) SearchEnhancement {
	enhancement := SearchEnhancement{
		Query:           query,
		TotalResults:    len(results),
		EnhancedResults: []map[string]interface{}{},
		Categories:      map[string]int{},
	}

	for idx, raw := range results {
		if idx == maxProcessedResults {
			break
		}
		result, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		var snippet *Snippet
		if content, ok := result["content"].(string); ok {
			s := SmartSnippet(content, query, DefaultSnippetLength)
			snippet = &s

			// The top result is the best source for a one-line answer
			if idx == 0 && enhancement.QuickAnswer == "" {
				enhancement.QuickAnswer = QuickAnswer(content, query)
			}
		}

		enhanced := make(map[string]interface{}, len(result)+3)
		for key, value := range result {
			enhanced[key] = value
		}
		if snippet != nil {
			enhanced["relevance_score"] = snippet.RelevanceScore
			enhanced["smart_snippet"] = snippet.Snippet
			enhanced["highlighted_terms"] = snippet.MatchedTerms
		} else {
			enhanced["relevance_score"] = 0.5
			enhanced["smart_snippet"] = getString(result, "description")
			enhanced["highlighted_terms"] = []string{}
		}

		enhancement.EnhancedResults = append(enhancement.EnhancedResults, enhanced)
		enhancement.Categories[Categorise(getString(result, "path"))]++
	}

	if len(results) == 0 {
		enhancement.SuggestedQueries = SuggestAlternativeQueries(query, knownTitles)
	}

	sort.SliceStable(enhancement.EnhancedResults, func(i, j int) bool {
		return relevanceOf(enhancement.EnhancedResults[i]) > relevanceOf(enhancement.EnhancedResults[j])
	})

	return enhancement
}

// Categorise buckets a content path into a documentation area
func Categorise(path string) string {
	p := strings.ToLower(path)
	switch {
	case strings.Contains(p, "guide") || strings.Contains(p, "how-to"):
		return "guides"
	case strings.Contains(p, "api"):
		return "api"
	case strings.Contains(p, "troubleshoot") || strings.Contains(p, "error"):
		return "troubleshooting"
	case strings.Contains(p, "reference"):
		return "reference"
	default:
		return "concepts"
	}
}

func relevanceOf(enhanced map[string]interface{}) float64 {
	score, _ := enhanced["relevance_score"].(float64)
	return score
}

// getString returns a string field from a decoded JSON object, or ""
func getString(m map[string]interface{}, key string) string {
	value, _ := m[key].(string)
	return value
}
