package enrich

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhanceSearchResults(t *testing.T) {
	results := []interface{}{
		map[string]interface{}{
			"title":   "Webhook Guide",
			"path":    "/guides/webhooks",
			"content": "Webhooks deliver events to your endpoint. Configure the webhook secret in settings.",
		},
		map[string]interface{}{
			"title":       "Release Notes",
			"path":        "/reference/releases",
			"description": "Latest changes",
		},
	}

	enhancement := EnhanceSearchResults(results, "webhook secret", nil)

	assert.Equal(t, "webhook secret", enhancement.Query)
	assert.Equal(t, 2, enhancement.TotalResults)
	assert.Empty(t, enhancement.QuickAnswer)
	assert.Empty(t, enhancement.SuggestedQueries)
	assert.Equal(t, map[string]int{"guides": 1, "reference": 1}, enhancement.Categories)

	require.Len(t, enhancement.EnhancedResults, 2)

	// The content-bearing result outranks the description-only one
	first := enhancement.EnhancedResults[0]
	assert.Equal(t, "Webhook Guide", first["title"])
	assert.InDelta(t, 1.0, first["relevance_score"].(float64), 0.001)
	assert.Contains(t, first["smart_snippet"], "**webhook**")
	assert.Equal(t, []string{"webhook", "secret"}, first["highlighted_terms"])

	second := enhancement.EnhancedResults[1]
	assert.Equal(t, "Release Notes", second["title"])
	assert.InDelta(t, 0.5, second["relevance_score"].(float64), 0.001)
	assert.Equal(t, "Latest changes", second["smart_snippet"])
	assert.Equal(t, []string{}, second["highlighted_terms"])
}

func TestEnhanceSearchResultsQuickAnswerFromTopResult(t *testing.T) {
	results := []interface{}{
		map[string]interface{}{
			"title":   "Locales",
			"path":    "/reference/locales",
			"content": "A locale is a language and region pairing. Locales select translated strings.",
		},
	}

	enhancement := EnhanceSearchResults(results, "what is a locale", nil)

	assert.Equal(t, "a language and region pairing", enhancement.QuickAnswer)
}

func TestEnhanceSearchResultsEmptySuggestsQueries(t *testing.T) {
	enhancement := EnhanceSearchResults(nil, "webhooks", []string{"Webhook Guide"})

	assert.Zero(t, enhancement.TotalResults)
	assert.NotNil(t, enhancement.EnhancedResults)
	assert.Empty(t, enhancement.EnhancedResults)
	assert.Equal(t, []string{"webhook"}, enhancement.SuggestedQueries)
	assert.Empty(t, enhancement.Categories)
}

func TestEnhanceSearchResultsCapsProcessedResults(t *testing.T) {
	var results []interface{}
	for i := 0; i < 15; i++ {
		results = append(results, map[string]interface{}{
			"title": fmt.Sprintf("Result %d", i),
			"path":  fmt.Sprintf("/guides/topic-%d", i),
		})
	}

	enhancement := EnhanceSearchResults(results, "topic", nil)

	assert.Equal(t, 15, enhancement.TotalResults)
	assert.Len(t, enhancement.EnhancedResults, maxProcessedResults)
	assert.Equal(t, map[string]int{"guides": maxProcessedResults}, enhancement.Categories)
}

func TestEnhanceSearchResultsSkipsNonObjects(t *testing.T) {
	results := []interface{}{
		"a bare string",
		map[string]interface{}{"title": "Valid", "path": "/api/auth"},
	}

	enhancement := EnhanceSearchResults(results, "auth", nil)

	require.Len(t, enhancement.EnhancedResults, 1)
	assert.Equal(t, "Valid", enhancement.EnhancedResults[0]["title"])
}

func TestEnhanceSearchResultsPreservesUpstreamFields(t *testing.T) {
	results := []interface{}{
		map[string]interface{}{
			"title":      "Setup",
			"path":       "/guides/setup",
			"portal_url": "https://portal.example.com/guides/setup",
			"score":      float64(12),
		},
	}

	enhancement := EnhanceSearchResults(results, "setup", nil)

	require.Len(t, enhancement.EnhancedResults, 1)
	enhanced := enhancement.EnhancedResults[0]
	assert.Equal(t, "https://portal.example.com/guides/setup", enhanced["portal_url"])
	assert.Equal(t, float64(12), enhanced["score"])
}

func TestCategorise(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/guides/setup", want: "guides"},
		{path: "/how-to/deploy", want: "guides"},
		{path: "/api/auth", want: "api"},
		{path: "/troubleshooting/login", want: "troubleshooting"},
		{path: "/errors/404", want: "troubleshooting"},
		{path: "/reference/fields", want: "reference"},
		{path: "/about", want: "concepts"},
		{path: "", want: "concepts"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorise(tt.path))
		})
	}
}

func TestGetString(t *testing.T) {
	m := map[string]interface{}{"title": "Setup", "score": float64(3)}

	assert.Equal(t, "Setup", getString(m, "title"))
	assert.Equal(t, "", getString(m, "score"))
	assert.Equal(t, "", getString(m, "missing"))
}
