package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestAlternativeQueries(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		knownTitles []string
		want        []string
	}{
		{
			name:  "plural flip for singular query",
			query: "webhook",
			want:  []string{"webhooks"},
		},
		{
			name:  "singular flip for plural query",
			query: "webhooks",
			want:  []string{"webhook"},
		},
		{
			name:  "synonym substitution",
			query: "login error",
			want:  []string{"login errors", "authentication error", "sign in error"},
		},
		{
			name:        "close titles become suggestions",
			query:       "deployment",
			knownTitles: []string{"Deployment Guide", "Quarterly Report"},
			want:        []string{"deployments", "Deployment Guide"},
		},
		{
			name:        "unrelated titles are ignored",
			query:       "webhooks",
			knownTitles: []string{"Pricing Overview"},
			want:        []string{"webhook"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestAlternativeQueries(tt.query, tt.knownTitles))
		})
	}
}

func TestSuggestAlternativeQueriesCapsAtThree(t *testing.T) {
	// "error" alone expands to a flip plus three synonyms
	suggestions := SuggestAlternativeQueries("error", nil)

	assert.Len(t, suggestions, 3)
	assert.NotContains(t, suggestions, "error")
}

func TestDedupeSuggestions(t *testing.T) {
	suggestions := dedupeSuggestions("Query", []string{"query", "other", "Other", "", "third", "fourth"}, 3)

	assert.Equal(t, []string{"other", "third", "fourth"}, suggestions)
}
