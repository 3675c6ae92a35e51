package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuickAnswer(t *testing.T) {
	tests := []struct {
		name    string
		content string
		query   string
		want    string
	}{
		{
			name:    "what is pulls a definition",
			content: "Heretto is a component content management system. It stores DITA topics.",
			query:   "what is heretto",
			want:    "a component content management system",
		},
		{
			name:    "how to pulls the instruction clause",
			content: "To create a webhook in the portal, open the settings page and click New. Webhooks fire on publish.",
			query:   "how to create a webhook",
			want:    "open the settings page and click New",
		},
		{
			name:    "whats the pulls an is-statement",
			content: "Several tiers exist. The timeout is thirty seconds for all plans.",
			query:   "what's the timeout",
			want:    "thirty seconds for all plans",
		},
		{
			name:    "limit questions find labelled values",
			content: "Rate limit: 100 requests per minute. Contact support to raise it.",
			query:   "search rate limit",
			want:    "100 requests per minute",
		},
		{
			name:    "define falls back to term colon definition",
			content: "Webhook: an HTTP callback triggered by publish events.\nMore detail follows.",
			query:   "define webhook",
			want:    "an HTTP callback triggered by publish events",
		},
		{
			name:    "no confident answer",
			content: "This page describes assorted topics without definitions.",
			query:   "how do webhooks work",
			want:    "",
		},
		{
			name:    "empty content",
			content: "",
			query:   "what is heretto",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuickAnswer(tt.content, tt.query))
		})
	}
}

func TestFirstMeaningfulWord(t *testing.T) {
	assert.Equal(t, "webhook", firstMeaningfulWord("what is the webhook"))
	assert.Equal(t, "locale", firstMeaningfulWord("define locale"))
	assert.Equal(t, "", firstMeaningfulWord("what the"))
}
