package deployment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	content := strings.Repeat("0123456789", 5)

	tests := []struct {
		name        string
		startIndex  int
		maxLength   int
		wantContent string
		wantEnd     int
		wantMore    bool
		wantNext    *int
	}{
		{
			name:        "whole content fits",
			startIndex:  0,
			maxLength:   100,
			wantContent: content,
			wantEnd:     50,
			wantMore:    false,
		},
		{
			name:        "first window",
			startIndex:  0,
			maxLength:   20,
			wantContent: content[:20],
			wantEnd:     20,
			wantMore:    true,
			wantNext:    intPtr(20),
		},
		{
			name:        "middle window",
			startIndex:  20,
			maxLength:   20,
			wantContent: content[20:40],
			wantEnd:     40,
			wantMore:    true,
			wantNext:    intPtr(40),
		},
		{
			name:        "final partial window",
			startIndex:  40,
			maxLength:   20,
			wantContent: content[40:],
			wantEnd:     50,
			wantMore:    false,
		},
		{
			name:        "exactly at the end",
			startIndex:  50,
			maxLength:   20,
			wantContent: "",
			wantEnd:     50,
			wantMore:    false,
		},
		{
			name:        "past the end",
			startIndex:  200,
			maxLength:   20,
			wantContent: "",
			wantEnd:     200,
			wantMore:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := paginate(content, tt.startIndex, tt.maxLength)

			assert.Equal(t, tt.wantContent, page.Content)
			assert.Equal(t, len(content), page.TotalLength)
			assert.Equal(t, tt.startIndex, page.StartIndex)
			assert.Equal(t, tt.wantEnd, page.EndIndex)
			assert.Equal(t, tt.wantMore, page.HasMoreContent)
			if tt.wantNext == nil {
				assert.Nil(t, page.NextStartIndex)
			} else {
				require.NotNil(t, page.NextStartIndex)
				assert.Equal(t, *tt.wantNext, *page.NextStartIndex)
			}
		})
	}
}

func intPtr(n int) *int {
	return &n
}

func TestIsHTMLContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"paragraph fragment", "<p>Some text</p>", true},
		{"heading fragment", "<h2>Dosage</h2>", true},
		{"full document", "<!DOCTYPE html><html><body>x</body></html>", true},
		{"uppercase tags", "<DIV>shouting</DIV>", true},
		{"plain text", "Just words, no markup.", false},
		{"angle brackets without tags", "a < b and b > c", false},
		{"markdown", "# Heading\n- item", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHTMLContent(tt.content))
		})
	}
}

func TestTidyMarkdown(t *testing.T) {
	in := "# Title\n\n\n\n\nBody text with an [empty link]() inside.\n\n"
	out := tidyMarkdown(in)

	assert.Equal(t, "# Title\n\nBody text with an empty link inside.", out)
}

func TestToMarkdownConvertsFragment(t *testing.T) {
	r := NewRenderer()

	markdown, err := r.ToMarkdown("<h1>Espresso</h1><p>Grind the beans finely.</p><ul><li>Preheat</li><li>Tamp</li></ul>")
	require.NoError(t, err)

	assert.Contains(t, markdown, "# Espresso")
	assert.Contains(t, markdown, "Grind the beans finely.")
	assert.Contains(t, markdown, "Preheat")
	assert.Contains(t, markdown, "Tamp")
}

func TestToMarkdownStripsChrome(t *testing.T) {
	r := NewRenderer()

	page := `<html><body>
		<nav>Site navigation</nav>
		<main><h2>Brewing</h2><p>Use fresh beans.</p></main>
		<script>track()</script>
		<footer>Copyright</footer>
	</body></html>`

	markdown, err := r.ToMarkdown(page)
	require.NoError(t, err)

	assert.Contains(t, markdown, "## Brewing")
	assert.Contains(t, markdown, "Use fresh beans.")
	assert.NotContains(t, markdown, "Site navigation")
	assert.NotContains(t, markdown, "track()")
	assert.NotContains(t, markdown, "Copyright")
}

func TestToMarkdownPrefersMainContent(t *testing.T) {
	r := NewRenderer()

	page := `<html><body>
		<div>Outside the article</div>
		<article><p>Inside the article.</p></article>
	</body></html>`

	markdown, err := r.ToMarkdown(page)
	require.NoError(t, err)

	assert.Contains(t, markdown, "Inside the article.")
	assert.NotContains(t, markdown, "Outside the article")
}

func TestToMarkdownEmptyContent(t *testing.T) {
	r := NewRenderer()
	_, err := r.ToMarkdown("")
	require.Error(t, err)
}
