package deployment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

// Renderer converts Heretto HTML content fields to markdown
type Renderer struct {
	converter *converter.Converter
}

// NewRenderer creates a renderer for Deploy API content
func NewRenderer() *Renderer {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	return &Renderer{converter: conv}
}

// contentSelectors locate the article body when the upstream sends a full
// page rather than a fragment
var contentSelectors = []string{
	"main",
	"article",
	"#content",
	".content",
	"div[role='main']",
}

// elementsToRemove are chrome that never belongs in rendered content
var elementsToRemove = []string{
	"script",
	"style",
	"noscript",
	"nav",
	"aside",
	"header",
	"footer",
}

// ToMarkdown converts an HTML content field to clean markdown
func (r *Renderer) ToMarkdown(htmlContent string) (string, error) {
	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	content := mainContent(doc)
	for _, selector := range elementsToRemove {
		content.Find(selector).Remove()
	}

	cleanedHTML, err := content.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialise cleaned HTML: %w", err)
	}

	markdown, err := r.converter.ConvertString(cleanedHTML)
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}

	return tidyMarkdown(markdown), nil
}

// mainContent picks the article body, falling back to the whole document.
// Fragments from the Deploy API usually have no matching container and land
// in the body fallback.
func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		if content := doc.Find(selector).First(); content.Length() > 0 {
			return content
		}
	}
	if body := doc.Find("body"); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

var (
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
	emptyLinks       = regexp.MustCompile(`\[([^\]]*)\]\(\s*\)`)
)

// tidyMarkdown cleans up conversion artefacts
func tidyMarkdown(markdown string) string {
	markdown = excessBlankLines.ReplaceAllString(markdown, "\n\n")
	markdown = emptyLinks.ReplaceAllString(markdown, "$1")
	return strings.TrimSpace(markdown)
}

// htmlTagPattern spots markup in a content field. Deploy API content is
// usually an HTML fragment rather than a full document.
var htmlTagPattern = regexp.MustCompile(`(?i)<(!doctype|html|body|div|p|section|article|h[1-6]|ul|ol|table|span)\b`)

// IsHTMLContent reports whether a content field carries HTML markup
func IsHTMLContent(content string) bool {
	return htmlTagPattern.MatchString(content)
}

// Page is one pagination window over a content string
type Page struct {
	Content        string
	TotalLength    int
	StartIndex     int
	EndIndex       int
	HasMoreContent bool
	NextStartIndex *int
}

// paginate slices content at byte offsets for incremental reading
func paginate(content string, startIndex, maxLength int) Page {
	totalLength := len(content)

	if startIndex >= totalLength {
		return Page{
			Content:        "",
			TotalLength:    totalLength,
			StartIndex:     startIndex,
			EndIndex:       startIndex,
			HasMoreContent: false,
		}
	}

	endIndex := min(startIndex+maxLength, totalLength)

	page := Page{
		Content:        content[startIndex:endIndex],
		TotalLength:    totalLength,
		StartIndex:     startIndex,
		EndIndex:       endIndex,
		HasMoreContent: endIndex < totalLength,
	}
	if page.HasMoreContent {
		next := endIndex
		page.NextStartIndex = &next
	}
	return page
}
