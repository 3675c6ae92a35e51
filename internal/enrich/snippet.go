package enrich

import (
	"regexp"
	"sort"
	"strings"
)

// Snippet is the most relevant extract of a document for a given query
type Snippet struct {
	Snippet        string   `json:"snippet"`
	RelevanceScore float64  `json:"relevance_score"`
	Highlighted    bool     `json:"highlighted"`
	MatchedTerms   []string `json:"matched_terms,omitempty"`
}

// sentenceEnd marks sentence boundaries: terminal punctuation followed by whitespace
var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// DefaultSnippetLength caps snippets at a size assistants will quote whole
const DefaultSnippetLength = 300

// SmartSnippet extracts the best-matching sentence of content for query,
// with one sentence of context either side and the query terms highlighted.
func SmartSnippet(content, query string, maxLength int) Snippet {
	if content == "" {
		return Snippet{}
	}
	if maxLength <= 0 {
		maxLength = DefaultSnippetLength
	}

	queryLower := strings.ToLower(query)
	queryTerms := strings.Fields(queryLower)
	if len(queryTerms) == 0 {
		return fallbackSnippet(content, maxLength)
	}

	sentences := splitSentences(content)

	type scored struct {
		index    int
		score    float64
		sentence string
	}
	scores := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		sentenceLower := strings.ToLower(sentence)

		var score float64
		for _, term := range queryTerms {
			if strings.Contains(sentenceLower, term) {
				score++
			}
		}

		// Exact phrase match outweighs scattered terms
		if strings.Contains(sentenceLower, queryLower) {
			score += float64(len(queryTerms))
		}

		// Multiple terms close together score higher still
		if score > 1 {
			score *= 1.5
		}

		scores = append(scores, scored{index: i, score: score, sentence: sentence})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if len(scores) == 0 || scores[0].score == 0 {
		return fallbackSnippet(content, maxLength)
	}

	best := scores[0]

	// Include surrounding sentences for context
	start := best.index - 1
	if start < 0 {
		start = 0
	}
	end := best.index + 2
	if end > len(sentences) {
		end = len(sentences)
	}
	snippet := strings.Join(sentences[start:end], " ")

	// Highlight matching terms
	for _, term := range queryTerms {
		pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
		snippet = pattern.ReplaceAllLiteralString(snippet, "**"+term+"**")
	}

	if len([]rune(snippet)) > maxLength {
		snippet = trimToWordBoundary(snippet, maxLength) + "..."
	}

	var matched []string
	bestLower := strings.ToLower(best.sentence)
	for _, term := range queryTerms {
		if strings.Contains(bestLower, term) {
			matched = append(matched, term)
		}
	}

	relevance := best.score / float64(len(queryTerms))
	if relevance > 1.0 {
		relevance = 1.0
	}

	return Snippet{
		Snippet:        snippet,
		RelevanceScore: relevance,
		Highlighted:    true,
		MatchedTerms:   matched,
	}
}

// fallbackSnippet returns the opening of the document when nothing matches
func fallbackSnippet(content string, maxLength int) Snippet {
	runes := []rune(content)
	if len(runes) > maxLength {
		return Snippet{Snippet: string(runes[:maxLength]) + "..."}
	}
	return Snippet{Snippet: content}
}

// splitSentences breaks content at terminal punctuation. The punctuation
// stays with its sentence.
func splitSentences(content string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(content, -1) {
		// loc[0] is the punctuation, loc[1] is past the trailing whitespace
		sentences = append(sentences, content[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(content) {
		sentences = append(sentences, content[start:])
	}
	return sentences
}

// trimToWordBoundary cuts s to at most maxLength runes, then backs off to
// the last complete word
func trimToWordBoundary(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	cut := string(runes[:maxLength])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		return cut[:idx]
	}
	return cut
}
