package enrich

import (
	"regexp"
	"strings"
)

// Question forms that can often be answered from a single sentence
var (
	whatIsQuestion   = regexp.MustCompile(`what\s+is\s+(\w+)`)
	howToQuestion    = regexp.MustCompile(`how\s+to\s+(.+)`)
	whatsTheQuestion = regexp.MustCompile(`what'?s?\s+the\s+(\w+)`)
	limitQuestion    = regexp.MustCompile(`(limit|maximum|minimum|rate|cost|price)`)

	definitionAnswer = regexp.MustCompile(`(?i)(\w+)\s+is\s+([^.]+)\.`)
	limitAnswer      = regexp.MustCompile(`(?i)(limit|maximum|minimum|rate|cost|price)[^:]*:\s*([^.` + "\n" + `]+)`)
	meaningfulWord   = regexp.MustCompile(`\b\w{3,}\b`)
)

// QuickAnswer tries to pull a one-line answer for simple questions out of
// fetched content. Returns "" when no confident answer is found.
func QuickAnswer(content, query string) string {
	if content == "" {
		return ""
	}
	queryLower := strings.ToLower(query)

	// What is X?
	if whatIsQuestion.MatchString(queryLower) {
		if m := definitionAnswer.FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[2])
		}
	}

	// How to X? Look for "To X ..., <answer>."
	if m := howToQuestion.FindStringSubmatch(queryLower); m != nil {
		topic := strings.TrimSpace(m[1])
		pattern := regexp.MustCompile(`(?i)to\s+` + regexp.QuoteMeta(topic) + `[^,]*,\s*([^.]+)\.`)
		if am := pattern.FindStringSubmatch(content); am != nil {
			return strings.TrimSpace(am[1])
		}
	}

	// What's the X? Look for "the X is <answer>."
	if m := whatsTheQuestion.FindStringSubmatch(queryLower); m != nil {
		term := m[1]
		pattern := regexp.MustCompile(`(?i)the\s+` + regexp.QuoteMeta(term) + `\s+is\s+([^.]+)\.`)
		if am := pattern.FindStringSubmatch(content); am != nil {
			return strings.TrimSpace(am[1])
		}
	}

	// Numbers and limits usually appear as "limit: <value>"
	if limitQuestion.MatchString(queryLower) {
		if m := limitAnswer.FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[2])
		}
	}

	// Fall back to "Term: definition" lookups for definition-style questions
	if strings.Contains(queryLower, "what") || strings.Contains(queryLower, "define") {
		if term := firstMeaningfulWord(queryLower); term != "" {
			pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term) + `[^:]*:\s*([^.` + "\n" + `]+)`)
			if m := pattern.FindStringSubmatch(content); m != nil {
				return strings.TrimSpace(m[1])
			}
		}
	}

	return ""
}

// firstMeaningfulWord picks the first query word worth looking up
func firstMeaningfulWord(queryLower string) string {
	for _, word := range meaningfulWord.FindAllString(queryLower, -1) {
		switch word {
		case "what", "the", "define", "whats":
			continue
		}
		return word
	}
	return ""
}
