package enrich

import (
	"regexp"
	"strings"
)

// bulletPatterns recognise the list styles that show up in converted content
var bulletPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[•·▪▫◦‣⁃]\s*(.+)$`),
	regexp.MustCompile(`^[-*]\s+(.+)$`),
	regexp.MustCompile(`^\d+\.\s+(.+)$`),
}

// maxKeyFacts caps the facts list at a skimmable size
const maxKeyFacts = 5

// KeyFacts pulls bullet-point facts out of content
func KeyFacts(content string) []string {
	facts := []string{}
	if content == "" {
		return facts
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		for _, pattern := range bulletPatterns {
			if m := pattern.FindStringSubmatch(line); m != nil {
				facts = append(facts, strings.TrimSpace(m[1]))
				break
			}
		}
		if len(facts) == maxKeyFacts {
			break
		}
	}
	return facts
}

// Section is a heading in rendered content
type Section struct {
	Title string `json:"title"`
	Level int    `json:"level"`
}

// headingPattern matches markdown h1 through h3
var headingPattern = regexp.MustCompile(`^(#{1,3})\s+(.+)$`)

// Sections extracts a table of contents from markdown headings
func Sections(content string) []Section {
	sections := []Section{}
	if content == "" {
		return sections
	}

	for _, line := range strings.Split(content, "\n") {
		if m := headingPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			sections = append(sections, Section{Title: m[2], Level: len(m[1])})
		}
	}
	return sections
}
