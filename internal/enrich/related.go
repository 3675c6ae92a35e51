package enrich

import "strings"

// RelatedItem points at a document related to the current one
type RelatedItem struct {
	Title     string `json:"title"`
	Path      string `json:"path"`
	PortalURL string `json:"portal_url"`
}

// Related groups documents by their relationship to the current path
type Related struct {
	SameSection  []RelatedItem `json:"same_section"`
	ParentTopics []RelatedItem `json:"parent_topics"`
	ChildTopics  []RelatedItem `json:"child_topics"`
	SeeAlso      []RelatedItem `json:"see_also"`
}

// relatedLimit caps each relationship bucket
const relatedLimit = 3

// RelatedContent classifies search results against the current document's
// path: siblings share the first path segment, parents are segment prefixes
// of the current document, children extend it. Results with none of those
// relationships land in see_also.
func RelatedContent(currentPath string, allResults []interface{}) Related {
	related := Related{
		SameSection:  []RelatedItem{},
		ParentTopics: []RelatedItem{},
		ChildTopics:  []RelatedItem{},
		SeeAlso:      []RelatedItem{},
	}
	if currentPath == "" {
		return related
	}

	currentSection := firstPathPart(currentPath)

	for _, raw := range allResults {
		result, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		resultPath := getString(result, "path")
		if resultPath == "" || resultPath == currentPath {
			continue
		}

		item := RelatedItem{
			Title:     getString(result, "title"),
			Path:      resultPath,
			PortalURL: getString(result, "portal_url"),
		}

		switch {
		case firstPathPart(resultPath) == currentSection:
			related.SameSection = append(related.SameSection, item)
		case isPathPrefix(resultPath, currentPath):
			related.ParentTopics = append(related.ParentTopics, item)
		case isPathPrefix(currentPath, resultPath):
			related.ChildTopics = append(related.ChildTopics, item)
		default:
			related.SeeAlso = append(related.SeeAlso, item)
		}
	}

	related.SameSection = capItems(related.SameSection)
	related.ParentTopics = capItems(related.ParentTopics)
	related.ChildTopics = capItems(related.ChildTopics)
	related.SeeAlso = capItems(related.SeeAlso)
	return related
}

func capItems(items []RelatedItem) []RelatedItem {
	if len(items) > relatedLimit {
		return items[:relatedLimit]
	}
	return items
}

// isPathPrefix reports whether prefix is an ancestor of path in whole
// segments, so "guides" is not treated as an ancestor of "guidesX/foo"
func isPathPrefix(prefix, path string) bool {
	p := strings.Trim(prefix, "/")
	q := strings.Trim(path, "/")
	if p == "" {
		return q != ""
	}
	return strings.HasPrefix(q, p+"/")
}

// firstPathPart returns the leading segment of a path
func firstPathPart(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ""
	}
	return strings.SplitN(trimmed, "/", 2)[0]
}
