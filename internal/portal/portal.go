// Package portal derives portal URLs for path-bearing fields in Deploy API
// responses. The walker is deterministic: the same payload and base URL
// always produce the same augmented output, and upstream fields are never
// removed or rewritten.
package portal

import (
	"fmt"
	"strings"
)

// pathFields lists the keys that may carry a content path, in priority
// order. The first key present with a string value claims the node.
var pathFields = []string{"path", "href", "url", "link", "uri", "pathname"}

// skipKeys guard content blobs and already-derived values from recursion
var skipKeys = map[string]bool{
	"portal_url": true,
	"content":    true,
	"body":       true,
	"html":       true,
}

// BuildURL joins a portal base URL and a content path. Returns "" when no
// base is configured, the path is empty, or the path is already absolute
// (anything with an http prefix is treated as absolute and left alone).
func BuildURL(base, path string) string {
	if base == "" || path == "" {
		return ""
	}
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	if strings.HasPrefix(path, "http") {
		return ""
	}
	return base + "/" + path
}

// Augment walks a decoded JSON payload and attaches a portal_url field to
// every object carrying a path-bearing field. The payload is modified in
// place and returned for chaining. With no base configured the payload
// passes through untouched.
func Augment(payload interface{}, base string) interface{} {
	if base == "" {
		return payload
	}
	walk(payload, base)
	return payload
}

// walk recurses through objects and arrays. Values under skipKeys are not
// descended into: content blobs are prose, not structure.
func walk(node interface{}, base string) {
	switch value := node.(type) {
	case map[string]interface{}:
		augmentNode(value, base)
		for key, child := range value {
			if skipKeys[key] {
				continue
			}
			switch child.(type) {
			case map[string]interface{}, []interface{}:
				walk(child, base)
			}
		}
	case []interface{}:
		for _, item := range value {
			walk(item, base)
		}
	}
}

// augmentNode applies the URL rule to a single object. An upstream-provided
// portal_url is never overwritten.
func augmentNode(node map[string]interface{}, base string) {
	for _, field := range pathFields {
		value, present := node[field]
		if !present {
			continue
		}
		path, isString := value.(string)
		if !isString {
			continue
		}

		if url := BuildURL(base, path); url != "" {
			if _, exists := node["portal_url"]; !exists {
				node["portal_url"] = url
			}
		}
		// First string-valued field claims the node, even when it yields no URL
		return
	}
}

// FormatProminentURLs lifts derived links to the top of a response so
// assistants surface them: a quick_links section for search-style results
// and a direct_link for single documents.
func FormatProminentURLs(payload interface{}, base string) interface{} {
	if base == "" {
		return payload
	}
	data, ok := payload.(map[string]interface{})
	if !ok {
		return payload
	}

	if results, ok := data["results"].([]interface{}); ok {
		quickLinks := make([]interface{}, 0, len(results))
		for idx, item := range results {
			result, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			portalURL, ok := result["portal_url"].(string)
			if !ok {
				continue
			}

			title, _ := result["title"].(string)
			if title == "" {
				title = fmt.Sprintf("Result %d", idx+1)
			}

			description := ""
			if desc, ok := result["description"].(string); ok && desc != "" {
				description = truncateRunes(desc, 100) + "..."
			}

			quickLinks = append(quickLinks, map[string]interface{}{
				"title":       title,
				"url":         portalURL,
				"description": description,
			})
		}
		data["quick_links"] = quickLinks
	}

	if portalURL, ok := data["portal_url"].(string); ok {
		if _, hasContent := data["content"]; hasContent {
			title, _ := data["title"].(string)
			if title == "" {
				title = "Document"
			}
			data["direct_link"] = map[string]interface{}{
				"title":   title,
				"url":     portalURL,
				"message": fmt.Sprintf("📄 View this document online: %s", portalURL),
			}
		}
	}

	return payload
}

// ParentPath returns the parent of a content path, or "/" at the root
func ParentPath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}

	parts := strings.Split(strings.TrimRight(path, "/"), "/")
	if len(parts) > 1 {
		parent := strings.Join(parts[:len(parts)-1], "/")
		if parent == "" {
			return "/"
		}
		return parent
	}
	return "/"
}

// truncateRunes shortens a string to at most n runes without splitting a
// multi-byte character
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
