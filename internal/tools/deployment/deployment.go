// Package deployment implements the Heretto Deploy API tools: search,
// content, structure, deployment metadata, localized HTML strings and
// OpenAPI specifications. Every tool resolves organization_id and
// deployment_id against process-wide defaults, queries the upstream API
// and augments the JSON response with portal URLs.
package deployment

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/heretto-labs/heretto-mcp/internal/heretto"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// CacheEntry pairs cached data with its retrieval time
type CacheEntry struct {
	Data      interface{}
	Timestamp time.Time
}

const (
	// structureTitlesCacheKey holds document titles harvested from the last
	// structure fetch; search uses them for did-you-mean suggestions
	structureTitlesCacheKey = "heretto:structure-titles"
	structureTitlesCacheTTL = 15 * time.Minute
)

// newClient builds an upstream client from the live configuration so that
// config reloads take effect without a server restart
func newClient(logger *logrus.Logger) *heretto.Client {
	return heretto.NewClient(config.Get(), logger)
}

// scopeOptions builds the organization_id / deployment_id parameters shared
// by every deployment-scoped tool. A parameter with a process-wide default
// is optional and its description names the default; without one it is
// required.
func scopeOptions() []mcp.ToolOption {
	cfg := config.Get()
	return []mcp.ToolOption{
		scopeOption("organization_id", "The organization ID", cfg.OrgID),
		scopeOption("deployment_id", "The deployment ID", cfg.DeploymentID),
	}
}

func scopeOption(name, description, defaultValue string) mcp.ToolOption {
	if defaultValue != "" {
		return mcp.WithString(name,
			mcp.Description(fmt.Sprintf("%s (default: %s)", description, defaultValue)),
		)
	}
	return mcp.WithString(name,
		mcp.Required(),
		mcp.Description(description),
	)
}

// readOnlyAnnotations marks a tool as a read-only upstream query
func readOnlyAnnotations() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

// newToolResultJSON marshals a payload as indented JSON for the MCP result
func newToolResultJSON(payload interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// getStringArg returns a string argument, or "" when absent or not a string
func getStringArg(args map[string]interface{}, key string) string {
	value, _ := args[key].(string)
	return value
}

// cacheStructureTitles stores the titles found in a structure payload
func cacheStructureTitles(cache *sync.Map, structure interface{}) {
	titles := collectTitles(structure, nil)
	if len(titles) == 0 {
		return
	}
	sort.Strings(titles)
	titles = dedupeStrings(titles)
	cache.Store(structureTitlesCacheKey, CacheEntry{Data: titles, Timestamp: time.Now()})
}

// cachedStructureTitles returns the last harvested titles, or nil when the
// cache is cold or stale
func cachedStructureTitles(cache *sync.Map) []string {
	cached, ok := cache.Load(structureTitlesCacheKey)
	if !ok {
		return nil
	}
	entry, ok := cached.(CacheEntry)
	if !ok || time.Since(entry.Timestamp) >= structureTitlesCacheTTL {
		return nil
	}
	titles, _ := entry.Data.([]string)
	return titles
}

// collectTitles walks a structure tree gathering every title field
func collectTitles(node interface{}, titles []string) []string {
	switch n := node.(type) {
	case map[string]interface{}:
		if title, ok := n["title"].(string); ok && title != "" {
			titles = append(titles, title)
		}
		for _, value := range n {
			titles = collectTitles(value, titles)
		}
	case []interface{}:
		for _, item := range n {
			titles = collectTitles(item, titles)
		}
	}
	return titles
}

// dedupeStrings removes adjacent duplicates from a sorted slice
func dedupeStrings(sorted []string) []string {
	result := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			result = append(result, s)
		}
	}
	return result
}
