// Package portalurl implements the portal link tools: bulk URL generation
// for content paths and a diagnostic that shows the URL rule in action.
package portalurl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/heretto-labs/heretto-mcp/internal/portal"
	"github.com/heretto-labs/heretto-mcp/internal/registry"
	"github.com/heretto-labs/heretto-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// GenerateTool builds portal URLs for a batch of content paths
type GenerateTool struct{}

func init() {
	registry.Register(&GenerateTool{})
}

// maxPaths bounds a single batch
const maxPaths = 100

// Definition returns the tool's definition for MCP registration
func (t *GenerateTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"generate_portal_urls",
		mcp.WithDescription("Generate portal URLs for given paths. Creates clickable links for documentation."),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description(fmt.Sprintf("List of paths to generate URLs for (1-%d entries)", maxPaths)),
			mcp.WithStringItems(),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

// Execute applies the portal URL rule to each path. Entries that are not
// strings are skipped; absolute URLs pass through untouched.
func (t *GenerateTool) Execute(_ context.Context, logger *logrus.Logger, _ *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	rawPaths, ok := args["paths"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid required parameter: paths")
	}
	if len(rawPaths) == 0 {
		return nil, fmt.Errorf("paths must contain at least one entry")
	}
	if len(rawPaths) > maxPaths {
		return nil, fmt.Errorf("paths must contain at most %d entries", maxPaths)
	}

	base := config.Get().PortalBaseURL
	if base == "" {
		return nil, fmt.Errorf("portal base URL is not configured (set HERETTO_PORTAL_BASE_URL)")
	}

	urls := make([]map[string]interface{}, 0, len(rawPaths))
	for _, raw := range rawPaths {
		path, ok := raw.(string)
		if !ok {
			continue
		}
		urls = append(urls, map[string]interface{}{
			"path":       path,
			"portal_url": resolveURL(base, path),
		})
	}

	logger.WithField("count", len(urls)).Debug("Generated portal URLs")

	return newToolResultJSON(map[string]interface{}{
		"base_url": base,
		"urls":     urls,
	})
}

// resolveURL applies the portal URL rule, passing absolute URLs through
func resolveURL(base, path string) string {
	if strings.HasPrefix(path, "http") {
		return path
	}
	if url := portal.BuildURL(base, path); url != "" {
		return url
	}
	return base
}

// newToolResultJSON marshals a payload as indented JSON for the MCP result
func newToolResultJSON(payload interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// ProvideExtendedInfo provides detailed usage information for the generate tool
func (t *GenerateTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		Examples: []tools.ToolExample{
			{
				Description: "Generate links for a handful of documents",
				Arguments: map[string]interface{}{
					"paths": []interface{}{"/guides/getting-started", "reference/api"},
				},
				ExpectedResult: "base_url plus one {path, portal_url} pair per entry, with rooted and relative paths handled",
			},
		},
		CommonPatterns: []string{
			"Collect paths from search or structure results, then generate links in one batch",
			"Paths already carrying http(s):// come back unchanged",
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{
				Problem:  "portal base URL is not configured (set HERETTO_PORTAL_BASE_URL)",
				Solution: "Export HERETTO_PORTAL_BASE_URL with your portal's public base URL, e.g. https://docs.example.com.",
			},
		},
		ParameterDetails: map[string]string{
			"paths": "Content paths from search or structure results. Non-string entries are skipped rather than failing the batch.",
		},
		WhenToUse:    "Use when you have content paths and need shareable portal links without fetching the documents.",
		WhenNotToUse: "Don't use for documents fetched this session; their results already carry portal_url fields.",
	}
}
