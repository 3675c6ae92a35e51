package portalurl

import (
	"context"
	"strings"
	"sync"

	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/heretto-labs/heretto-mcp/internal/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// CheckTool is a diagnostic that shows the portal URL rule applied to
// example paths. Off by default; enable via ENABLE_ADDITIONAL_TOOLS.
type CheckTool struct{}

func init() {
	registry.Register(&CheckTool{})
}

// The rooted example exercises the no-extra-slash join rule
const (
	defaultExamplePath = "agent-portal-help/claims-handling"
	rootedExamplePath  = "/coffee-guide/espresso"
)

// Definition returns the tool's definition for MCP registration
func (t *CheckTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"test_portal_url",
		mcp.WithDescription("Test portal URL configuration and show example generated URLs."),
		mcp.WithString("path",
			mcp.Description("Path to run through the URL rule (Optional, default: "+defaultExamplePath+")"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

// Execute reports the configured base and the URLs the rule would produce
func (t *CheckTool) Execute(_ context.Context, logger *logrus.Logger, _ *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	base := config.Get().PortalBaseURL

	examplePaths := []string{defaultExamplePath, rootedExamplePath}
	if path := strings.TrimSpace(getStringArg(args, "path")); path != "" {
		examplePaths = []string{path, rootedExamplePath}
	}

	configuredBase := base
	if configuredBase == "" {
		configuredBase = "NOT SET"
	}

	result := map[string]interface{}{
		"portal_base_url": configuredBase,
		"example_paths":   examplePaths,
		"generated_urls":  []map[string]interface{}{},
	}

	if base != "" {
		generated := make([]map[string]interface{}, 0, len(examplePaths))
		for _, path := range examplePaths {
			generated = append(generated, map[string]interface{}{
				"path":       path,
				"portal_url": resolveURL(base, path),
			})
		}
		result["generated_urls"] = generated
	}

	logger.WithField("portal_base_url", configuredBase).Debug("Portal URL check")

	return newToolResultJSON(result)
}

// getStringArg returns a string argument, or "" when absent or not a string
func getStringArg(args map[string]interface{}, key string) string {
	value, _ := args[key].(string)
	return value
}
