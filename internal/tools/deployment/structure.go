package deployment

import (
	"context"
	"fmt"
	"sync"

	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/heretto-labs/heretto-mcp/internal/portal"
	"github.com/heretto-labs/heretto-mcp/internal/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// StructureTool fetches the navigation structure of a deployment
type StructureTool struct{}

func init() {
	registry.Register(&StructureTool{})
}

// Definition returns the tool's definition for MCP registration
func (t *StructureTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get the navigation structure of a deployment. Useful for understanding the documentation organization and finding related topics. Shows hierarchical structure of all content."),
	}
	opts = append(opts, scopeOptions()...)
	opts = append(opts, readOnlyAnnotations()...)
	return mcp.NewTool("get_deployment_structure", opts...)
}

// Execute fetches the structure tree and harvests document titles for
// later search suggestions
func (t *StructureTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	cfg := config.Get()
	org, dep, err := cfg.ResolveDeployment(args)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"organization": org,
		"deployment":   dep,
	}).Debug("Fetching deployment structure")

	payload, err := newClient(logger).GetStructure(ctx, org, dep)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deployment structure: %w", err)
	}

	cacheStructureTitles(cache, payload)

	payload = portal.Augment(payload, cfg.PortalBaseURL)
	payload = portal.FormatProminentURLs(payload, cfg.PortalBaseURL)

	return newToolResultJSON(payload)
}
