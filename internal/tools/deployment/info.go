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

// InfoTool fetches deployment metadata
type InfoTool struct{}

func init() {
	registry.Register(&InfoTool{})
}

// Definition returns the tool's definition for MCP registration
func (t *InfoTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get metadata about a deployment including title, description, and configuration. Useful for understanding what documentation is available."),
	}
	opts = append(opts, scopeOptions()...)
	opts = append(opts, readOnlyAnnotations()...)
	return mcp.NewTool("get_deployment_info", opts...)
}

// Execute fetches and augments the deployment metadata
func (t *InfoTool) Execute(ctx context.Context, logger *logrus.Logger, _ *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	cfg := config.Get()
	org, dep, err := cfg.ResolveDeployment(args)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"organization": org,
		"deployment":   dep,
	}).Debug("Fetching deployment info")

	payload, err := newClient(logger).GetDeployment(ctx, org, dep)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deployment info: %w", err)
	}

	payload = portal.Augment(payload, cfg.PortalBaseURL)
	payload = portal.FormatProminentURLs(payload, cfg.PortalBaseURL)

	return newToolResultJSON(payload)
}
