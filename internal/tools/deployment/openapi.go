package deployment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/heretto-labs/heretto-mcp/internal/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// OpenAPISpecTool fetches an OpenAPI specification from a deployment
type OpenAPISpecTool struct{}

func init() {
	registry.Register(&OpenAPISpecTool{})
}

// Definition returns the tool's definition for MCP registration
func (t *OpenAPISpecTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get an OpenAPI specification from a deployment. Use when looking for API documentation."),
		mcp.WithString("specification_id",
			mcp.Required(),
			mcp.Description("The specification ID"),
		),
	}
	opts = append(opts, scopeOptions()...)
	opts = append(opts, readOnlyAnnotations()...)
	return mcp.NewTool("get_open_api_spec", opts...)
}

// Execute returns the specification exactly as the upstream serves it.
// Specs may be YAML or JSON, so the body is never decoded or reshaped.
func (t *OpenAPISpecTool) Execute(ctx context.Context, logger *logrus.Logger, _ *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	specID := strings.TrimSpace(getStringArg(args, "specification_id"))
	if specID == "" {
		return nil, fmt.Errorf("missing or empty required parameter: specification_id")
	}

	cfg := config.Get()
	org, dep, err := cfg.ResolveDeployment(args)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"organization":  org,
		"deployment":    dep,
		"specification": specID,
	}).Debug("Fetching OpenAPI specification")

	spec, err := newClient(logger).GetAPISpecification(ctx, org, dep, specID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch OpenAPI specification: %w", err)
	}

	return mcp.NewToolResultText(spec), nil
}
