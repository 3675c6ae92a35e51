// Package toolhelp exposes the extended help other tools publish through
// the ExtendedHelpProvider interface.
package toolhelp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/heretto-labs/heretto-mcp/internal/registry"
	"github.com/heretto-labs/heretto-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// ToolHelpTool surfaces usage examples and troubleshooting for Heretto tools
type ToolHelpTool struct{}

func init() {
	registry.Register(&ToolHelpTool{})
}

// Definition returns the tool's definition for MCP registration
func (t *ToolHelpTool) Definition() mcp.Tool {
	withHelp := registry.GetToolNamesWithExtendedHelp()

	description := "Get detailed usage examples and troubleshooting for Heretto MCP tools when encountering unexpected errors."
	if len(withHelp) == 0 {
		description = "No tools currently provide extended help information."
		withHelp = []string{}
	}

	return mcp.NewTool(
		"get_tool_help",
		mcp.WithDescription(description),
		mcp.WithString("tool_name",
			mcp.Required(),
			mcp.Description("Name of the tool to get help for"),
			mcp.Enum(withHelp...),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

// Execute looks the tool up and returns its schema plus extended help
func (t *ToolHelpTool) Execute(_ context.Context, logger *logrus.Logger, _ *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	toolName, ok := args["tool_name"].(string)
	if !ok || toolName == "" {
		return nil, fmt.Errorf("missing or invalid required parameter: tool_name")
	}

	tool, exists := registry.GetTool(toolName)
	if !exists {
		return nil, fmt.Errorf("tool '%s' not found or disabled. Tools with extended help: %s",
			toolName, strings.Join(registry.GetToolNamesWithExtendedHelp(), ", "))
	}

	provider, ok := tool.(tools.ExtendedHelpProvider)
	if !ok {
		return nil, fmt.Errorf("tool '%s' does not provide extended help. Tools with extended help: %s",
			toolName, strings.Join(registry.GetToolNamesWithExtendedHelp(), ", "))
	}

	definition := tool.Definition()
	response := ToolHelpResponse{
		ToolName: toolName,
		BasicInfo: map[string]interface{}{
			"name":         definition.Name,
			"description":  definition.Description,
			"input_schema": definition.InputSchema,
		},
		ExtendedInfo:    provider.ProvideExtendedInfo(),
		HasExtendedInfo: true,
	}
	if response.ExtendedInfo == nil {
		response.HasExtendedInfo = false
		response.Message = fmt.Sprintf("Tool '%s' declares extended help but returned none", toolName)
	}

	logger.WithField("tool_name", toolName).Debug("Serving tool help")

	responseJSON, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
