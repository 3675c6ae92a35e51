package toolhelp

import "github.com/heretto-labs/heretto-mcp/internal/tools"

// ToolHelpResponse is the get_tool_help result shape
type ToolHelpResponse struct {
	ToolName        string                 `json:"tool_name"`
	BasicInfo       map[string]interface{} `json:"basic_info"`
	ExtendedInfo    *tools.ExtendedHelp    `json:"extended_info,omitempty"`
	HasExtendedInfo bool                   `json:"has_extended_info"`
	Message         string                 `json:"message,omitempty"`
}
