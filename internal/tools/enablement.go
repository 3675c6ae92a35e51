package tools

import (
	"os"
	"strings"
)

// IsToolEnabled checks if a tool is enabled via the ENABLE_ADDITIONAL_TOOLS
// environment variable. The variable holds a comma-separated list of tool
// names; names are case-insensitive and hyphens and underscores are
// interchangeable. The special value "all" enables every gated tool.
//
// Example: ENABLE_ADDITIONAL_TOOLS="test-portal-url"
func IsToolEnabled(toolName string) bool {
	enabledTools := os.Getenv("ENABLE_ADDITIONAL_TOOLS")
	if enabledTools == "" {
		return false
	}

	if strings.TrimSpace(strings.ToLower(enabledTools)) == "all" {
		return true
	}

	want := normaliseToolName(toolName)
	for _, entry := range strings.Split(enabledTools, ",") {
		if normaliseToolName(strings.TrimSpace(entry)) == want {
			return true
		}
	}
	return false
}

func normaliseToolName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}
