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

// HTMLStringsTool fetches localized UI strings for a deployment
type HTMLStringsTool struct{}

func init() {
	registry.Register(&HTMLStringsTool{})
}

// Definition returns the tool's definition for MCP registration
func (t *HTMLStringsTool) Definition() mcp.Tool {
	cfg := config.Get()
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get HTML strings/translations for a deployment. Primarily for UI text and labels."),
		mcp.WithString("locale",
			mcp.Description(fmt.Sprintf("BCP 47 locale code (default: %s)", cfg.Locale)),
		),
	}
	opts = append(opts, scopeOptions()...)
	opts = append(opts, readOnlyAnnotations()...)
	return mcp.NewTool("get_html_strings", opts...)
}

// Execute fetches the localized strings. The payload is returned as-is;
// UI strings carry no portal paths to augment.
func (t *HTMLStringsTool) Execute(ctx context.Context, logger *logrus.Logger, _ *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	cfg := config.Get()

	locale := cfg.Locale
	if raw := strings.TrimSpace(getStringArg(args, "locale")); raw != "" {
		locale = raw
	}
	if err := config.ValidateLocale(locale); err != nil {
		return nil, err
	}

	org, dep, err := cfg.ResolveDeployment(args)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"organization": org,
		"deployment":   dep,
		"locale":       locale,
	}).Debug("Fetching HTML strings")

	payload, err := newClient(logger).GetHTMLStrings(ctx, org, dep, locale)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch HTML strings: %w", err)
	}

	return newToolResultJSON(payload)
}
