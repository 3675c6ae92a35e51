package deployment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/heretto-labs/heretto-mcp/internal/enrich"
	"github.com/heretto-labs/heretto-mcp/internal/portal"
	"github.com/heretto-labs/heretto-mcp/internal/registry"
	"github.com/heretto-labs/heretto-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// ContentTool fetches a document from a Heretto deployment by path or ID
type ContentTool struct {
	renderer *Renderer
}

func init() {
	registry.Register(&ContentTool{})
}

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"

	defaultContentLength = 20000
)

// Definition returns the tool's definition for MCP registration
func (t *ContentTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get detailed content from a Heretto deployment by path or ID. USE THIS AFTER searching to get full content of specific documents. Returns complete document content, metadata, and related links."),
		mcp.WithString("for_path",
			mcp.Description("Content path from search results (e.g., '/guides/getting-started')"),
		),
		mcp.WithString("for_id",
			mcp.Description("Content ID from search results"),
		),
		mcp.WithString("format",
			mcp.Description("Response format: 'json' keeps the upstream content field as-is, 'markdown' renders HTML content to markdown (Optional, default: json)"),
			mcp.Enum(formatJSON, formatMarkdown),
		),
		mcp.WithNumber("start_index",
			mcp.Description("Starting character index for content pagination (Optional, default: 0)"),
		),
		mcp.WithNumber("max_length",
			mcp.Description(fmt.Sprintf("Maximum number of content characters to return (Optional, default: %d)", defaultContentLength)),
		),
	}
	opts = append(opts, scopeOptions()...)
	opts = append(opts, readOnlyAnnotations()...)
	return mcp.NewTool("get_content", opts...)
}

// Execute fetches the document and layers key facts, sections and
// pagination over the content field
func (t *ContentTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	if t.renderer == nil {
		t.renderer = NewRenderer()
	}

	forPath := strings.TrimSpace(getStringArg(args, "for_path"))
	forID := strings.TrimSpace(getStringArg(args, "for_id"))
	if forPath == "" && forID == "" {
		return nil, fmt.Errorf("either for_path or for_id must be provided")
	}

	format := formatJSON
	if raw, ok := args["format"].(string); ok && raw != "" {
		if raw != formatJSON && raw != formatMarkdown {
			return nil, fmt.Errorf("invalid format: %s. Must be one of: %s, %s", raw, formatJSON, formatMarkdown)
		}
		format = raw
	}

	startIndex := 0
	if raw, ok := args["start_index"].(float64); ok {
		startIndex = int(raw)
		if startIndex < 0 {
			return nil, fmt.Errorf("start_index must not be negative")
		}
	}

	maxLength := defaultContentLength
	if raw, ok := args["max_length"].(float64); ok {
		maxLength = int(raw)
		if maxLength < 1 {
			return nil, fmt.Errorf("max_length must be positive")
		}
	}

	cfg := config.Get()
	org, dep, err := cfg.ResolveDeployment(args)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"organization": org,
		"deployment":   dep,
		"for_path":     forPath,
		"for_id":       forID,
	}).Debug("Fetching content")

	payload, err := newClient(logger).GetContent(ctx, org, dep, forPath, forID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	payload = portal.Augment(payload, cfg.PortalBaseURL)

	if result, ok := payload.(map[string]interface{}); ok {
		if content, ok := result["content"].(string); ok && content != "" {
			if format == formatMarkdown && IsHTMLContent(content) {
				rendered, err := t.renderer.ToMarkdown(content)
				if err != nil {
					logger.WithError(err).Warn("Markdown rendering failed, returning original content")
				} else {
					content = rendered
					result["format"] = formatMarkdown
				}
			}

			result["key_facts"] = enrich.KeyFacts(content)
			result["sections"] = enrich.Sections(content)

			page := paginate(content, startIndex, maxLength)
			result["content"] = page.Content
			result["total_length"] = page.TotalLength
			result["start_index"] = page.StartIndex
			result["end_index"] = page.EndIndex
			result["has_more_content"] = page.HasMoreContent
			if page.NextStartIndex != nil {
				result["next_start_index"] = *page.NextStartIndex
				result["pagination_hint"] = fmt.Sprintf("Content truncated. Call get_content again with start_index=%d to continue reading.", *page.NextStartIndex)
			}
		}

		if forPath != "" {
			result["related_suggestions"] = map[string]interface{}{
				"next_steps":   "Use search_deployment to find related content",
				"parent_topic": portal.ParentPath(forPath),
			}
		}

		payload = portal.FormatProminentURLs(result, cfg.PortalBaseURL)
	}

	return newToolResultJSON(payload)
}

// ProvideExtendedInfo provides detailed usage information for the content tool
func (t *ContentTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		Examples: []tools.ToolExample{
			{
				Description: "Fetch a document by its path",
				Arguments: map[string]interface{}{
					"for_path": "/guides/getting-started",
				},
				ExpectedResult: "Document content plus key facts, a section outline, a portal link and related suggestions",
			},
			{
				Description: "Fetch by ID, rendered as markdown",
				Arguments: map[string]interface{}{
					"for_id": "GUID-1234-5678",
					"format": "markdown",
				},
				ExpectedResult: "HTML content converted to markdown, with sections extracted from the rendered headings",
			},
			{
				Description: "Read a long document incrementally",
				Arguments: map[string]interface{}{
					"for_path":    "/reference/field-catalogue",
					"max_length":  5000,
					"start_index": 5000,
				},
				ExpectedResult: "The second 5000-character window, with has_more_content and next_start_index for the next call",
			},
		},
		CommonPatterns: []string{
			"Take for_path values directly from search_deployment results",
			"Use format=markdown when the content will be quoted to the user",
			"Follow next_start_index until has_more_content is false for full documents",
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{
				Problem:  "either for_path or for_id must be provided",
				Solution: "Pass the path or the ID of a document found via search_deployment. Neither is inferred.",
			},
			{
				Problem:  "Content is empty but the document exists in the portal",
				Solution: "Some structure nodes are containers without body content. Fetch one of their child topics instead.",
			},
		},
		ParameterDetails: map[string]string{
			"for_path":    "Document path as returned by search or structure. Both rooted and relative paths are accepted.",
			"for_id":      "Stable document ID. Survives path moves, so prefer it for bookmarks.",
			"format":      "markdown renders HTML content fields via the converter; json returns them untouched.",
			"start_index": "Character offset into the (rendered) content for pagination.",
			"max_length":  "Window size for pagination. The default suits most assistant context budgets.",
		},
		WhenToUse:    "Use to read the full body of a document located via search_deployment or get_deployment_structure.",
		WhenNotToUse: "Don't use for discovery. Search first; guessing paths wastes upstream calls.",
	}
}
