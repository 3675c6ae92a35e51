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

// SearchTool searches a Heretto deployment for matching content
type SearchTool struct{}

func init() {
	registry.Register(&SearchTool{})
}

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// Definition returns the tool's definition for MCP registration
func (t *SearchTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Search for content in a Heretto deployment. USE THIS FIRST when looking for any documentation, guides, or help content. Returns matching documents with titles, paths, and summaries. Always search before trying to get specific content."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string. Use relevant keywords from the user's question."),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of results to return (Optional, 1-%d, default: %d)", maxSearchLimit, defaultSearchLimit)),
		),
		mcp.WithBoolean("include_snippets",
			mcp.Description("Include smart snippets, categories and quick answers with the results (Optional, default: true)"),
		),
	}
	opts = append(opts, scopeOptions()...)
	opts = append(opts, readOnlyAnnotations()...)
	return mcp.NewTool("search_deployment", opts...)
}

// Execute runs the search and layers enrichment over the upstream results
func (t *SearchTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("missing or empty required parameter: query")
	}
	query = strings.TrimSpace(query)

	limit := defaultSearchLimit
	if limitRaw, ok := args["limit"].(float64); ok {
		limit = int(limitRaw)
		if limit < 1 || limit > maxSearchLimit {
			return nil, fmt.Errorf("limit must be between 1 and %d", maxSearchLimit)
		}
	}

	includeSnippets := true
	if raw, ok := args["include_snippets"].(bool); ok {
		includeSnippets = raw
	}

	cfg := config.Get()
	org, dep, err := cfg.ResolveDeployment(args)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"organization": org,
		"deployment":   dep,
		"query":        query,
	}).Debug("Searching deployment")

	payload, err := newClient(logger).Search(ctx, org, dep, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	payload = portal.Augment(payload, cfg.PortalBaseURL)

	if result, ok := payload.(map[string]interface{}); ok {
		if rawResults, present := result["results"]; present {
			results, _ := rawResults.([]interface{})
			if len(results) > limit {
				results = results[:limit]
				result["results"] = results
			}

			if includeSnippets {
				enhancement := enrich.EnhanceSearchResults(results, query, cachedStructureTitles(cache))

				var quickAnswer interface{}
				if enhancement.QuickAnswer != "" {
					quickAnswer = enhancement.QuickAnswer
				}
				result["enhanced_search"] = map[string]interface{}{
					"quick_answer":  quickAnswer,
					"total_results": enhancement.TotalResults,
					"categories":    enhancement.Categories,
					"top_results":   topResults(enhancement.EnhancedResults),
				}
				result["suggested_learning_path"] = enrich.LearningPath(query)

				if len(enhancement.EnhancedResults) > 0 {
					topPath, _ := enhancement.EnhancedResults[0]["path"].(string)
					result["related_content"] = enrich.RelatedContent(topPath, results)
				}

				if len(results) == 0 {
					result["did_you_mean"] = enhancement.SuggestedQueries
				}
			}
		}
		payload = portal.FormatProminentURLs(result, cfg.PortalBaseURL)
	}

	logger.WithField("query", query).Debug("Search complete")

	return newToolResultJSON(payload)
}

// topResults trims enhanced results to the headline count
func topResults(results []map[string]interface{}) []map[string]interface{} {
	if len(results) > enrich.TopResultsLimit {
		return results[:enrich.TopResultsLimit]
	}
	return results
}

// ProvideExtendedInfo provides detailed usage information for the search tool
func (t *SearchTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		Examples: []tools.ToolExample{
			{
				Description: "Find documentation about configuring webhooks",
				Arguments: map[string]interface{}{
					"query": "webhook configuration",
				},
				ExpectedResult: "Matching documents with titles, paths, portal URLs, smart snippets and a quick answer when one can be extracted",
			},
			{
				Description: "Search a specific deployment, capping the result count",
				Arguments: map[string]interface{}{
					"query":           "getting started",
					"organization_id": "acme",
					"deployment_id":   "product-docs",
					"limit":           5,
				},
				ExpectedResult: "At most 5 results from the acme/product-docs deployment",
			},
			{
				Description: "Raw upstream results without enrichment",
				Arguments: map[string]interface{}{
					"query":            "release notes",
					"include_snippets": false,
				},
				ExpectedResult: "Upstream search results with portal URLs but no enhanced_search block",
			},
		},
		CommonPatterns: []string{
			"Search first, then use get_content with a path from the results",
			"Check quick_links for direct portal URLs to share with users",
			"When results are empty, try the did_you_mean suggestions",
			"related_content groups the other results by how they relate to the top match",
			"Run get_deployment_structure once per session so suggestions can draw on real document titles",
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{
				Problem:  "organization_id is required (set HERETTO_DEFAULT_ORG_ID to provide a default)",
				Solution: "Pass organization_id explicitly or export HERETTO_DEFAULT_ORG_ID so every call inherits it.",
			},
			{
				Problem:  "Search returns no results for known topics",
				Solution: "Use fewer, more specific keywords. The upstream search matches document text, not fuzzy titles.",
			},
		},
		ParameterDetails: map[string]string{
			"query":            "Keywords to search for. Phrases score higher when they appear verbatim in a document.",
			"limit":            "Caps the number of results returned. The upstream result order is preserved.",
			"include_snippets": "Set false to skip snippet extraction and categorisation when you only need paths.",
		},
		WhenToUse:    "Use as the entry point for any documentation question about a Heretto deployment.",
		WhenNotToUse: "Don't use to fetch a document you already have the path for; call get_content directly.",
	}
}
