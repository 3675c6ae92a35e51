package deployment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchUpstream(t *testing.T, response string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/org/acme/deployments/docs-prod/search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSearchExecuteMissingQuery(t *testing.T) {
	setupTestConfig(t, "http://upstream.invalid")
	tool := &SearchTool{}

	for _, args := range []map[string]interface{}{
		{},
		{"query": ""},
		{"query": "   "},
		{"query": float64(7)},
	} {
		_, err := tool.Execute(context.Background(), testLogger(), &sync.Map{}, args)
		require.Error(t, err)
		assert.Equal(t, "missing or empty required parameter: query", err.Error())
	}
}

func TestSearchExecuteLimitOutOfRange(t *testing.T) {
	setupTestConfig(t, "http://upstream.invalid")
	tool := &SearchTool{}

	for _, limit := range []float64{0, -1, 51} {
		_, err := tool.Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{
			"query": "espresso",
			"limit": limit,
		})
		require.Error(t, err)
		assert.Equal(t, "limit must be between 1 and 50", err.Error())
	}
}

func TestSearchExecuteMissingOrganization(t *testing.T) {
	setupTestConfig(t, "http://upstream.invalid")
	t.Setenv("HERETTO_DEFAULT_ORG_ID", "")
	config.Reload()

	_, err := (&SearchTool{}).Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{
		"query": "espresso",
	})
	require.Error(t, err)
	assert.Equal(t, "organization_id is required (set HERETTO_DEFAULT_ORG_ID to provide a default)", err.Error())
}

func TestSearchExecuteEnrichesResults(t *testing.T) {
	server := searchUpstream(t, `{"results": [
		{"title": "Webhook Guide", "path": "guides/webhooks", "description": "All about webhooks",
		 "content": "Webhooks deliver deployment events. Configure the webhook secret under settings."},
		{"title": "API Reference", "path": "reference/api", "description": "Endpoint catalogue"},
		{"title": "Old Notes", "path": "notes/old"}
	]}`)
	setupTestConfig(t, server.URL)

	result, err := (&SearchTool{}).Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{
		"query": "webhook",
		"limit": float64(2),
	})
	require.NoError(t, err)
	payload := decodeResult(t, result)

	results, ok := payload["results"].([]interface{})
	require.True(t, ok)
	assert.Len(t, results, 2, "limit should truncate upstream results")

	first, ok := results[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://docs.example.com/guides/webhooks", first["portal_url"])

	enhanced, ok := payload["enhanced_search"].(map[string]interface{})
	require.True(t, ok, "enhanced_search should be present by default")
	assert.Equal(t, float64(2), enhanced["total_results"])

	categories, ok := enhanced["categories"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), categories["guides"])
	assert.Equal(t, float64(1), categories["api"])

	topResults, ok := enhanced["top_results"].([]interface{})
	require.True(t, ok)
	require.Len(t, topResults, 2)
	top, ok := topResults[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Webhook Guide", top["title"], "snippet-scored result should rank first")
	assert.Contains(t, top["smart_snippet"], "**webhook**")

	quickLinks, ok := payload["quick_links"].([]interface{})
	require.True(t, ok)
	assert.Len(t, quickLinks, 2)

	assert.Contains(t, payload, "suggested_learning_path")
	assert.Contains(t, payload, "related_content")
	assert.NotContains(t, payload, "did_you_mean")
}

func TestSearchExecuteClassifiesRelatedContent(t *testing.T) {
	server := searchUpstream(t, `{"results": [
		{"title": "Webhook Guide", "path": "guides/webhooks",
		 "content": "Webhooks deliver deployment events to your endpoint."},
		{"title": "Webhook Payloads", "path": "guides/payloads"},
		{"title": "API Reference", "path": "reference/api"}
	]}`)
	setupTestConfig(t, server.URL)

	result, err := (&SearchTool{}).Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{
		"query": "webhook",
	})
	require.NoError(t, err)
	payload := decodeResult(t, result)

	related, ok := payload["related_content"].(map[string]interface{})
	require.True(t, ok, "enriched searches should classify the other results")

	sameSection, ok := related["same_section"].([]interface{})
	require.True(t, ok)
	require.Len(t, sameSection, 1)
	sibling, ok := sameSection[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Webhook Payloads", sibling["title"])
	assert.Equal(t, "https://docs.example.com/guides/payloads", sibling["portal_url"])

	seeAlso, ok := related["see_also"].([]interface{})
	require.True(t, ok)
	require.Len(t, seeAlso, 1)
	other, ok := seeAlso[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "API Reference", other["title"])

	assert.Empty(t, related["parent_topics"])
	assert.Empty(t, related["child_topics"])
}

func TestSearchExecuteWithoutSnippets(t *testing.T) {
	server := searchUpstream(t, `{"results": [
		{"title": "Webhook Guide", "path": "guides/webhooks"}
	]}`)
	setupTestConfig(t, server.URL)

	result, err := (&SearchTool{}).Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{
		"query":            "webhook",
		"include_snippets": false,
	})
	require.NoError(t, err)
	payload := decodeResult(t, result)

	assert.NotContains(t, payload, "enhanced_search")
	assert.NotContains(t, payload, "suggested_learning_path")

	// Portal augmentation still applies without enrichment
	results, ok := payload["results"].([]interface{})
	require.True(t, ok)
	first, ok := results[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://docs.example.com/guides/webhooks", first["portal_url"])
}

func TestSearchExecuteEmptyResultsSuggestsAlternatives(t *testing.T) {
	server := searchUpstream(t, `{"results": []}`)
	setupTestConfig(t, server.URL)

	result, err := (&SearchTool{}).Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{
		"query": "webhook",
	})
	require.NoError(t, err)
	payload := decodeResult(t, result)

	didYouMean, ok := payload["did_you_mean"].([]interface{})
	require.True(t, ok, "empty results should carry did_you_mean")
	assert.Contains(t, didYouMean, "webhooks")
}

func TestSearchExecuteSuggestionsUseCachedTitles(t *testing.T) {
	server := searchUpstream(t, `{"results": []}`)
	setupTestConfig(t, server.URL)

	cache := &sync.Map{}
	cacheStructureTitles(cache, map[string]interface{}{
		"children": []interface{}{
			map[string]interface{}{"title": "Deployment Guide"},
		},
	})

	result, err := (&SearchTool{}).Execute(context.Background(), testLogger(), cache, map[string]interface{}{
		"query": "deployment",
	})
	require.NoError(t, err)
	payload := decodeResult(t, result)

	didYouMean, ok := payload["did_you_mean"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, didYouMean, "Deployment Guide")
}

func TestSearchExecuteUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "upstream exploded"}`))
	}))
	t.Cleanup(server.Close)
	setupTestConfig(t, server.URL)

	_, err := (&SearchTool{}).Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{
		"query": "espresso",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
	assert.Contains(t, err.Error(), "status 500")
}

func TestSearchExecuteNonObjectPayloadPassesThrough(t *testing.T) {
	server := searchUpstream(t, `[{"title": "Loose result", "path": "loose"}]`)
	setupTestConfig(t, server.URL)

	result, err := (&SearchTool{}).Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{
		"query": "loose",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	// Arrays are augmented but not enriched; the result is still valid JSON
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.Contains(t, text.Text, "https://docs.example.com/loose")
	assert.NotContains(t, text.Text, "enhanced_search")
}
