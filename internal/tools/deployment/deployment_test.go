package deployment

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/heretto-labs/heretto-mcp/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points the configuration at a test upstream and reloads it.
// The config file path is diverted into an empty temp dir so a developer's
// real config cannot leak into assertions.
func setupTestConfig(t *testing.T, upstreamURL string) {
	t.Helper()
	t.Setenv("HERETTO_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("HERETTO_API_BASE_URL", upstreamURL)
	t.Setenv("HERETTO_DEPLOY_TOKEN", "test-token")
	t.Setenv("HERETTO_DEFAULT_ORG_ID", "acme")
	t.Setenv("HERETTO_DEFAULT_DEPLOYMENT_ID", "docs-prod")
	t.Setenv("HERETTO_PORTAL_BASE_URL", "https://docs.example.com")
	t.Setenv("HERETTO_DEFAULT_LOCALE", "en")
	t.Setenv("HERETTO_RATE_LIMIT", "1000")
	config.Reload()
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// decodeResult unmarshals a tool's JSON text result
func decodeResult(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestScopeOptionsReflectDefaults(t *testing.T) {
	setupTestConfig(t, "http://upstream.invalid")

	def := (&SearchTool{}).Definition()
	assert.Equal(t, "search_deployment", def.Name)
	assert.Contains(t, def.InputSchema.Required, "query")

	orgProp, ok := def.InputSchema.Properties["organization_id"].(map[string]any)
	require.True(t, ok, "organization_id should be declared")
	desc, _ := orgProp["description"].(string)
	assert.Contains(t, desc, "(default: acme)")
	assert.NotContains(t, def.InputSchema.Required, "organization_id")

	depProp, ok := def.InputSchema.Properties["deployment_id"].(map[string]any)
	require.True(t, ok)
	desc, _ = depProp["description"].(string)
	assert.Contains(t, desc, "(default: docs-prod)")
	assert.NotContains(t, def.InputSchema.Required, "deployment_id")
}

func TestScopeOptionsRequiredWithoutDefaults(t *testing.T) {
	setupTestConfig(t, "http://upstream.invalid")
	t.Setenv("HERETTO_DEFAULT_ORG_ID", "")
	config.Reload()

	def := (&SearchTool{}).Definition()
	assert.Contains(t, def.InputSchema.Required, "organization_id")
	assert.NotContains(t, def.InputSchema.Required, "deployment_id")
}

func TestCollectTitles(t *testing.T) {
	structure := map[string]interface{}{
		"title": "Home",
		"children": []interface{}{
			map[string]interface{}{
				"title": "Coffee Guide",
				"children": []interface{}{
					map[string]interface{}{"title": "Espresso", "path": "coffee-guide/espresso"},
				},
			},
			map[string]interface{}{"path": "untitled/node"},
			"loose string",
			map[string]interface{}{"title": ""},
		},
	}

	titles := collectTitles(structure, nil)
	assert.ElementsMatch(t, []string{"Home", "Coffee Guide", "Espresso"}, titles)
}

func TestDedupeStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedupeStrings([]string{"a", "a", "b", "c", "c"}))
	assert.Equal(t, []string{"only"}, dedupeStrings([]string{"only"}))
	assert.Empty(t, dedupeStrings([]string{}))
}

func TestCacheStructureTitlesRoundTrip(t *testing.T) {
	cache := &sync.Map{}

	structure := map[string]interface{}{
		"children": []interface{}{
			map[string]interface{}{"title": "Espresso"},
			map[string]interface{}{"title": "Brewing"},
			map[string]interface{}{"title": "Espresso"},
		},
	}
	cacheStructureTitles(cache, structure)

	titles := cachedStructureTitles(cache)
	assert.Equal(t, []string{"Brewing", "Espresso"}, titles, "titles should be sorted and deduplicated")
}

func TestCacheStructureTitlesEmptyStructureNotStored(t *testing.T) {
	cache := &sync.Map{}
	cacheStructureTitles(cache, map[string]interface{}{"children": []interface{}{}})

	_, stored := cache.Load(structureTitlesCacheKey)
	assert.False(t, stored)
}

func TestCachedStructureTitlesColdCache(t *testing.T) {
	assert.Nil(t, cachedStructureTitles(&sync.Map{}))
}

func TestCachedStructureTitlesExpired(t *testing.T) {
	cache := &sync.Map{}
	cache.Store(structureTitlesCacheKey, CacheEntry{
		Data:      []string{"Espresso"},
		Timestamp: time.Now().Add(-structureTitlesCacheTTL - time.Minute),
	})

	assert.Nil(t, cachedStructureTitles(cache))
}

func TestGetStringArg(t *testing.T) {
	args := map[string]interface{}{"name": "espresso", "limit": float64(3)}
	assert.Equal(t, "espresso", getStringArg(args, "name"))
	assert.Equal(t, "", getStringArg(args, "limit"))
	assert.Equal(t, "", getStringArg(args, "missing"))
}

func TestNewToolResultJSONIndents(t *testing.T) {
	result, err := newToolResultJSON(map[string]interface{}{"key": "value"})
	require.NoError(t, err)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.Equal(t, "{\n  \"key\": \"value\"\n}", text.Text)
}
