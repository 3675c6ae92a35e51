package portalurl

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckExecuteWithoutBase(t *testing.T) {
	setPortalBase(t, "")

	result, err := (&CheckTool{}).Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{})
	require.NoError(t, err)
	payload := decodeResult(t, result)

	assert.Equal(t, "NOT SET", payload["portal_base_url"])

	examples, ok := payload["example_paths"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"agent-portal-help/claims-handling", "/coffee-guide/espresso"}, examples)

	generated, ok := payload["generated_urls"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, generated, "no URLs can be generated without a base")
}

func TestCheckExecuteWithBase(t *testing.T) {
	setPortalBase(t, "https://docs.example.com")

	result, err := (&CheckTool{}).Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{})
	require.NoError(t, err)
	payload := decodeResult(t, result)

	assert.Equal(t, "https://docs.example.com", payload["portal_base_url"])

	generated, ok := payload["generated_urls"].([]interface{})
	require.True(t, ok)
	require.Len(t, generated, 2)

	first, ok := generated[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://docs.example.com/agent-portal-help/claims-handling", first["portal_url"])

	second, ok := generated[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://docs.example.com/coffee-guide/espresso", second["portal_url"])
}

func TestCheckExecuteCustomPath(t *testing.T) {
	setPortalBase(t, "https://docs.example.com")

	result, err := (&CheckTool{}).Execute(context.Background(), testLogger(), &sync.Map{}, map[string]interface{}{
		"path": "guides/webhooks",
	})
	require.NoError(t, err)
	payload := decodeResult(t, result)

	examples, ok := payload["example_paths"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"guides/webhooks", "/coffee-guide/espresso"}, examples)

	generated, ok := payload["generated_urls"].([]interface{})
	require.True(t, ok)
	first, ok := generated[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://docs.example.com/guides/webhooks", first["portal_url"])
}
