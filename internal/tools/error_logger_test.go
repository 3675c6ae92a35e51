package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestErrorLog(t *testing.T) *ErrorLog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool-errors.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	require.NoError(t, err)

	log := &ErrorLog{enabled: true, file: file, path: path}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func readLogLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestErrorLogRecord(t *testing.T) {
	log := openTestErrorLog(t)

	log.Record("search_deployment", map[string]any{"query": "espresso"}, fmt.Errorf("upstream exploded"), "stdio")
	log.Record("get_content", nil, fmt.Errorf("either for_path or for_id must be provided"), "http")

	lines := readLogLines(t, log.Path())
	require.Len(t, lines, 2)

	var entry ErrorLogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "search_deployment", entry.ToolName)
	assert.Equal(t, "upstream exploded", entry.Error)
	assert.Equal(t, "stdio", entry.Transport)
	assert.Equal(t, map[string]any{"query": "espresso"}, entry.Arguments)

	_, err := time.Parse(time.RFC3339, entry.Timestamp)
	assert.NoError(t, err, "timestamps should round-trip as RFC3339")
}

func TestErrorLogDisabledRecordIsNoop(t *testing.T) {
	log := &ErrorLog{enabled: false}

	log.Record("search_deployment", nil, fmt.Errorf("boom"), "stdio")

	assert.False(t, log.IsEnabled())
	assert.NoError(t, log.Close())
}

func TestGetErrorLogWithoutInit(t *testing.T) {
	log := GetErrorLog()

	assert.False(t, log.IsEnabled())
	log.Record("search_deployment", nil, fmt.Errorf("boom"), "stdio")
	assert.NoError(t, log.Close())
}

func TestErrorLogRotateDropsExpiredEntries(t *testing.T) {
	log := openTestErrorLog(t)

	expired, err := json.Marshal(ErrorLogEntry{
		Timestamp: time.Now().AddDate(0, 0, -(logRetentionDays + 30)).Format(time.RFC3339),
		ToolName:  "get_content",
		Error:     "stale failure",
	})
	require.NoError(t, err)
	recent, err := json.Marshal(ErrorLogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		ToolName:  "search_deployment",
		Error:     "fresh failure",
	})
	require.NoError(t, err)

	_, err = log.file.WriteString(string(expired) + "\n" + string(recent) + "\nnot json at all\n")
	require.NoError(t, err)

	require.NoError(t, log.rotate())

	lines := readLogLines(t, log.Path())
	require.Len(t, lines, 2, "expired entries should be dropped, malformed lines kept")
	assert.Contains(t, lines[0], "fresh failure")
	assert.Equal(t, "not json at all", lines[1])

	// Rotation reopens the file, so recording keeps working
	log.Record("get_deployment_info", nil, fmt.Errorf("post-rotation failure"), "sse")
	lines = readLogLines(t, log.Path())
	assert.Len(t, lines, 3)
}
