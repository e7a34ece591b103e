package mcplog

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []LogEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if sc.Text() == "" {
			continue
		}
		var e LogEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e), "torn line %q", sc.Text())
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	return entries
}

func TestSanitizeParams(t *testing.T) {
	code := "<script setup>\n" + strings.Repeat("const a = 1\n", 10) + "</script>"

	out := SanitizeParams(map[string]any{
		"code":  code,
		"name":  "Card",
		"flag":  true,
		"extra": nil,
	})

	assert.Equal(t, len(code), out["code_len"])
	assert.Equal(t, 12, out["code_lines"])
	assert.NotContains(t, out, "code")
	assert.Equal(t, "Card", out["name"])
	assert.Equal(t, true, out["flag"])
	assert.Contains(t, out, "extra")

	assert.Empty(t, SanitizeParams(nil))
}

func TestResponseBytes(t *testing.T) {
	assert.Equal(t, 0, ResponseBytes(nil))
	assert.Greater(t, ResponseBytes(mcp.NewToolResultText(`{"code":""}`)), 0)
}

func TestNewEntry(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	restore := Now
	Now = func() time.Time { return start.Add(42 * time.Millisecond) }
	t.Cleanup(func() { Now = restore })

	e := NewEntry("scan_components", map[string]any{"code": "<Foo />"}, start, mcp.NewToolResultError("bad"), nil)
	assert.Equal(t, "2026-01-02T03:04:05Z", e.Ts)
	assert.Equal(t, int64(42), e.DurationMs)
	assert.True(t, e.ToolError)
	assert.Nil(t, e.Error)
	assert.Equal(t, "<Foo />", e.Params["code"])

	e = NewEntry("convert_to_typescript", nil, start, nil, errors.New("boom"))
	require.NotNil(t, e.Error)
	assert.Equal(t, "boom", *e.Error)
	assert.False(t, e.ToolError)
	assert.Equal(t, 0, e.ResponseBytes)
}

func TestLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	entries := []LogEntry{
		{Tool: "cleanup_components", Params: map[string]any{"code_len": 1200}, DurationMs: 5},
		{Tool: "convert_to_typescript", Params: map[string]any{}, DurationMs: 42, ToolError: true},
	}
	for _, e := range entries {
		require.NoError(t, logger.Write(e))
	}
	require.NoError(t, logger.Close())

	got := readEntries(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "cleanup_components", got[0].Tool)
	assert.Equal(t, int64(42), got[1].DurationMs)
	assert.True(t, got[1].ToolError)
}

func TestLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	for i := 0; i < 2; i++ {
		logger, err := NewLogger(path)
		require.NoError(t, err)
		require.NoError(t, logger.Write(LogEntry{Tool: "scan_components"}))
		require.NoError(t, logger.Close())
	}
	assert.Len(t, readEntries(t, path), 2)
}

func TestLoggerConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	const goroutines, writesEach = 50, 10
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(LogEntry{Tool: "scan_components"})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	assert.Len(t, readEntries(t, path), goroutines*writesEach)
}

func TestNewLogger_EmptyPathDisables(t *testing.T) {
	logger, err := NewLogger("")
	assert.NoError(t, err)
	assert.Nil(t, logger)
}

func TestNewLogger_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "calls.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}
