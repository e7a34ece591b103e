// Package mcplog writes one JSONL line per MCP tool call.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// shortStringMax is the longest string parameter logged verbatim.
const shortStringMax = 64

// LogEntry is the schema for one JSONL line.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	// ToolError is set when the tool reported a failure in its result.
	ToolError bool `json:"tool_error"`
	// Error is the protocol-level error, if any.
	Error *string `json:"error"`
}

// NewEntry builds the entry for a call that started at start.
func NewEntry(tool string, args map[string]any, start time.Time, result *mcp.CallToolResult, err error) LogEntry {
	e := LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          tool,
		Params:        SanitizeParams(args),
		DurationMs:    Now().Sub(start).Milliseconds(),
		ResponseBytes: ResponseBytes(result),
		ToolError:     result != nil && result.IsError,
	}
	if err != nil {
		msg := err.Error()
		e.Error = &msg
	}
	return e
}

// Logger appends entries to a file. It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens path for appending, creating parent directories. An empty
// path returns nil, nil; callers treat a nil Logger as disabled.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one entry.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// SanitizeParams returns a copy of args that never contains component
// source. A string longer than shortStringMax bytes is replaced by
// "<key>_len" and "<key>_lines" counts.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		s, ok := v.(string)
		if !ok || len(s) <= shortStringMax {
			out[k] = v
			continue
		}
		out[k+"_len"] = len(s)
		out[k+"_lines"] = strings.Count(s, "\n") + 1
	}
	return out
}

// ResponseBytes returns the encoded size of a result's content, 0 for nil.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Now is a replaceable clock for testing.
var Now = time.Now
