package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/sfcfix/pkg/document"
	"github.com/gnana997/sfcfix/pkg/transform"
)

// rewriteResult is the payload of the two rewriting tools.
type rewriteResult struct {
	Code    string   `json:"code"`
	Changed bool     `json:"changed"`
	Imports []string `json:"imports,omitempty"`
}

func (s *Server) handleCleanupComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var added []string
	for _, imp := range s.migrator.MissingImports(code) {
		added = append(added, imp.Statement)
	}

	res, err := s.rewrite(ctx, transform.CleanupComponentsID, code)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res.Imports = added
	return jsonResult(res)
}

func (s *Server) handleConvertToTypeScript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.rewrite(ctx, transform.ConvertToTypeScriptID, code)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) handleScanComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.migrator.Scan(code))
}

// rewrite runs a registered command against an in-memory copy of code.
func (s *Server) rewrite(ctx context.Context, commandID, code string) (rewriteResult, error) {
	doc := document.NewMemory(code)
	if err := s.commands.Run(ctx, commandID, document.StaticHost{Doc: doc}); err != nil {
		return rewriteResult{}, fmt.Errorf("%s: %w", commandID, err)
	}
	return rewriteResult{Code: doc.Text(), Changed: doc.Batches() > 0}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
