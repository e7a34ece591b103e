// Package mcp exposes the component migrations as MCP tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/sfcfix/pkg/mcplog"
	"github.com/gnana997/sfcfix/pkg/transform"
)

const serverName = "sfcfix"

// Version is reported to MCP clients. The CLI overrides it at link time.
var Version = "0.1.0-dev"

// Server implements the MCP server for sfcfix. Every tool works on the code
// passed in the request; no files are read or written.
type Server struct {
	mcpServer *server.MCPServer
	migrator  *transform.Migrator
	commands  *transform.Registry
	logger    *mcplog.Logger // nil disables tool-call logging
}

// NewServer creates a server backed by m. A non-nil logger records every
// tool call.
func NewServer(m *transform.Migrator, logger *mcplog.Logger) (*Server, error) {
	commands, err := transform.Activate(m)
	if err != nil {
		return nil, err
	}
	s := &Server{migrator: m, commands: commands, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer(serverName, Version, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: cleanupComponentsTool(), Handler: s.handleCleanupComponents},
		server.ServerTool{Tool: convertToTypeScriptTool(), Handler: s.handleConvertToTypeScript},
		server.ServerTool{Tool: scanComponentsTool(), Handler: s.handleScanComponents},
	)

	return s, nil
}

// MCPServer returns the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	defer s.commands.Dispose()
	return server.ServeStdio(s.mcpServer)
}
