// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/selwyntheo/fund-services-architect/internal/contract"
)

// NewMCPServer initializes and configures the debt scan MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, store contract.ResultStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Debt Scan Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		store:   store,
	}

	// --- 1. Tool: scan_repository ---
	s.AddTool(mcp.NewTool("scan_repository",
		mcp.WithDescription("Score the technical debt of a repository across code quality, architecture, infrastructure and operations."),
		mcp.WithString("repo_path", mcp.Description("Path to the repository to scan (defaults to the configured repository).")),
		mcp.WithString("name", mcp.Description("Project name to report (defaults to the directory name).")),
		mcp.WithNumber("lookback_days", mcp.Description("How many days of commit history to analyze. Defaults to 90.")),
	), h.handleScanRepository)

	// --- 2. Tool: get_stored_results ---
	s.AddTool(mcp.NewTool("get_stored_results",
		mcp.WithDescription("Return previously stored scan results, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetStoredResults)

	return s
}

// StartMCPServer starts the debt scan MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, store contract.ResultStore) error {
	s := NewMCPServer(baseCfg, client, store)
	return server.ServeStdio(s)
}
