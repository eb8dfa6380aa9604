package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/selwyntheo/fund-services-architect/core"
	"github.com/selwyntheo/fund-services-architect/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	store   contract.ResultStore
}

func (h *toolHandler) handleScanRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid repo_path: %v", err)), nil
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return mcp.NewToolResultError(fmt.Sprintf("repo_path is not a directory: %s", p)), nil
		}
		cfg.RepoPath = abs
		cfg.ProjectName = filepath.Base(abs)
	}
	if n := request.GetString("name", ""); n != "" {
		cfg.ProjectName = n
	}
	if d := request.GetInt("lookback_days", 0); d > 0 {
		cfg.CommitLookback = time.Duration(d) * 24 * time.Hour
	}

	result, err := core.GetScanResult(ctx, cfg, h.client)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}
	if result.Failed() {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %s", result.Err)), nil
	}

	if h.store != nil {
		if _, err := h.store.SaveResult(result); err != nil {
			contract.LogWarn("could not store scan result", err)
		}
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetStoredResults(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("result storage is disabled"), nil
	}

	limit := h.baseCfg.ResultLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = min(l, contract.MaxResultLimit)
	}

	results, err := h.store.ListResults(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not list stored results: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
