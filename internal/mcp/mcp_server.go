// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Healthness MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Healthness Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_daily_summary ---
	s.AddTool(mcp.NewTool("get_daily_summary",
		mcp.WithDescription("Aggregate raw health records into one row per calendar day (sleep, nutrition, activity, vitals)."),
		mcp.WithString("input_path", mcp.Description("Path to the records JSON payload (defaults to the server's configured input).")),
		mcp.WithString("tz", mcp.Description("Fallback IANA timezone when the payload has none (e.g. 'America/Los_Angeles').")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of most recent days returned.")),
	), h.handleGetDailySummary)

	// --- 2. Tool: get_anomalies ---
	s.AddTool(mcp.NewTool("get_anomalies",
		mcp.WithDescription("Flag days whose value deviates sharply from a trailing rolling baseline (z-score)."),
		mcp.WithString("input_path", mcp.Description("Path to the records JSON payload.")),
		mcp.WithNumber("z_threshold", mcp.Description("Absolute z-score at or above which a day is flagged. Defaults to 2.0.")),
		mcp.WithNumber("lookback_days", mcp.Description("Trailing window length for the rolling baseline. Defaults to 14.")),
	), h.handleGetAnomalies)

	// --- 3. Tool: get_streaks ---
	s.AddTool(mcp.NewTool("get_streaks",
		mcp.WithDescription("Find consecutive-day runs where a metric stays above its robust (median + MAD) threshold."),
		mcp.WithString("input_path", mcp.Description("Path to the records JSON payload.")),
		mcp.WithString("metric", mcp.Description("Metric key to scan (e.g. 'sugar_g', 'rhr_bpm'). Defaults to the server's configured metric.")),
		mcp.WithNumber("streak_days", mcp.Description("Minimum run length for a qualifying streak. Defaults to 3.")),
	), h.handleGetStreaks)

	// --- 4. Tool: get_correlations ---
	s.AddTool(mcp.NewTool("get_correlations",
		mcp.WithDescription("Rank pairwise Pearson correlations between daily metrics, same-day and lagged."),
		mcp.WithString("input_path", mcp.Description("Path to the records JSON payload.")),
		mcp.WithNumber("lag_days", mcp.Description("Day shift for lagged correlations. Defaults to 1.")),
		mcp.WithNumber("min_samples", mcp.Description("Minimum paired samples for a reported correlation. Defaults to 6.")),
	), h.handleGetCorrelations)

	return s
}

// StartMCPServer starts the Healthness MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
