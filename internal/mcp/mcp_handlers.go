package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/core"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// runAnalysis reads the payload and executes a full pass with the given config.
func (h *toolHandler) runAnalysis(cfg *contract.Config) (*schema.AnalysisOutput, error) {
	if cfg.InputPath == "" {
		return nil, fmt.Errorf("no input path configured; pass input_path or start the server with one")
	}
	payload, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return core.NewAnalyzer(cfg).Run(cfg, payload, h.mgr)
}

func (h *toolHandler) handleGetDailySummary(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if tz := request.GetString("tz", ""); tz != "" {
		if !contract.IsValidTimeZone(tz) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid timezone '%s'", tz)), nil
		}
		cfg.TimeZone = tz
	}

	output, err := h.runAnalysis(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	days := output.Series.Days
	if l := request.GetInt("limit", 0); l > 0 && len(days) > l {
		days = days[len(days)-l:]
	}

	jsonData, _ := json.MarshalIndent(days, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetAnomalies(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if z := request.GetFloat("z_threshold", 0); z > 0 {
		cfg.Params.ZScoreThreshold = z
	}
	if lb := request.GetInt("lookback_days", 0); lb > 0 {
		cfg.Params.BaselineLookbackDays = lb
	}

	output, err := h.runAnalysis(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(output.Anomalies, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetStreaks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if m := request.GetString("metric", ""); m != "" {
		key := schema.MetricKey(strings.ToLower(strings.TrimSpace(m)))
		if _, ok := schema.ValidMetricKeys[key]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown metric '%s'", m)), nil
		}
		cfg.Metric = key
	}
	if sd := request.GetInt("streak_days", 0); sd > 0 {
		cfg.Params.StreakDays = sd
	}

	output, err := h.runAnalysis(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	// Resolve streak indices back to day keys so the client never has to
	// cross-reference the series.
	type streakRange struct {
		StartDay string `json:"start_day"`
		EndDay   string `json:"end_day"`
		Days     int    `json:"days"`
	}
	type streakView struct {
		Metric         schema.MetricKey `json:"metric"`
		HasThreshold   bool             `json:"has_threshold"`
		Threshold      float64          `json:"threshold"`
		BaselineMedian float64          `json:"baseline_median"`
		RobustSD       float64          `json:"robust_sd"`
		Streaks        []streakRange    `json:"streaks"`
	}

	view := streakView{
		Metric:         output.Streaks.Metric,
		HasThreshold:   output.Streaks.HasThreshold,
		Threshold:      output.Streaks.Threshold,
		BaselineMedian: output.Streaks.BaselineMedian,
		RobustSD:       output.Streaks.RobustSD,
	}
	for _, s := range output.Streaks.Qualifying {
		view.Streaks = append(view.Streaks, streakRange{
			StartDay: output.Series.Days[s.Start].DayKey,
			EndDay:   output.Series.Days[s.End].DayKey,
			Days:     s.Len,
		})
	}

	jsonData, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCorrelations(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if lag := request.GetInt("lag_days", 0); lag > 0 {
		cfg.Params.LagDays = lag
	}
	if ms := request.GetInt("min_samples", 0); ms > 0 {
		cfg.Params.MinCorrelationDays = ms
	}

	output, err := h.runAnalysis(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	view := struct {
		SameDay []schema.Correlation `json:"same_day"`
		Lagged  []schema.Correlation `json:"lagged"`
		Days    int                  `json:"days_analyzed"`
		RunAt   time.Time            `json:"run_at"`
	}{
		SameDay: output.Correlations,
		Lagged:  output.Lagged,
		Days:    len(output.Series.Days),
		RunAt:   time.Now().UTC(),
	}

	jsonData, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
