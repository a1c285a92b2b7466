// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDaily prints the daily metric series using the configured output format.
func (ow *OutWriter) WriteDaily(output *schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteDailyResults(output, cfg, duration)
}

// WriteAnomalies prints flagged anomaly days using the configured output format.
func (ow *OutWriter) WriteAnomalies(output *schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteAnomalyResults(output, cfg, duration)
}

// WriteStreaks prints elevated streaks using the configured output format.
func (ow *OutWriter) WriteStreaks(output *schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteStreakResults(output, cfg, duration)
}

// WriteCorrelations prints ranked correlations using the configured output format.
func (ow *OutWriter) WriteCorrelations(output *schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteCorrelationResults(output, cfg, duration)
}

// GetTerminalWidth resolves the effective output width: the explicit
// override when set, otherwise the detected terminal width, otherwise a
// conservative default for narrow terminals and CI.
func GetTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80
	}
	return detectedWidth
}

// compactDailyKeys is the metric subset shown when the terminal is too
// narrow for the full daily table.
var compactDailyKeys = []schema.MetricKey{
	schema.MetricSleepHours,
	schema.MetricCalories,
	schema.MetricSteps,
	schema.MetricWorkoutLoad,
	schema.MetricRHRBpm,
	schema.MetricWeightKg,
}

// dailyTableKeys picks the metric columns that fit the available width.
func dailyTableKeys(cfg *contract.Config) []schema.MetricKey {
	if GetTerminalWidth(cfg) >= 140 {
		return schema.AllMetricKeys
	}
	return compactDailyKeys
}
