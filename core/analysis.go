// Package core runs the full analysis pass: normalize, aggregate, and the
// three statistical engines, in a fixed order.
package core

import (
	"fmt"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/core/agg"
	"github.com/hi-wesley/my-healthness-pal-sub000/core/anomaly"
	"github.com/hi-wesley/my-healthness-pal-sub000/core/correlate"
	"github.com/hi-wesley/my-healthness-pal-sub000/core/normalize"
	"github.com/hi-wesley/my-healthness-pal-sub000/core/streak"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
)

// Analyzer wires the pass together. Scorer is optional; when present it is
// invoked once per day after aggregation and its labels are surfaced as
// warnings. The core never inspects how the score is produced.
type Analyzer struct {
	Locations *contract.LocationCache
	Scorer    contract.StressScorer
}

// NewAnalyzer creates an Analyzer with a location cache falling back to the
// configured zone.
func NewAnalyzer(cfg *contract.Config) *Analyzer {
	return &Analyzer{Locations: contract.NewLocationCache(cfg.TimeZone)}
}

// Run executes one complete analysis pass over a raw JSON payload.
//
// Validation is all-or-nothing: any invalid record aborts the pass before
// aggregation, so a partially-broken export can never produce quietly
// skewed statistics. History tracking failures are warnings, never errors.
func (a *Analyzer) Run(cfg *contract.Config, payload []byte, mgr contract.HistoryManager) (*schema.AnalysisOutput, error) {
	// --- 0. Begin analysis tracking (if configured) ---
	var analysisID int64
	var store contract.HistoryStore
	if mgr != nil {
		store = mgr.GetHistoryStore()
	}
	if store != nil {
		startTime := time.Now()
		configParams := map[string]any{
			"tz":            cfg.TimeZone,
			"lookback_days": cfg.Params.BaselineLookbackDays,
			"z_threshold":   cfg.Params.ZScoreThreshold,
			"elevation_sd":  cfg.Params.ElevationSD,
			"streak_days":   cfg.Params.StreakDays,
			"metric":        string(cfg.Metric),
		}
		var err error
		analysisID, err = store.BeginAnalysis(startTime, configParams)
		if err != nil {
			contract.LogWarn("History tracking initialization failed", err)
			analysisID = 0
		}
	}

	// --- 1. Parse and normalize ---
	user, raw, err := normalize.ParsePayload(payload)
	if err != nil {
		return nil, err
	}
	norm := normalize.Normalize(raw)
	if len(norm.Errors) > 0 {
		return nil, validationError(norm.Errors)
	}

	// --- 2. Aggregate into the daily series ---
	tz := resolveTimeZone(user.TZ, cfg.TimeZone)
	series := agg.New(a.Locations).Aggregate(norm.Records, tz)

	output := &schema.AnalysisOutput{
		User:     user,
		Series:   series,
		Sources:  norm.Sources,
		Warnings: norm.Warnings,
	}

	// --- 3. Statistical engines ---
	output.Anomalies = anomaly.DetectAll(series.Days, &cfg.Params)
	output.Streaks = streak.Detect(series.Days, cfg.Metric, &cfg.Params)
	output.Correlations = correlate.Pairwise(series.Days, cfg.Metrics, &cfg.Params)
	output.Lagged = correlate.Lagged(series.Days, cfg.Metrics, &cfg.Params)

	// --- 4. External stress scoring hook ---
	if a.Scorer != nil {
		applyStressScores(output, a.Scorer, &cfg.Params)
	}

	// --- 5. Record and end analysis tracking ---
	if store != nil && analysisID > 0 {
		for i := range series.Days {
			if err := store.RecordDayMetrics(analysisID, &series.Days[i]); err != nil {
				contract.LogWarn(fmt.Sprintf("History tracking failed for %s", series.Days[i].DayKey), err)
			}
		}
		if err := store.EndAnalysis(analysisID, time.Now(), len(series.Days)); err != nil {
			contract.LogWarn("Failed to finalize history tracking", err)
		}
	}

	return output, nil
}

// resolveTimeZone prefers the payload's own zone over the configured
// fallback. An invalid payload zone is handled later by the location cache.
func resolveTimeZone(payloadTZ, configTZ string) string {
	if payloadTZ != "" {
		return payloadTZ
	}
	return configTZ
}

// validationError folds all per-record errors into one failure so the
// caller sees every problem in a single pass.
func validationError(errs []string) error {
	msg := fmt.Sprintf("%d invalid record(s); no analysis performed", len(errs))
	for _, e := range errs {
		msg += "\n  " + e
	}
	return fmt.Errorf("%s", msg)
}

// applyStressScores runs the opaque scorer over every day and appends its
// labels as warnings.
func applyStressScores(output *schema.AnalysisOutput, scorer contract.StressScorer, params *contract.AnalysisParams) {
	dayByKey := output.Series.DayByKey()
	for i := range output.Series.Days {
		key := output.Series.Days[i].DayKey
		if _, label := scorer(dayByKey, key, params); label != nil {
			output.Warnings = append(output.Warnings, fmt.Sprintf("%s: %s", key, *label))
		}
	}
}
