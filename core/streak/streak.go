// Package streak finds runs of consecutive days elevated above a robust
// whole-series threshold.
package streak

import (
	"github.com/hi-wesley/my-healthness-pal-sub000/core/stats"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
)

// Runs finds every maximal run of consecutive true values. Indices are
// inclusive on both ends.
func Runs(flags []bool) []schema.Streak {
	var runs []schema.Streak
	start := -1

	for i, on := range flags {
		if on {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, schema.Streak{Start: start, End: i - 1, Len: i - start})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, schema.Streak{Start: start, End: len(flags) - 1, Len: len(flags) - start})
	}
	return runs
}

// Detect thresholds one metric against its own whole-series robust baseline
// and reports the qualifying elevated runs.
//
// The threshold is median + elevationSD * robustSD, where robustSD is
// MAD-based and falls back to the population SD for series whose MAD
// degenerates to zero. When both estimators degenerate, or the series has
// fewer than minPoints finite samples, no threshold exists and no streaks
// are reported. Days without data are never elevated, so a gap always
// terminates a run.
func Detect(days []schema.DailyRecord, metric schema.MetricKey, params *contract.AnalysisParams) schema.StreakResult {
	result := schema.StreakResult{Metric: metric}

	series := schema.MetricSeries(days, metric)
	finite := stats.Finite(series)
	if len(finite) < params.BaselineMinPoints {
		return result
	}

	median, _ := stats.Median(finite)
	robustSD, ok := stats.RobustStdDev(finite)
	if !ok {
		// MAD degenerated (half the samples share the median value);
		// fall back to the population SD before giving up.
		sd, _ := stats.StdDev(finite)
		if sd <= 0 {
			return result
		}
		robustSD = sd
	}

	result.BaselineMedian = median
	result.RobustSD = robustSD
	result.Threshold = median + params.ElevationSD*robustSD
	result.HasThreshold = true

	elevated := make([]bool, len(series))
	for i, v := range series {
		elevated[i] = v != nil && *v >= result.Threshold
	}

	for _, run := range Runs(elevated) {
		if run.Len >= params.StreakDays {
			result.Qualifying = append(result.Qualifying, run)
		}
	}
	return result
}
