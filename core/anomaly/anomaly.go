// Package anomaly flags days that deviate from their own trailing baseline.
package anomaly

import (
	"math"

	"github.com/hi-wesley/my-healthness-pal-sub000/core/stats"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
)

// Rolling computes the trailing baseline for each day index over one metric
// series. The window for index i is [max(0, i-lookback), i): strictly
// before the current day, so a day is always judged against history it is
// not part of. A window with fewer than minPoints finite samples yields a
// nil baseline for that index.
func Rolling(series []*float64, lookback, minPoints int) schema.RollingStats {
	rs := schema.RollingStats{
		Means: make([]*float64, len(series)),
		SDs:   make([]*float64, len(series)),
	}

	for i := range series {
		lo := i - lookback
		if lo < 0 {
			lo = 0
		}
		window := stats.Finite(series[lo:i])
		if len(window) < minPoints {
			continue
		}

		mean, _ := stats.Mean(window)
		sd, _ := stats.StdDev(window)
		rs.Means[i] = &mean
		rs.SDs[i] = &sd
	}

	return rs
}

// Detect runs the rolling z-score rule for one metric across the series.
// A day is flagged when it has a value, its baseline exists, the baseline
// SD is nonzero, and |value-mean|/sd meets the threshold. A flat baseline
// (sd == 0) never flags, no matter how far the value sits from the mean.
func Detect(days []schema.DailyRecord, metric schema.MetricKey, params *contract.AnalysisParams) schema.AnomalyResult {
	series := schema.MetricSeries(days, metric)
	rolling := Rolling(series, params.BaselineLookbackDays, params.BaselineMinPoints)

	result := schema.AnomalyResult{
		Metric:  metric,
		Indices: make(map[int]struct{}),
		Stats:   rolling,
	}

	for i, v := range series {
		if v == nil || rolling.Means[i] == nil || rolling.SDs[i] == nil {
			continue
		}
		mean, sd := *rolling.Means[i], *rolling.SDs[i]
		if sd == 0 {
			continue
		}
		z := (*v - mean) / sd
		if math.Abs(z) < params.ZScoreThreshold {
			continue
		}

		result.Indices[i] = struct{}{}
		result.Points = append(result.Points, schema.AnomalyPoint{
			Index:  i,
			DayKey: days[i].DayKey,
			Value:  *v,
			Mean:   mean,
			SD:     sd,
			ZScore: z,
		})
	}

	return result
}

// DetectAll runs Detect over every metric with at least one flagged day,
// preserving schema.AllMetricKeys order.
func DetectAll(days []schema.DailyRecord, params *contract.AnalysisParams) []schema.AnomalyResult {
	var results []schema.AnomalyResult
	for _, metric := range schema.AllMetricKeys {
		res := Detect(days, metric, params)
		if len(res.Points) > 0 {
			results = append(results, res)
		}
	}
	return results
}
