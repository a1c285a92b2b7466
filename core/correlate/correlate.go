// Package correlate ranks same-day and lagged metric pairs by the strength
// of their Pearson correlation.
package correlate

import (
	"math"
	"sort"

	"github.com/hi-wesley/my-healthness-pal-sub000/core/stats"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
)

// Pairwise correlates every unordered metric pair on same-day values.
// Pairs whose series are too sparse or degenerate are dropped, not
// reported as zero. The result is ranked by descending |r|; the sign of
// each r is preserved.
func Pairwise(days []schema.DailyRecord, metrics []schema.MetricKey, params *contract.AnalysisParams) []schema.Correlation {
	return enumerate(days, metrics, 0, params.MinCorrelationDays)
}

// Lagged correlates every unordered metric pair with the second metric
// shifted lag days later: day k of x is paired with day k+lag of y. Both
// orientations of a pair are distinct hypotheses, so unlike Pairwise each
// unordered pair yields up to two entries.
func Lagged(days []schema.DailyRecord, metrics []schema.MetricKey, params *contract.AnalysisParams) []schema.Correlation {
	lag := params.LagDays
	if lag <= 0 {
		lag = contract.DefaultLagDays
	}
	return enumerate(days, metrics, lag, params.MinCorrelationDays)
}

// enumerate walks the metric pairs at the given lag. A lag of zero means
// same-day pairing, where (x, y) and (y, x) are the same correlation and
// only one orientation is emitted.
func enumerate(days []schema.DailyRecord, metrics []schema.MetricKey, lag, minSamples int) []schema.Correlation {
	series := make(map[schema.MetricKey][]*float64, len(metrics))
	for _, m := range metrics {
		series[m] = schema.MetricSeries(days, m)
	}

	var out []schema.Correlation
	for i, x := range metrics {
		for j, y := range metrics {
			if i >= j {
				continue
			}
			if c, ok := correlateAt(series[x], series[y], x, y, lag, minSamples); ok {
				out = append(out, c)
			}
			if lag > 0 {
				if c, ok := correlateAt(series[y], series[x], y, x, lag, minSamples); ok {
					out = append(out, c)
				}
			}
		}
	}

	rank(out)
	return out
}

// correlateAt pairs day k of xs with day k+lag of ys, skipping any pairing
// where either side is missing, and correlates the surviving pairs.
func correlateAt(xs, ys []*float64, metricX, metricY schema.MetricKey, lag, minSamples int) (schema.Correlation, bool) {
	var px, py []float64
	for k := range xs {
		if k+lag >= len(ys) {
			break
		}
		x, y := xs[k], ys[k+lag]
		if x == nil || y == nil {
			continue
		}
		px = append(px, *x)
		py = append(py, *y)
	}

	if len(px) < minSamples {
		return schema.Correlation{}, false
	}
	r, ok := stats.Pearson(px, py)
	if !ok {
		return schema.Correlation{}, false
	}

	return schema.Correlation{
		MetricX: metricX,
		MetricY: metricY,
		LagDays: lag,
		R:       r,
		Samples: len(px),
	}, true
}

// rank orders correlations by descending magnitude; ties break on the
// metric pair names so output is deterministic.
func rank(cs []schema.Correlation) {
	sort.SliceStable(cs, func(i, j int) bool {
		ai, aj := math.Abs(cs[i].R), math.Abs(cs[j].R)
		if ai != aj {
			return ai > aj
		}
		if cs[i].MetricX != cs[j].MetricX {
			return cs[i].MetricX < cs[j].MetricX
		}
		return cs[i].MetricY < cs[j].MetricY
	})
}
