package streak

import (
	"fmt"
	"testing"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams() *contract.AnalysisParams {
	p := &contract.AnalysisParams{}
	return p.Normalize()
}

func sugarDays(values []*float64) []schema.DailyRecord {
	days := make([]schema.DailyRecord, len(values))
	for i, v := range values {
		days[i] = schema.DailyRecord{
			DayKey: fmt.Sprintf("2024-01-%02d", i+1),
			SugarG: v,
		}
	}
	return days
}

func ptr(v float64) *float64 { return &v }

func TestRuns(t *testing.T) {
	tests := []struct {
		name  string
		flags []bool
		want  []schema.Streak
	}{
		{"empty", nil, nil},
		{"none set", []bool{false, false}, nil},
		{"single run", []bool{false, true, true, false}, []schema.Streak{{Start: 1, End: 2, Len: 2}}},
		{"run at end", []bool{false, true, true}, []schema.Streak{{Start: 1, End: 2, Len: 2}}},
		{"all set", []bool{true, true, true}, []schema.Streak{{Start: 0, End: 2, Len: 3}}},
		{"two runs", []bool{true, false, true, true}, []schema.Streak{{Start: 0, End: 0, Len: 1}, {Start: 2, End: 3, Len: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Runs(tt.flags))
		})
	}
}

func TestDetectFindsElevatedStreak(t *testing.T) {
	// Baseline around 20g with a three-day sugar binge.
	values := []*float64{
		ptr(20), ptr(22), ptr(18), ptr(21), ptr(19), ptr(20),
		ptr(60), ptr(65), ptr(70),
		ptr(20), ptr(21),
	}
	res := Detect(sugarDays(values), schema.MetricSugarG, defaultParams())

	require.True(t, res.HasThreshold)
	require.Len(t, res.Qualifying, 1)
	assert.Equal(t, schema.Streak{Start: 6, End: 8, Len: 3}, res.Qualifying[0])
}

func TestDetectShortRunDoesNotQualify(t *testing.T) {
	values := []*float64{
		ptr(20), ptr(22), ptr(18), ptr(21), ptr(19), ptr(20),
		ptr(60), ptr(65),
		ptr(20), ptr(21),
	}
	res := Detect(sugarDays(values), schema.MetricSugarG, defaultParams())

	assert.True(t, res.HasThreshold)
	assert.Empty(t, res.Qualifying)
}

func TestDetectMissingDayTerminatesRun(t *testing.T) {
	// Elevated, elevated, gap, elevated, elevated: two runs of 2, neither
	// qualifying even though 4 of 5 days are elevated.
	values := []*float64{
		ptr(20), ptr(22), ptr(18), ptr(21), ptr(19), ptr(20),
		ptr(60), ptr(65), nil, ptr(70), ptr(62),
	}
	res := Detect(sugarDays(values), schema.MetricSugarG, defaultParams())

	require.True(t, res.HasThreshold)
	assert.Empty(t, res.Qualifying)
}

func TestDetectTooFewSamples(t *testing.T) {
	values := []*float64{ptr(20), ptr(60), ptr(60), ptr(60)}
	res := Detect(sugarDays(values), schema.MetricSugarG, defaultParams())

	assert.False(t, res.HasThreshold)
	assert.Empty(t, res.Qualifying)
}

func TestDetectConstantSeriesHasNoThreshold(t *testing.T) {
	values := []*float64{ptr(20), ptr(20), ptr(20), ptr(20), ptr(20), ptr(20)}
	res := Detect(sugarDays(values), schema.MetricSugarG, defaultParams())

	assert.False(t, res.HasThreshold)
	assert.Empty(t, res.Qualifying)
}

func TestDetectMADZeroFallsBackToStdDev(t *testing.T) {
	// More than half the samples share one value, so the MAD is zero, but
	// the spread is real; the population SD must take over.
	values := []*float64{
		ptr(20), ptr(20), ptr(20), ptr(20), ptr(20), ptr(20), ptr(20),
		ptr(80), ptr(80), ptr(80),
	}
	res := Detect(sugarDays(values), schema.MetricSugarG, defaultParams())

	require.True(t, res.HasThreshold)
	assert.Greater(t, res.RobustSD, 0.0)
	require.Len(t, res.Qualifying, 1)
	assert.Equal(t, schema.Streak{Start: 7, End: 9, Len: 3}, res.Qualifying[0])
}

func TestDetectThresholdUsesMedianNotMean(t *testing.T) {
	// One absurd outlier would wreck a mean-based threshold; the median
	// keeps the baseline grounded.
	values := []*float64{
		ptr(20), ptr(22), ptr(18), ptr(21), ptr(19), ptr(1000),
		ptr(60), ptr(65), ptr(70),
	}
	res := Detect(sugarDays(values), schema.MetricSugarG, defaultParams())

	require.True(t, res.HasThreshold)
	assert.InDelta(t, 22.0, res.BaselineMedian, 1e-9)
	require.Len(t, res.Qualifying, 1)
}
