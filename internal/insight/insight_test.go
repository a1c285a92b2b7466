package insight

import (
	"encoding/json"
	"testing"

	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func sampleSeries() *schema.DailySeries {
	return &schema.DailySeries{
		Days: []schema.DailyRecord{
			{DayKey: "2024-01-01", SleepHours: fptr(7.5), Steps: fptr(9000)},
			{DayKey: "2024-01-02"},
			{DayKey: "2024-01-03", SleepHours: fptr(6.0), RHRBpm: fptr(55),
				SleepSessions: []schema.SleepSessionDetail{{Minutes: 360}}},
		},
		MinDayKey: "2024-01-01",
		MaxDayKey: "2024-01-03",
	}
}

func TestBuildPayloadKeepsMostRecentDays(t *testing.T) {
	series := sampleSeries()

	payload := BuildPayload(series, 2)
	require.Len(t, payload, 2)
	assert.Equal(t, "2024-01-02", payload[0].Day)
	assert.Equal(t, "2024-01-03", payload[1].Day)
}

func TestBuildPayloadZeroMeansAll(t *testing.T) {
	series := sampleSeries()

	assert.Len(t, BuildPayload(series, 0), 3)
	assert.Len(t, BuildPayload(series, 10), 3)
}

func TestBuildPayloadPreservesNils(t *testing.T) {
	payload := BuildPayload(sampleSeries(), 0)

	// The gap day stays all-nil; nulls must survive into the JSON so the
	// model never mistakes missing data for zero.
	data, err := json.Marshal(payload[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sleep_hours":null`)
	assert.Contains(t, string(data), `"steps":null`)
}

func TestBuildPayloadExcludesDetail(t *testing.T) {
	payload := BuildPayload(sampleSeries(), 0)

	// Day 3 carries a sleep session detail in the series; the insight
	// schema is strictly numeric and must not leak it.
	data, err := json.Marshal(payload[2])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sleep_sessions")
	assert.Contains(t, string(data), `"sleep_hours":6`)
}

func TestCacheKeyStability(t *testing.T) {
	a := cacheKey("claude-sonnet-4-5", []byte(`[{"day":"2024-01-01"}]`))
	b := cacheKey("claude-sonnet-4-5", []byte(`[{"day":"2024-01-01"}]`))
	assert.Equal(t, a, b)

	c := cacheKey("claude-sonnet-4-5", []byte(`[{"day":"2024-01-02"}]`))
	assert.NotEqual(t, a, c)

	d := cacheKey("claude-haiku-4-5", []byte(`[{"day":"2024-01-01"}]`))
	assert.NotEqual(t, a, d)
}

func TestRelayCacheRoundTrip(t *testing.T) {
	r := &Relay{model: "claude-sonnet-4-5", cacheDir: t.TempDir()}

	key := cacheKey(r.model, []byte(`payload`))
	_, ok := r.readCache(key)
	assert.False(t, ok)

	r.writeCache(key, "Sleep trended down across the week.")

	text, ok := r.readCache(key)
	require.True(t, ok)
	assert.Equal(t, "Sleep trended down across the week.", text)
}
