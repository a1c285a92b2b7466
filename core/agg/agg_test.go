package agg

import (
	"testing"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregator() *Aggregator {
	return New(contract.NewLocationCache(contract.DefaultTimeZone))
}

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func rec(typ schema.RecordType, timestamp string, data map[string]any) schema.NormalizedRecord {
	return schema.NormalizedRecord{Type: typ, Data: data, Source: "test", Timestamp: ts(timestamp)}
}

func spanRec(typ schema.RecordType, start, end string, data map[string]any) schema.NormalizedRecord {
	return schema.NormalizedRecord{Type: typ, Data: data, Source: "test", Start: ts(start), End: ts(end)}
}

func TestAggregateEmpty(t *testing.T) {
	series := newAggregator().Aggregate(nil, "UTC")

	assert.Empty(t, series.Days)
	assert.Empty(t, series.MinDayKey)
	assert.Empty(t, series.MaxDayKey)
}

func TestSleepAttributedToEndDay(t *testing.T) {
	// 23:00 Jan 1 to 06:00 Jan 2: all seven hours land on Jan 2.
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		spanRec(schema.SleepSessionRecord, "2024-01-01T23:00:00Z", "2024-01-02T06:00:00Z", map[string]any{"quality": float64(82)}),
	}, "UTC")

	require.Len(t, series.Days, 1)
	day := series.Days[0]
	assert.Equal(t, "2024-01-02", day.DayKey)
	require.NotNil(t, day.SleepHours)
	assert.InDelta(t, 7.0, *day.SleepHours, 1e-9)
	require.NotNil(t, day.SleepQuality)
	assert.InDelta(t, 82.0, *day.SleepQuality, 1e-9)
	require.Len(t, day.SleepSessions, 1)
	assert.InDelta(t, 420.0, day.SleepSessions[0].Minutes, 1e-9)
}

func TestSleepSessionsSumAndQualityAverages(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		spanRec(schema.SleepSessionRecord, "2024-01-01T23:00:00Z", "2024-01-02T05:00:00Z", map[string]any{"quality": float64(60)}),
		spanRec(schema.SleepSessionRecord, "2024-01-02T13:00:00Z", "2024-01-02T14:00:00Z", map[string]any{"quality": float64(90)}),
	}, "UTC")

	require.Len(t, series.Days, 1)
	day := series.Days[0]
	require.NotNil(t, day.SleepHours)
	assert.InDelta(t, 7.0, *day.SleepHours, 1e-9)
	require.NotNil(t, day.SleepQuality)
	assert.InDelta(t, 75.0, *day.SleepQuality, 1e-9)
	assert.Len(t, day.SleepSessions, 2)
}

func TestTimezoneShiftsDayAttribution(t *testing.T) {
	// 02:00 UTC on Jan 2 is still Jan 1 in Los Angeles.
	records := []schema.NormalizedRecord{
		rec(schema.StepsRecord, "2024-01-02T02:00:00Z", map[string]any{"count": float64(5000)}),
	}

	utc := newAggregator().Aggregate(records, "UTC")
	la := newAggregator().Aggregate(records, "America/Los_Angeles")

	assert.Equal(t, "2024-01-02", utc.Days[0].DayKey)
	assert.Equal(t, "2024-01-01", la.Days[0].DayKey)
}

func TestInvalidTimezoneFallsBack(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec(schema.StepsRecord, "2024-01-02T02:00:00Z", map[string]any{"count": float64(5000)}),
	}, "Mars/Olympus_Mons")

	require.Len(t, series.Days, 1)
	assert.Equal(t, "2024-01-02", series.Days[0].DayKey)
}

func TestNutritionSums(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec(schema.NutritionRecord, "2024-01-01T08:00:00Z", map[string]any{"calories": float64(400), "sugar_g": float64(20), "protein_g": float64(25)}),
		rec(schema.NutritionRecord, "2024-01-01T13:00:00Z", map[string]any{"calories": float64(700), "sugar_g": float64(15), "carbs_g": float64(80)}),
	}, "UTC")

	require.Len(t, series.Days, 1)
	day := series.Days[0]
	require.NotNil(t, day.Calories)
	assert.InDelta(t, 1100.0, *day.Calories, 1e-9)
	require.NotNil(t, day.SugarG)
	assert.InDelta(t, 35.0, *day.SugarG, 1e-9)
	require.NotNil(t, day.ProteinG)
	assert.InDelta(t, 25.0, *day.ProteinG, 1e-9)
	require.NotNil(t, day.CarbsG)
	assert.InDelta(t, 80.0, *day.CarbsG, 1e-9)
	assert.Nil(t, day.FatG)
}

func TestWorkoutLoadUsesIntensityFactors(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec(schema.WorkoutRecord, "2024-01-01T07:00:00Z", map[string]any{"duration_minutes": float64(40), "intensity": "hard", "calories": float64(350), "activity": "Run"}),
		rec(schema.WorkoutRecord, "2024-01-01T18:00:00Z", map[string]any{"duration_minutes": float64(30), "intensity": "easy", "activity": "Walk"}),
		rec(schema.WorkoutRecord, "2024-01-01T20:00:00Z", map[string]any{"duration_minutes": float64(20)}),
	}, "UTC")

	require.Len(t, series.Days, 1)
	day := series.Days[0]
	require.NotNil(t, day.WorkoutMinutes)
	assert.InDelta(t, 90.0, *day.WorkoutMinutes, 1e-9)
	require.NotNil(t, day.WorkoutLoad)
	// 40*1.35 + 30*0.8 + 20*1.0
	assert.InDelta(t, 98.0, *day.WorkoutLoad, 1e-9)
	require.NotNil(t, day.WorkoutCalories)
	assert.InDelta(t, 350.0, *day.WorkoutCalories, 1e-9)

	require.Len(t, day.Activities, 3)
	assert.InDelta(t, 40.0, day.Activities["Run"].Minutes, 1e-9)
	assert.InDelta(t, 350.0, day.Activities["Run"].Calories, 1e-9)
	assert.InDelta(t, 30.0, day.Activities["Walk"].Minutes, 1e-9)
	assert.InDelta(t, 20.0, day.Activities["Workout"].Minutes, 1e-9)
}

func TestRestingHeartRateAverages(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec(schema.RestingHeartRateRecord, "2024-01-01T06:00:00Z", map[string]any{"bpm": float64(52)}),
		rec(schema.RestingHeartRateRecord, "2024-01-01T22:00:00Z", map[string]any{"bpm": float64(58)}),
	}, "UTC")

	require.Len(t, series.Days, 1)
	require.NotNil(t, series.Days[0].RHRBpm)
	assert.InDelta(t, 55.0, *series.Days[0].RHRBpm, 1e-9)
}

func TestWeightLatestSampleWins(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec(schema.WeightRecord, "2024-01-01T18:00:00Z", map[string]any{"kg": float64(71)}),
		rec(schema.WeightRecord, "2024-01-01T09:00:00Z", map[string]any{"kg": float64(70)}),
	}, "UTC")

	require.Len(t, series.Days, 1)
	require.NotNil(t, series.Days[0].WeightKg)
	assert.InDelta(t, 71.0, *series.Days[0].WeightKg, 1e-9)
}

func TestWeightPoundsConverted(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec(schema.WeightRecord, "2024-01-01T09:00:00Z", map[string]any{"lb": float64(154)}),
	}, "UTC")

	require.Len(t, series.Days, 1)
	require.NotNil(t, series.Days[0].WeightKg)
	assert.InDelta(t, 154*PoundsPerKilogram, *series.Days[0].WeightKg, 1e-9)
}

func TestBloodPressureAveragesAndRequiresBothComponents(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec(schema.BloodPressureRecord, "2024-01-01T08:00:00Z", map[string]any{"systolic": float64(120), "diastolic": float64(80)}),
		rec(schema.BloodPressureRecord, "2024-01-01T20:00:00Z", map[string]any{"systolic": float64(130), "diastolic": float64(84)}),
		rec(schema.BloodPressureRecord, "2024-01-01T22:00:00Z", map[string]any{"systolic": float64(200)}),
	}, "UTC")

	require.Len(t, series.Days, 1)
	day := series.Days[0]
	require.NotNil(t, day.BPSystolic)
	assert.InDelta(t, 125.0, *day.BPSystolic, 1e-9)
	require.NotNil(t, day.BPDiastolic)
	assert.InDelta(t, 82.0, *day.BPDiastolic, 1e-9)
}

func TestGapDaysMaterialized(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec(schema.StepsRecord, "2024-01-01T08:00:00Z", map[string]any{"count": float64(4000)}),
		rec(schema.StepsRecord, "2024-01-04T08:00:00Z", map[string]any{"count": float64(9000)}),
	}, "UTC")

	require.Len(t, series.Days, 4)
	assert.Equal(t, "2024-01-01", series.MinDayKey)
	assert.Equal(t, "2024-01-04", series.MaxDayKey)
	assert.Equal(t, "2024-01-02", series.Days[1].DayKey)
	assert.Nil(t, series.Days[1].Steps)
	assert.Equal(t, "2024-01-03", series.Days[2].DayKey)
	assert.Nil(t, series.Days[2].Steps)
	require.NotNil(t, series.Days[3].Steps)
	assert.InDelta(t, 9000.0, *series.Days[3].Steps, 1e-9)
}

func TestZeroSumStaysNil(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec(schema.StepsRecord, "2024-01-01T08:00:00Z", map[string]any{"count": float64(0)}),
	}, "UTC")

	require.Len(t, series.Days, 1)
	assert.Nil(t, series.Days[0].Steps)
}

func TestUnknownRecordTypesIgnored(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec("mindfulness_minutes", "2024-01-01T08:00:00Z", map[string]any{"minutes": float64(10)}),
	}, "UTC")

	assert.Empty(t, series.Days)
}

func TestNumericStringsCoerced(t *testing.T) {
	series := newAggregator().Aggregate([]schema.NormalizedRecord{
		rec(schema.StepsRecord, "2024-01-01T08:00:00Z", map[string]any{"count": "4000"}),
	}, "UTC")

	require.Len(t, series.Days, 1)
	require.NotNil(t, series.Days[0].Steps)
	assert.InDelta(t, 4000.0, *series.Days[0].Steps, 1e-9)
}
