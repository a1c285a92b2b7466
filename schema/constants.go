package schema

// Custom string types for type safety.
type (
	// MetricKey identifies one daily metric column.
	MetricKey string

	// RecordType represents the open type tag on an incoming record.
	RecordType string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for history tracking.
	DatabaseBackend string
)

// Record types recognized by the daily aggregator. Unknown types are
// accepted by the normalizer and ignored here.
const (
	SleepSessionRecord     RecordType = "sleep_session"
	NutritionRecord        RecordType = "nutrition"
	StepsRecord            RecordType = "steps"
	WorkoutRecord          RecordType = "workout"
	RestingHeartRateRecord RecordType = "resting_heart_rate"
	WeightRecord           RecordType = "weight"
	BloodPressureRecord    RecordType = "blood_pressure"
)

// All daily metric keys.
const (
	MetricSleepHours      MetricKey = "sleep_hours"
	MetricSleepQuality    MetricKey = "sleep_quality"
	MetricCalories        MetricKey = "calories"
	MetricCarbsG          MetricKey = "carbs_g"
	MetricProteinG        MetricKey = "protein_g"
	MetricFatG            MetricKey = "fat_g"
	MetricSugarG          MetricKey = "sugar_g"
	MetricSteps           MetricKey = "steps"
	MetricWorkoutMinutes  MetricKey = "workout_minutes"
	MetricWorkoutCalories MetricKey = "workout_calories"
	MetricWorkoutLoad     MetricKey = "workout_load"
	MetricRHRBpm          MetricKey = "rhr_bpm"
	MetricWeightKg        MetricKey = "weight_kg"
	MetricBPSystolic      MetricKey = "bp_systolic"
	MetricBPDiastolic     MetricKey = "bp_diastolic"
)

// AllMetricKeys lists every daily metric in display order.
var AllMetricKeys = []MetricKey{
	MetricSleepHours,
	MetricSleepQuality,
	MetricCalories,
	MetricCarbsG,
	MetricProteinG,
	MetricFatG,
	MetricSugarG,
	MetricSteps,
	MetricWorkoutMinutes,
	MetricWorkoutCalories,
	MetricWorkoutLoad,
	MetricRHRBpm,
	MetricWeightKg,
	MetricBPSystolic,
	MetricBPDiastolic,
}

// DefaultCorrelationKeys is the metric set enumerated by the correlation
// engine when the caller does not narrow it down.
var DefaultCorrelationKeys = []MetricKey{
	MetricSleepHours,
	MetricSleepQuality,
	MetricSugarG,
	MetricCalories,
	MetricSteps,
	MetricWorkoutLoad,
	MetricRHRBpm,
	MetricWeightKg,
}

// ValidMetricKeys is a lookup set for metric key validation.
var ValidMetricKeys = func() map[MetricKey]struct{} {
	m := make(map[MetricKey]struct{}, len(AllMetricKeys))
	for _, k := range AllMetricKeys {
		m[k] = struct{}{}
	}
	return m
}()

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// ValidOutputModes is a lookup set for output mode validation.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDatabaseBackends is a lookup set for backend validation.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Workout intensity factors for the daily load metric.
// Load for one workout is duration_minutes * factor, summed per day.
const (
	IntensityFactorHard     = 1.35
	IntensityFactorEasy     = 0.8
	IntensityFactorModerate = 1.0 // also the default for unknown intensities
)

// UnknownSource is the source label assigned to records that arrive with
// an absent or empty source string.
const UnknownSource = "Unknown"
