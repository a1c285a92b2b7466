package contract

import (
	"testing"

	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
	"github.com/stretchr/testify/assert"
)

// validInput returns a raw input that passes validation, for tests to
// break one field at a time.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:          10,
		Precision:      1,
		Output:         "text",
		Emoji:          "yes",
		Color:          "no",
		Metric:         string(schema.MetricRHRBpm),
		HistoryBackend: string(schema.NoneBackend),
		InputPathStr:   "export.json",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:        "valid minimal config",
			mutate:      func(_ *ConfigRawInput) {},
			expectError: false,
		},
		{
			name:        "invalid limit (zero)",
			mutate:      func(in *ConfigRawInput) { in.Limit = 0 },
			expectError: true,
		},
		{
			name:        "invalid limit (negative)",
			mutate:      func(in *ConfigRawInput) { in.Limit = -1 },
			expectError: true,
		},
		{
			name:        "invalid limit (too large)",
			mutate:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: true,
		},
		{
			name:        "invalid precision (zero)",
			mutate:      func(in *ConfigRawInput) { in.Precision = 0 },
			expectError: true,
		},
		{
			name:        "invalid precision (too high)",
			mutate:      func(in *ConfigRawInput) { in.Precision = 3 },
			expectError: true,
		},
		{
			name:        "invalid output format",
			mutate:      func(in *ConfigRawInput) { in.Output = "invalid_format" },
			expectError: true,
		},
		{
			name:        "parquet output accepted",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: false,
		},
		{
			name:        "invalid emoji flag",
			mutate:      func(in *ConfigRawInput) { in.Emoji = "maybe" },
			expectError: true,
		},
		{
			name:        "invalid history backend",
			mutate:      func(in *ConfigRawInput) { in.HistoryBackend = "invalid_backend" },
			expectError: true,
		},
		{
			name: "mysql backend without connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = string(schema.MySQLBackend)
			},
			expectError: true,
		},
		{
			name: "mysql backend with connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = string(schema.MySQLBackend)
				in.HistoryDBConnect = "user:pass@tcp(localhost:3306)/healthness"
			},
			expectError: false,
		},
		{
			name: "postgresql backend without connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = string(schema.PostgreSQLBackend)
			},
			expectError: true,
		},
		{
			name: "postgresql backend with connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = string(schema.PostgreSQLBackend)
				in.HistoryDBConnect = "host=localhost port=5432 user=postgres dbname=healthness"
			},
			expectError: false,
		},
		{
			name:        "unknown focus metric",
			mutate:      func(in *ConfigRawInput) { in.Metric = "mood_score" },
			expectError: true,
		},
		{
			name:        "unknown metric in metrics list",
			mutate:      func(in *ConfigRawInput) { in.Metrics = "sleep_hours,mood_score" },
			expectError: true,
		},
		{
			name:        "metrics list with one key",
			mutate:      func(in *ConfigRawInput) { in.Metrics = "sleep_hours" },
			expectError: true,
		},
		{
			name:        "negative lag days",
			mutate:      func(in *ConfigRawInput) { in.LagDays = -1 },
			expectError: true,
		},
		{
			name:        "negative z threshold",
			mutate:      func(in *ConfigRawInput) { in.ZThreshold = -0.5 },
			expectError: true,
		},
		{
			name:        "negative insight days",
			mutate:      func(in *ConfigRawInput) { in.InsightDays = -1 },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)

			if tt.expectError {
				assert.Error(t, err, "contract.ProcessAndValidate should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "contract.ProcessAndValidate should not return an error for %s", tt.name)
				assert.Equal(t, input.Limit, cfg.ResultLimit)
				assert.Equal(t, input.InputPathStr, cfg.InputPath)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	err := ProcessAndValidate(cfg, validInput())
	assert.NoError(t, err)

	// Unset thresholds are filled from defaults
	assert.Equal(t, DefaultBaselineLookbackDays, cfg.Params.BaselineLookbackDays)
	assert.Equal(t, DefaultBaselineMinPoints, cfg.Params.BaselineMinPoints)
	assert.Equal(t, DefaultZScoreThreshold, cfg.Params.ZScoreThreshold)
	assert.Equal(t, DefaultElevationSD, cfg.Params.ElevationSD)
	assert.Equal(t, DefaultStreakDays, cfg.Params.StreakDays)
	assert.Equal(t, DefaultMinCorrelationDays, cfg.Params.MinCorrelationDays)

	// Empty metrics list falls back to the default correlation set
	assert.Equal(t, schema.DefaultCorrelationKeys, cfg.Metrics)

	// Empty timezone falls back to UTC
	assert.Equal(t, DefaultTimeZone, cfg.TimeZone)
}

func TestProcessAndValidateMetricsParsing(t *testing.T) {
	input := validInput()
	input.Metrics = " Sleep_Hours , sugar_g ,rhr_bpm, "

	cfg := &Config{}
	err := ProcessAndValidate(cfg, input)
	assert.NoError(t, err)
	assert.Equal(t, []schema.MetricKey{
		schema.MetricSleepHours,
		schema.MetricSugarG,
		schema.MetricRHRBpm,
	}, cfg.Metrics)
}

func TestProcessAndValidateTimeZoneFallback(t *testing.T) {
	input := validInput()
	input.TZ = "Mars/Olympus_Mons"

	cfg := &Config{}
	err := ProcessAndValidate(cfg, input)
	// Invalid zones degrade to the default with a warning, never an error
	assert.NoError(t, err)
	assert.Equal(t, DefaultTimeZone, cfg.TimeZone)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		InputPath: "export.json",
		Metric:    schema.MetricSugarG,
		Metrics:   []schema.MetricKey{schema.MetricSleepHours, schema.MetricRHRBpm},
	}

	clone := cfg.Clone()
	clone.Metric = schema.MetricSteps
	clone.Metrics[0] = schema.MetricCalories

	assert.Equal(t, schema.MetricSugarG, cfg.Metric)
	assert.Equal(t, schema.MetricSleepHours, cfg.Metrics[0])
}
