package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultTimeZone    = "UTC"

	DefaultBaselineLookbackDays = 14
	DefaultBaselineMinPoints    = 5
	DefaultZScoreThreshold      = 2.0
	DefaultElevationSD          = 1.5
	DefaultStreakDays           = 3
	DefaultMinCorrelationDays   = 6
	DefaultLagDays              = 1

	DefaultInsightDays  = 30
	DefaultInsightModel = "claude-sonnet-4-5"
)

// AnalysisParams holds the statistical thresholds for one analysis pass.
// Zero-valued fields are filled in by Normalize.
type AnalysisParams struct {
	BaselineLookbackDays int     // trailing window length for rolling baselines
	BaselineMinPoints    int     // minimum finite samples before a baseline exists
	ZScoreThreshold      float64 // |z| at or above this flags an anomaly
	ElevationSD          float64 // robust-SD multiplier for the streak threshold
	StreakDays           int     // minimum run length for a qualifying streak
	MinCorrelationDays   int     // minimum paired samples for a reported correlation
	LagDays              int     // day shift for lagged correlations
}

// Normalize fills unset fields with defaults and returns the receiver.
func (p *AnalysisParams) Normalize() *AnalysisParams {
	if p.BaselineLookbackDays <= 0 {
		p.BaselineLookbackDays = DefaultBaselineLookbackDays
	}
	if p.BaselineMinPoints <= 0 {
		p.BaselineMinPoints = DefaultBaselineMinPoints
	}
	if p.ZScoreThreshold <= 0 {
		p.ZScoreThreshold = DefaultZScoreThreshold
	}
	if p.ElevationSD <= 0 {
		p.ElevationSD = DefaultElevationSD
	}
	if p.StreakDays <= 0 {
		p.StreakDays = DefaultStreakDays
	}
	if p.MinCorrelationDays <= 0 {
		p.MinCorrelationDays = DefaultMinCorrelationDays
	}
	return p
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath string // Path to the records JSON payload
	TimeZone  string // Fallback IANA zone when the payload has none

	Params  AnalysisParams     // Statistical thresholds
	Metric  schema.MetricKey   // Focus metric for anomalies/streaks commands
	Metrics []schema.MetricKey // Metric set for correlation enumeration

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	InsightDays  int    // Day-bounded slice size for the insight payload
	InsightModel string // Anthropic model name for the insight relay
	NoLLM        bool   // Build and print the payload without calling the API

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// Clone returns a copy of the config safe for per-request mutation.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Metrics = append([]schema.MetricKey(nil), c.Metrics...)
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	TZ               string `mapstructure:"tz"`
	Metric           string `mapstructure:"metric"`
	Metrics          string `mapstructure:"metrics"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Analysis thresholds ---
	LookbackDays      int     `mapstructure:"lookback-days"`
	BaselineMinPoints int     `mapstructure:"baseline-min-points"`
	ZThreshold        float64 `mapstructure:"z-threshold"`
	ElevationSD       float64 `mapstructure:"elevation-sd"`
	StreakDays        int     `mapstructure:"streak-days"`
	MinCorrDays       int     `mapstructure:"min-corr-days"`
	LagDays           int     `mapstructure:"lag-days"`

	// --- Fields from insightCmd.Flags() ---
	InsightDays  int    `mapstructure:"insight-days"`
	InsightModel string `mapstructure:"model"`
	NoLLM        bool   `mapstructure:"no-llm"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAnalysisParams(cfg, input); err != nil {
		return err
	}
	if err := processMetrics(cfg, input); err != nil {
		return err
	}
	processTimeZone(cfg, input)
	cfg.InputPath = input.InputPathStr
	return nil
}

// validateSimpleInputs processes and validates all non-metric fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.InsightDays = input.InsightDays
	cfg.InsightModel = input.InsightModel
	cfg.NoLLM = input.NoLLM

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 3. Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	if cfg.InsightDays < 0 {
		return fmt.Errorf("insight-days cannot be negative (received %d)", cfg.InsightDays)
	}

	return nil
}

// processAnalysisParams validates the statistical thresholds.
func processAnalysisParams(cfg *Config, input *ConfigRawInput) error {
	if input.LookbackDays < 0 || input.BaselineMinPoints < 0 || input.StreakDays < 0 || input.MinCorrDays < 0 {
		return fmt.Errorf("analysis thresholds cannot be negative")
	}
	if input.ZThreshold < 0 || input.ElevationSD < 0 {
		return fmt.Errorf("z-threshold and elevation-sd cannot be negative")
	}
	if input.LagDays < 0 {
		return fmt.Errorf("lag-days cannot be negative (received %d)", input.LagDays)
	}

	cfg.Params = AnalysisParams{
		BaselineLookbackDays: input.LookbackDays,
		BaselineMinPoints:    input.BaselineMinPoints,
		ZScoreThreshold:      input.ZThreshold,
		ElevationSD:          input.ElevationSD,
		StreakDays:           input.StreakDays,
		MinCorrelationDays:   input.MinCorrDays,
		LagDays:              input.LagDays,
	}
	cfg.Params.Normalize()
	return nil
}

// processMetrics validates the focus metric and the correlation metric set.
func processMetrics(cfg *Config, input *ConfigRawInput) error {
	cfg.Metric = schema.MetricKey(strings.ToLower(strings.TrimSpace(input.Metric)))
	if cfg.Metric == "" {
		cfg.Metric = schema.MetricRHRBpm
	}
	if _, ok := schema.ValidMetricKeys[cfg.Metric]; !ok {
		return fmt.Errorf("unknown metric '%s'", input.Metric)
	}

	if strings.TrimSpace(input.Metrics) == "" {
		cfg.Metrics = schema.DefaultCorrelationKeys
		return nil
	}

	keys := make([]schema.MetricKey, 0)
	for part := range strings.SplitSeq(input.Metrics, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		key := schema.MetricKey(strings.ToLower(trimmed))
		if _, ok := schema.ValidMetricKeys[key]; !ok {
			return fmt.Errorf("unknown metric '%s' in --metrics", trimmed)
		}
		keys = append(keys, key)
	}
	if len(keys) < 2 {
		return fmt.Errorf("--metrics needs at least 2 metric keys (received %d)", len(keys))
	}
	cfg.Metrics = keys
	return nil
}

// processTimeZone resolves the fallback zone. Timezone problems are never
// fatal; an unloadable zone degrades to the process default with a warning.
func processTimeZone(cfg *Config, input *ConfigRawInput) {
	tz := strings.TrimSpace(input.TZ)
	if tz == "" {
		cfg.TimeZone = DefaultTimeZone
		return
	}
	if !IsValidTimeZone(tz) {
		LogWarn(fmt.Sprintf("Invalid timezone '%s', falling back to %s", tz, DefaultTimeZone), nil)
		cfg.TimeZone = DefaultTimeZone
		return
	}
	cfg.TimeZone = tz
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".healthness_history.db"
	}
	return filepath.Join(homeDir, ".healthness_history.db")
}

// GetInsightCacheDir returns the directory for cached LLM insight responses.
func GetInsightCacheDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".healthness_insights"
	}
	return filepath.Join(homeDir, ".healthness_insights")
}
