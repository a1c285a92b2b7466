// Package parquet provides data structures and functions for exporting
// health analysis history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents one tracked analysis run with metadata.
// This struct maps to the healthness_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalDays is the number of calendar days in the analyzed series
	TotalDays int32 `parquet:"total_days,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// DayMetric represents one stored metric value for one day of one run.
// This struct maps to the healthness_day_metrics database table.
type DayMetric struct {
	// AnalysisID references the parent analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// DayKey is the local calendar day in YYYY-MM-DD form
	DayKey string `parquet:"day_key,snappy"`

	// Metric is the daily metric key, e.g. sleep_hours or rhr_bpm
	Metric string `parquet:"metric,snappy"`

	// Value is the metric's aggregated value for the day
	Value float64 `parquet:"metric_value,snappy"`

	// AnalysisTime is when this day was recorded (stored as TIMESTAMP with nanosecond precision)
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AnalysisRun struct tags
	writer := parquet.NewGenericWriter[AnalysisRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteDayMetricsParquet writes a slice of DayMetric structs to a Parquet file.
func WriteDayMetricsParquet(data []DayMetric, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the DayMetric struct tags
	writer := parquet.NewGenericWriter[DayMetric](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:    record.AnalysisID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalDays:     record.TotalDays,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertDayMetricRecords converts schema.DayMetricRecord to DayMetric for Parquet export.
func ConvertDayMetricRecords(records []schema.DayMetricRecord) []DayMetric {
	result := make([]DayMetric, len(records))
	for i, record := range records {
		result[i] = DayMetric{
			AnalysisID:   record.AnalysisID,
			DayKey:       record.DayKey,
			Metric:       record.Metric,
			Value:        record.Value,
			AnalysisTime: record.AnalysisTime,
		}
	}
	return result
}
