package schema

import "time"

// AnalysisRunRecord represents a row from the healthness_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID    int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalDays     int32
	ConfigParams  *string
}

// DayMetricRecord represents a row from the healthness_day_metrics table:
// one metric value for one day of one analysis run. Days with no value for
// a metric get no row, which keeps the nil-vs-zero distinction intact.
type DayMetricRecord struct {
	AnalysisID   int64
	DayKey       string
	Metric       string
	Value        float64
	AnalysisTime time.Time
}

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalDayRows  int              `json:"total_day_rows"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
