// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
)

// HistoryStore defines the interface for tracking analysis runs and storing
// per-day metric rows. This allows the store layer to be mocked for testing.
type HistoryStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalDays int) error

	// RecordDayMetrics stores one aggregated day as metric rows.
	// Metrics with no value for the day are skipped, not stored as zero.
	RecordDayMetrics(analysisID int64, day *schema.DailyRecord) error

	// GetAllAnalysisRuns retrieves every tracked run, oldest first
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllDayMetrics retrieves every stored day metric row
	GetAllDayMetrics() ([]schema.DayMetricRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Clear removes all tracked data
	Clear() error

	// Close closes the underlying connection
	Close() error
}

// HistoryManager defines the interface for accessing the history store.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// StressScorer is the opaque external stress-scoring capability. The core
// never implements or inspects it; callers that have one pass it in and the
// orchestrator invokes it per day key.
type StressScorer func(dayByKey map[string]*schema.DailyRecord, dayKey string, params *AnalysisParams) (score *float64, label *string)
