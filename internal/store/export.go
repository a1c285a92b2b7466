package store

import (
	"errors"
	"fmt"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of history data to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the history store
	historyStore := Manager.GetHistoryStore()
	if historyStore == nil {
		return errors.New("history tracking is not initialized")
	}

	// Check if there's any data to export
	status, err := historyStore.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total day metric rows: %d\n", status.TotalDayRows)

	// Retrieve all analysis runs
	analysisRuns, err := historyStore.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}

	// Retrieve all day metric rows
	dayMetrics, err := historyStore.GetAllDayMetrics()
	if err != nil {
		return fmt.Errorf("failed to retrieve day metrics: %w", err)
	}

	// Convert to Parquet format
	parquetAnalysisRuns := parquet.ConvertAnalysisRunRecords(analysisRuns)
	parquetDayMetrics := parquet.ConvertDayMetricRecords(dayMetrics)

	// Write analysis runs to Parquet
	analysisRunsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetAnalysisRuns, analysisRunsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(parquetAnalysisRuns), analysisRunsFile)

	// Write day metrics to Parquet
	dayMetricsFile := outputFile + ".day_metrics.parquet"
	if err := parquet.WriteDayMetricsParquet(parquetDayMetrics, dayMetricsFile); err != nil {
		return fmt.Errorf("failed to write day metrics: %w", err)
	}
	fmt.Printf("Exported %d day metric rows to: %s\n", len(parquetDayMetrics), dayMetricsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
