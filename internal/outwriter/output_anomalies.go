package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// anomalyRow is one flagged day flattened for display, with its metric
// attached and ranked by |z| across all metrics.
type anomalyRow struct {
	Metric schema.MetricKey    `json:"metric"`
	Point  schema.AnomalyPoint `json:"point"`
}

// WriteAnomalyResults outputs flagged anomalies, dispatching based on the output format configured.
func WriteAnomalyResults(output *schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision, "-")
	rows := rankAnomalies(output.Anomalies, cfg.ResultLimit)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnomalyCSV(w, rows, fmtFloat)
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnomalyTable(w, rows, output, cfg, fmtFloat, duration)
		}, "Wrote table")
	default:
		return errUnsupportedFormat(cfg.Output)
	}
}

// rankAnomalies flattens per-metric results and ranks by descending |z|.
func rankAnomalies(results []schema.AnomalyResult, limit int) []anomalyRow {
	var rows []anomalyRow
	for _, res := range results {
		for _, point := range res.Points {
			rows = append(rows, anomalyRow{Metric: res.Metric, Point: point})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return math.Abs(rows[i].Point.ZScore) > math.Abs(rows[j].Point.ZScore)
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// writeAnomalyTable generates and writes the human-readable table.
func writeAnomalyTable(writer io.Writer, rows []anomalyRow, output *schema.AnalysisOutput, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Rank", "Day", "Metric", "Value", "Baseline", "SD", "Z", "Severity"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	severity := contract.GetPlainSeverity
	if cfg.UseColors {
		severity = contract.GetColorSeverity
	}

	var data [][]string
	for i, row := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			row.Point.DayKey,
			string(row.Metric),
			fmtFloat(row.Point.Value),
			fmtFloat(row.Point.Mean),
			fmtFloat(row.Point.SD),
			fmtFloat(row.Point.ZScore),
			severity(math.Abs(row.Point.ZScore)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Found %d anomalous day(s) across %d days analyzed\n", len(rows), len(output.Series.Days)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v\n", duration); err != nil {
		return err
	}
	return writeWarnings(writer, output.Warnings)
}

// writeAnomalyCSV writes flagged anomalies in CSV format.
func writeAnomalyCSV(w io.Writer, rows []anomalyRow, fmtFloat func(float64) string) error {
	header := []string{"rank", "day", "metric", "value", "baseline_mean", "baseline_sd", "z_score", "severity"}

	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i, row := range rows {
			rec := []string{
				strconv.Itoa(i + 1),
				row.Point.DayKey,
				string(row.Metric),
				fmtFloat(row.Point.Value),
				fmtFloat(row.Point.Mean),
				fmtFloat(row.Point.SD),
				fmtFloat(row.Point.ZScore),
				contract.GetPlainSeverity(math.Abs(row.Point.ZScore)),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
