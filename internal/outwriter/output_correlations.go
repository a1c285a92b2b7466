package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// correlationReport bundles same-day and lagged pairs for serialization.
type correlationReport struct {
	SameDay []schema.Correlation `json:"same_day"`
	Lagged  []schema.Correlation `json:"lagged"`
}

// WriteCorrelationResults outputs ranked correlations, dispatching based on the output format configured.
func WriteCorrelationResults(output *schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision, "-")
	report := correlationReport{
		SameDay: limitCorrelations(output.Correlations, cfg.ResultLimit),
		Lagged:  limitCorrelations(output.Lagged, cfg.ResultLimit),
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCorrelationCSV(w, report, fmtFloat)
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCorrelationTable(w, report, output, cfg, fmtFloat, duration)
		}, "Wrote table")
	default:
		return errUnsupportedFormat(cfg.Output)
	}
}

// limitCorrelations keeps the top n pairs; the engine already ranks them
// by descending magnitude.
func limitCorrelations(pairs []schema.Correlation, n int) []schema.Correlation {
	if n <= 0 || len(pairs) <= n {
		return pairs
	}
	return pairs[:n]
}

// writeCorrelationTable generates and writes the human-readable table.
func writeCorrelationTable(writer io.Writer, report correlationReport, output *schema.AnalysisOutput, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Rank", "Metric X", "Metric Y", "Lag", "R", "Samples", "Strength"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	strength := contract.GetPlainStrength
	if cfg.UseColors {
		strength = contract.GetColorStrength
	}

	var data [][]string
	rank := 0
	appendRows := func(pairs []schema.Correlation) {
		for _, c := range pairs {
			rank++
			data = append(data, []string{
				strconv.Itoa(rank),
				string(c.MetricX),
				string(c.MetricY),
				strconv.Itoa(c.LagDays),
				fmtFloat(c.R),
				strconv.Itoa(c.Samples),
				strength(math.Abs(c.R)),
			})
		}
	}
	appendRows(report.SameDay)
	appendRows(report.Lagged)

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Found %d same-day and %d lagged correlation(s) across %d days analyzed\n",
		len(report.SameDay), len(report.Lagged), len(output.Series.Days)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v\n", duration); err != nil {
		return err
	}
	return writeWarnings(writer, output.Warnings)
}

// writeCorrelationCSV writes ranked correlations in CSV format.
func writeCorrelationCSV(w io.Writer, report correlationReport, fmtFloat func(float64) string) error {
	header := []string{"rank", "metric_x", "metric_y", "lag_days", "r", "samples", "strength"}

	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		rank := 0
		writeRows := func(pairs []schema.Correlation) error {
			for _, c := range pairs {
				rank++
				rec := []string{
					strconv.Itoa(rank),
					string(c.MetricX),
					string(c.MetricY),
					strconv.Itoa(c.LagDays),
					fmtFloat(c.R),
					strconv.Itoa(c.Samples),
					contract.GetPlainStrength(math.Abs(c.R)),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		}
		if err := writeRows(report.SameDay); err != nil {
			return err
		}
		return writeRows(report.Lagged)
	})
}
