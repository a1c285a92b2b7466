package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// streakRow is one qualifying streak resolved back to day keys.
type streakRow struct {
	StartDay string `json:"start_day"`
	EndDay   string `json:"end_day"`
	Days     int    `json:"days"`
}

// streakReport is the serializable form of a streak result.
type streakReport struct {
	Metric         schema.MetricKey `json:"metric"`
	HasThreshold   bool             `json:"has_threshold"`
	Threshold      float64          `json:"threshold"`
	BaselineMedian float64          `json:"baseline_median"`
	RobustSD       float64          `json:"robust_sd"`
	Streaks        []streakRow      `json:"streaks"`
}

// WriteStreakResults outputs elevated streaks, dispatching based on the output format configured.
func WriteStreakResults(output *schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision, "-")
	report := buildStreakReport(output)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStreakCSV(w, report, fmtFloat)
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStreakTable(w, report, output, fmtFloat, duration)
		}, "Wrote table")
	default:
		return errUnsupportedFormat(cfg.Output)
	}
}

// buildStreakReport resolves streak indices back to day keys.
func buildStreakReport(output *schema.AnalysisOutput) streakReport {
	res := output.Streaks
	report := streakReport{
		Metric:         res.Metric,
		HasThreshold:   res.HasThreshold,
		Threshold:      res.Threshold,
		BaselineMedian: res.BaselineMedian,
		RobustSD:       res.RobustSD,
	}
	for _, s := range res.Qualifying {
		report.Streaks = append(report.Streaks, streakRow{
			StartDay: output.Series.Days[s.Start].DayKey,
			EndDay:   output.Series.Days[s.End].DayKey,
			Days:     s.Len,
		})
	}
	return report
}

// writeStreakTable generates and writes the human-readable table.
func writeStreakTable(writer io.Writer, report streakReport, output *schema.AnalysisOutput, fmtFloat func(float64) string, duration time.Duration) error {
	if !report.HasThreshold {
		if _, err := fmt.Fprintf(writer, "Not enough data to establish a baseline for %s (need more days with values)\n", report.Metric); err != nil {
			return err
		}
		return writeWarnings(writer, output.Warnings)
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Start", "End", "Days"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, s := range report.Streaks {
		data = append(data, []string{strconv.Itoa(i + 1), s.StartDay, s.EndDay, strconv.Itoa(s.Days)})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Found %d elevated streak(s) for %s (threshold %s = median %s + robust SD %s scaled)\n",
		len(report.Streaks), report.Metric, fmtFloat(report.Threshold), fmtFloat(report.BaselineMedian), fmtFloat(report.RobustSD)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v\n", duration); err != nil {
		return err
	}
	return writeWarnings(writer, output.Warnings)
}

// writeStreakCSV writes elevated streaks in CSV format.
func writeStreakCSV(w io.Writer, report streakReport, fmtFloat func(float64) string) error {
	header := []string{"rank", "metric", "start_day", "end_day", "days", "threshold", "baseline_median", "robust_sd"}

	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i, s := range report.Streaks {
			rec := []string{
				strconv.Itoa(i + 1),
				string(report.Metric),
				s.StartDay,
				s.EndDay,
				strconv.Itoa(s.Days),
				fmtFloat(report.Threshold),
				fmtFloat(report.BaselineMedian),
				fmtFloat(report.RobustSD),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
