package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteDailyResults outputs the daily series, dispatching based on the output format configured.
func WriteDailyResults(output *schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	_, fmtValue := createFormatters(cfg.Precision, "-")
	days := limitDays(output.Series.Days, cfg.ResultLimit)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, days)
		}, "Wrote JSON")
	case schema.CSVOut:
		_, csvValue := createFormatters(cfg.Precision, "")
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDailyCSV(w, days, csvValue)
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDailyTable(w, days, output, cfg, fmtValue, duration)
		}, "Wrote table")
	default:
		return errUnsupportedFormat(cfg.Output)
	}
}

// limitDays keeps the most recent n days; the series tail is where new
// data lands, so that is what the user wants to see first.
func limitDays(days []schema.DailyRecord, n int) []schema.DailyRecord {
	if n <= 0 || len(days) <= n {
		return days
	}
	return days[len(days)-n:]
}

// writeDailyTable generates and writes the human-readable table.
func writeDailyTable(writer io.Writer, days []schema.DailyRecord, output *schema.AnalysisOutput, cfg *contract.Config, fmtValue func(*float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	keys := dailyTableKeys(cfg)
	headers := []string{"Day"}
	for _, key := range keys {
		headers = append(headers, string(key))
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i := range days {
		row := []string{days[i].DayKey}
		for _, key := range keys {
			row = append(row, fmtValue(days[i].Metric(key)))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d of %d days (%s to %s). Sources: %s\n",
		len(days), len(output.Series.Days), output.Series.MinDayKey, output.Series.MaxDayKey, formatSources(output.Sources)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. History backend: %s\n", duration, cfg.HistoryBackend); err != nil {
		return err
	}
	return writeWarnings(writer, output.Warnings)
}

// writeDailyCSV writes the daily series in CSV format, all metrics included.
func writeDailyCSV(w io.Writer, days []schema.DailyRecord, fmtValue func(*float64) string) error {
	header := []string{"day"}
	for _, key := range schema.AllMetricKeys {
		header = append(header, string(key))
	}

	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i := range days {
			rec := []string{days[i].DayKey}
			for _, key := range schema.AllMetricKeys {
				rec = append(rec, fmtValue(days[i].Metric(key)))
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatSources joins the source list for the table footer.
func formatSources(sources []string) string {
	if len(sources) == 0 {
		return "none"
	}
	out := sources[0]
	for _, s := range sources[1:] {
		out += ", " + s
	}
	return out
}

// writeWarnings appends any normalization warnings below the table.
func writeWarnings(w io.Writer, warnings []string) error {
	for _, warning := range warnings {
		if _, err := fmt.Fprintf(w, "Warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}
