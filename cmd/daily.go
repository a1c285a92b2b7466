package cmd

import (
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/outwriter"
	"github.com/spf13/cobra"
)

// dailyCmd aggregates records into the daily metric table.
var dailyCmd = &cobra.Command{
	Use:   "daily <records.json>",
	Short: "Show one row of aggregated metrics per calendar day.",
	Long: `Normalize raw health records and aggregate them into one row per
local calendar day.

Handles the source quirks for you:
- Sleep sessions spanning midnight count toward the day they END on
- Weight uses the latest sample of the day, converted to kilograms
- Blood pressure is averaged; half-records (one component) are dropped
- Gap days between the first and last record appear as empty rows

Examples:
  # Aggregate an export in the payload's own timezone
  healthness daily export.json

  # Force a fallback timezone for payloads without one
  healthness daily export.json --tz America/Los_Angeles

  # Write the full table to CSV for a spreadsheet
  healthness daily export.json --output csv --output-file daily.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		output, duration, err := runAnalysisPass()
		if err != nil {
			contract.LogFatal("Cannot run daily analysis", err)
		}
		if err := outwriter.NewOutWriter().WriteDaily(output, cfg, duration); err != nil {
			contract.LogFatal("Cannot write daily results", err)
		}
	},
}
