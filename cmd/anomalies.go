package cmd

import (
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/outwriter"
	"github.com/spf13/cobra"
)

// anomaliesCmd flags days that deviate from their rolling baseline.
var anomaliesCmd = &cobra.Command{
	Use:   "anomalies <records.json>",
	Short: "Flag days that deviate sharply from their trailing baseline.",
	Long: `Scan every metric for days whose value is far outside the trailing
rolling baseline, measured in standard deviations (z-score).

The baseline for each day uses only the days BEFORE it, so a spike never
dampens its own detection. Days with too few prior samples, and metrics
with a flat baseline, are never flagged.

Examples:
  # Default scan: |z| >= 2.0 over a 14-day trailing window
  healthness anomalies export.json

  # Stricter threshold, longer window
  healthness anomalies export.json --z-threshold 2.5 --lookback-days 28

  # Export flagged days for review
  healthness anomalies export.json --output json --output-file anomalies.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		output, duration, err := runAnalysisPass()
		if err != nil {
			contract.LogFatal("Cannot run anomaly analysis", err)
		}
		if err := outwriter.NewOutWriter().WriteAnomalies(output, cfg, duration); err != nil {
			contract.LogFatal("Cannot write anomaly results", err)
		}
	},
}
