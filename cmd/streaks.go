package cmd

import (
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/outwriter"
	"github.com/spf13/cobra"
)

// streaksCmd finds consecutive-day elevated runs for one metric.
var streaksCmd = &cobra.Command{
	Use:   "streaks <records.json>",
	Short: "Find consecutive days where a metric stays elevated.",
	Long: `Find runs of consecutive days where one metric stays at or above a
robust threshold (median plus a scaled robust standard deviation).

The threshold uses the median and MAD rather than mean and SD, so a few
extreme days cannot drag the baseline up and hide a streak. Missing days
break a run; runs shorter than --streak-days are not reported.

Examples:
  # Resting heart rate streaks (default metric)
  healthness streaks export.json

  # Watch sugar intake with a longer minimum run
  healthness streaks export.json --metric sugar_g --streak-days 5

  # Lower the elevation bar
  healthness streaks export.json --elevation-sd 1.0`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		output, duration, err := runAnalysisPass()
		if err != nil {
			contract.LogFatal("Cannot run streak analysis", err)
		}
		if err := outwriter.NewOutWriter().WriteStreaks(output, cfg, duration); err != nil {
			contract.LogFatal("Cannot write streak results", err)
		}
	},
}
