package cmd

import (
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/outwriter"
	"github.com/spf13/cobra"
)

// correlateCmd ranks pairwise metric correlations.
var correlateCmd = &cobra.Command{
	Use:   "correlate <records.json>",
	Short: "Rank pairwise correlations between daily metrics.",
	Long: `Compute Pearson correlations between every pair of selected metrics,
both same-day and with a configurable day lag, ranked by magnitude.

Lagged pairs are directional: sugar today against resting heart rate
tomorrow is a different question from the reverse, so both orientations
are reported. Pairs with fewer than --min-corr-days overlapping samples
are dropped rather than reported with an unstable coefficient.

Examples:
  # Default metric set at lag 0 and lag 1
  healthness correlate export.json

  # Pick the metrics and look two days ahead
  healthness correlate export.json --metrics sleep_hours,sugar_g,rhr_bpm --lag-days 2

  # Demand more overlap before trusting a coefficient
  healthness correlate export.json --min-corr-days 10`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		output, duration, err := runAnalysisPass()
		if err != nil {
			contract.LogFatal("Cannot run correlation analysis", err)
		}
		if err := outwriter.NewOutWriter().WriteCorrelations(output, cfg, duration); err != nil {
			contract.LogFatal("Cannot write correlation results", err)
		}
	},
}
