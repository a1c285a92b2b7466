// Package cmd defines the command-line interface for healthness.
package cmd

import (
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(anomaliesCmd)
	rootCmd.AddCommand(streaksCmd)
	rootCmd.AddCommand(correlateCmd)
	rootCmd.AddCommand(insightCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("tz", "", "Fallback IANA timezone when the payload has none (e.g. America/Los_Angeles)")
	rootCmd.PersistentFlags().StringP("metric", "m", string(schema.MetricRHRBpm), "Focus metric for anomalies/streaks (e.g. rhr_bpm, sugar_g)")
	rootCmd.PersistentFlags().String("metrics", "", "Comma-separated metric keys for correlation enumeration")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "History tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("lookback-days", contract.DefaultBaselineLookbackDays, "Trailing window length for rolling baselines")
	rootCmd.PersistentFlags().Int("baseline-min-points", contract.DefaultBaselineMinPoints, "Minimum finite samples before a baseline exists")
	rootCmd.PersistentFlags().Float64("z-threshold", contract.DefaultZScoreThreshold, "Absolute z-score at or above which a day is flagged")
	rootCmd.PersistentFlags().Float64("elevation-sd", contract.DefaultElevationSD, "Robust-SD multiplier for the streak threshold")
	rootCmd.PersistentFlags().Int("streak-days", contract.DefaultStreakDays, "Minimum run length for a qualifying streak")
	rootCmd.PersistentFlags().Int("min-corr-days", contract.DefaultMinCorrelationDays, "Minimum paired samples for a reported correlation")
	rootCmd.PersistentFlags().Int("lag-days", contract.DefaultLagDays, "Day shift for lagged correlations")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of insightCmd to Viper
	insightCmd.Flags().Int("insight-days", contract.DefaultInsightDays, "Number of most recent days to include in the insight payload")
	insightCmd.Flags().String("model", contract.DefaultInsightModel, "Anthropic model name for the insight relay")
	insightCmd.Flags().Bool("no-llm", false, "Build and print the payload without calling the API")
	if err := viper.BindPFlags(insightCmd.Flags()); err != nil {
		contract.LogFatal("Error binding insight flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
