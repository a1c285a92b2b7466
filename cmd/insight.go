package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/insight"
	"github.com/spf13/cobra"
)

// insightCmd relays the recent daily metrics to the Anthropic API.
var insightCmd = &cobra.Command{
	Use:   "insight <records.json>",
	Short: "Get an LLM-written narrative summary of recent metrics.",
	Long: `Build a day-bounded numeric payload from the most recent days and
relay it to the Anthropic API for a narrative summary.

The payload contains only the fixed per-day metric fields; sleep session
details and activity breakdowns never leave the machine. Responses are
cached locally keyed by payload hash, so re-running over unchanged data
does not call the API again.

Requires ANTHROPIC_API_KEY unless --no-llm is set.

Examples:
  # Summarize the last 30 days
  healthness insight export.json

  # Inspect the exact payload without any API call
  healthness insight export.json --no-llm

  # A bigger window on a different model
  healthness insight export.json --insight-days 90 --model claude-opus-4-1`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		output, _, err := runAnalysisPass()
		if err != nil {
			contract.LogFatal("Cannot run analysis for insight", err)
		}

		payload := insight.BuildPayload(&output.Series, cfg.InsightDays)

		if cfg.NoLLM {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(payload); err != nil {
				contract.LogFatal("Cannot print insight payload", err)
			}
			return
		}

		relay, err := insight.NewRelay(cfg.InsightModel)
		if err != nil {
			contract.LogFatal("Cannot create insight relay", err)
		}

		summary, err := relay.Summarize(rootCtx, payload)
		if err != nil {
			contract.LogFatal("Insight request failed", err)
		}
		fmt.Println(summary)
	},
}
