package cmd

import (
	"github.com/spf13/cobra"

	"github.com/selwyntheo/fund-services-architect/core"
	"github.com/selwyntheo/fund-services-architect/internal/contract"
)

// batchCmd scores several repositories concurrently.
var batchCmd = &cobra.Command{
	Use:   "batch [repo-path...]",
	Short: "Score the technical debt of several repositories at once.",
	Long: `Scan multiple repositories with a worker pool and rank them by debt.

Each repository gets the same four-category scoring as 'scan'. Results
are ordered worst-first so the repositories needing attention come out
on top. Failed scans are reported but never abort the batch.

Examples:
  # Scan three repositories with 8 workers
  debtscan batch ./svc-a ./svc-b ./svc-c --workers 8

  # Export the ranking as JSON
  debtscan batch ./repos/* --output json --output-file batch.json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBatch(rootCtx, cfg, gitClient, resultStore); err != nil {
			contract.LogFatal("Cannot run batch scan", err)
		}
	},
}
