package cmd

import (
	"github.com/spf13/cobra"

	"github.com/selwyntheo/fund-services-architect/core"
	"github.com/selwyntheo/fund-services-architect/internal/contract"
)

// reportCmd produces an aggregate debt report across repositories.
var reportCmd = &cobra.Command{
	Use:   "report [repo-path...]",
	Short: "Produce an aggregate debt report across repositories.",
	Long: `Scan one or more repositories and summarize the portfolio.

The report shows the risk distribution, the highest-debt projects and
actionable recommendations derived from the most common weaknesses.

Examples:
  # Report on every service in a monorepo checkout
  debtscan report ./services/*

  # Machine-readable report for dashboards
  debtscan report ./svc-a ./svc-b --output json --output-file report.json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, gitClient, resultStore); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}
