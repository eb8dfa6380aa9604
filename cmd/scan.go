package cmd

import (
	"github.com/spf13/cobra"

	"github.com/selwyntheo/fund-services-architect/core"
	"github.com/selwyntheo/fund-services-architect/internal/contract"
)

// scanCmd scores the technical debt of a single repository.
var scanCmd = &cobra.Command{
	Use:   "scan [repo-path]",
	Short: "Score the technical debt of a single repository.",
	Long: `Walk a repository tree and score its technical debt.

Four weighted categories make up the overall score:
- Code quality: test coverage signals, file sizes, nesting, documentation
- Architecture: directory depth, recognizable patterns, docs, API specs
- Infrastructure: CI/CD presence and health, secrets hygiene, containers
- Operations: commit cadence, deployment frequency, contributor spread

Each category scores 0-4 (higher means more debt), and the weighted
overall score maps to a risk level: Low, Medium, High or Critical.

Examples:
  # Scan the current directory
  debtscan scan

  # Scan a specific repository with a custom name
  debtscan scan /path/to/repo --name payments-api

  # Include CI/CD pipeline history from a JSON export
  debtscan scan --pipelines pipelines.json

  # Export findings to CSV for tracking
  debtscan scan --output csv --output-file debt.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScan(rootCtx, cfg, gitClient, resultStore); err != nil {
			contract.LogFatal("Cannot run scan", err)
		}
	},
}
