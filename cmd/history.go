package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/selwyntheo/fund-services-architect/core"
	"github.com/selwyntheo/fund-services-architect/internal/contract"
	"github.com/selwyntheo/fund-services-architect/internal/debtstore"
	"github.com/selwyntheo/fund-services-architect/schema"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need store access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values without the scan-path validation
	limit := viper.GetInt("limit")
	if limit <= 0 || limit > contract.MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", contract.MaxResultLimit, limit)
	}
	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.ResultLimit = limit
	cfg.Precision = viper.GetInt("precision")
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Width = viper.GetInt("width")
	cfg.UseColors = colors
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	// Initialize the store with the loaded config
	store, err := debtstore.NewResultStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize result storage: %w", err)
	}
	resultStore = store

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT open the store or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on stored scan result management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by scan commands. This avoids repo path validation
// and complex config processing for simple store operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored scan results and exports",
	Long: `Manage historical scan results used for trend tracking and reporting.

Every successful scan stores:
- Project metadata (name, path, scan timestamp)
- Category and overall debt scores with the risk level
- Raw metrics as JSON for deeper analysis

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show recent stored results
  status  - Show store statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all stored results
  migrate - Run database schema migrations

Examples:
  # Show the last 25 stored results
  debtscan history list

  # Export for analysis in pandas/DuckDB
  debtscan history export --output-file debt-data.parquet`,
}

// historyListCmd lists stored scan results.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent stored scan results, newest first",
	Long: `List previously stored scan results.

Shows each result's ID, project, overall score, risk level and scan time.
Use --limit to control how many rows come back and --output for CSV/JSON.

Examples:
  # Show the last 10 results as a table
  debtscan history list --limit 10

  # Dump everything as JSON
  debtscan history list --limit 1000 --output json`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryList(resultStore, cfg); err != nil {
			contract.LogFatal("Failed to list stored results", err)
		}
	},
}

// historyStatusCmd shows result store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display result store statistics and connection details",
	Long: `Show detailed information about the scan result store.

Displays:
- Backend type and location
- Total number of stored results
- Number of distinct projects
- Timestamp of the most recent scan

Examples:
  # Check store status
  debtscan history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryStatus(resultStore); err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
	},
}

// historyClearCmd clears all stored scan results.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored scan results",
	Long: `Delete all stored scan results.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  debtscan history export --output-file backup.parquet
  debtscan history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryClear(resultStore); err != nil {
			contract.LogFatal("Failed to clear stored results", err)
		}
	},
}

// historyExportCmd exports stored results to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored results to Parquet for BI tools and analytics",
	Long: `Export all stored scan results to Parquet format.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all data
  debtscan history export --output-file debt-data.parquet

  # Use with DuckDB for analysis
  debtscan history export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := debtstore.ExecuteResultsExport(resultStore, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export stored results", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the result store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the scan result store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  debtscan history migrate

  # Rollback to previous version
  debtscan history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := debtstore.MigrateResults(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
