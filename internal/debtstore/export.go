package debtstore

import (
	"errors"
	"fmt"

	"github.com/selwyntheo/fund-services-architect/internal/contract"
	"github.com/selwyntheo/fund-services-architect/internal/parquet"
)

// exportQueryLimit bounds how many rows one export pulls from the store.
const exportQueryLimit = 100000

// ExecuteResultsExport exports stored scan results to a Parquet file.
func ExecuteResultsExport(store contract.ResultStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.ResultCount == 0 {
		return errors.New("no scan results found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total scan results: %d\n", status.ResultCount)
	fmt.Printf("Distinct projects: %d\n", status.ProjectCount)

	results, err := store.ListResults(exportQueryLimit)
	if err != nil {
		return fmt.Errorf("failed to retrieve scan results: %w", err)
	}

	records := parquet.ConvertStoredResults(results)
	if err := parquet.WriteScanRecordsParquet(records, outputFile); err != nil {
		return fmt.Errorf("failed to write scan results: %w", err)
	}
	fmt.Printf("Exported %d scan results to: %s\n", len(records), outputFile)

	fmt.Println("\nExport complete! The Parquet file can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
