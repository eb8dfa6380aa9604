// Package parquet provides data structures and functions for exporting scan
// results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// ScanRecord represents a single persisted debt scan.
// This struct maps to the debtscan_results database table.
type ScanRecord struct {
	// ResultID is the unique identifier for this scan
	ResultID int64 `parquet:"result_id,snappy"`

	// ProjectName is the human-readable project name
	ProjectName string `parquet:"project_name,snappy"`

	// ProjectPath is the repository path that was scanned
	ProjectPath string `parquet:"project_path,snappy"`

	// OverallScore is the weighted overall debt score (0-4)
	OverallScore float64 `parquet:"overall_score,snappy"`

	// CodeQualityScore is the code quality category score (0-4)
	CodeQualityScore float64 `parquet:"code_quality_score,snappy"`

	// ArchitectureScore is the architecture category score (0-4)
	ArchitectureScore float64 `parquet:"architecture_score,snappy"`

	// InfrastructureScore is the infrastructure category score (0-4)
	InfrastructureScore float64 `parquet:"infrastructure_score,snappy"`

	// OperationsScore is the operations category score (0-4)
	OperationsScore float64 `parquet:"operations_score,snappy"`

	// RiskLevel is the ordinal risk tier derived from the overall score
	RiskLevel string `parquet:"risk_level,snappy"`

	// ScanTime is when the scan ran (stored as TIMESTAMP with nanosecond precision)
	ScanTime time.Time `parquet:"scan_time,snappy"`

	// ScanDurationMs is how long the scan took in milliseconds
	ScanDurationMs int64 `parquet:"scan_duration_ms,snappy"`

	// RawMetrics contains the JSON-encoded raw analyzer metrics (nullable)
	RawMetrics *string `parquet:"raw_metrics,optional,snappy"`
}

// WriteScanRecordsParquet writes a slice of ScanRecord structs to a Parquet file.
func WriteScanRecordsParquet(data []ScanRecord, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ScanRecord struct tags
	writer := parquet.NewGenericWriter[ScanRecord](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertStoredResults converts schema.StoredResult rows to ScanRecord for Parquet export.
func ConvertStoredResults(records []schema.StoredResult) []ScanRecord {
	result := make([]ScanRecord, len(records))
	for i, record := range records {
		converted := ScanRecord{
			ResultID:            record.ID,
			ProjectName:         record.ProjectName,
			ProjectPath:         record.ProjectPath,
			OverallScore:        record.OverallScore,
			CodeQualityScore:    record.CodeQualityScore,
			ArchitectureScore:   record.ArchitectureScore,
			InfrastructureScore: record.InfrastructureScore,
			OperationsScore:     record.OperationsScore,
			RiskLevel:           string(record.Risk),
			ScanTime:            record.ScanTime,
			ScanDurationMs:      record.DurationMS,
		}
		if len(record.RawJSON) > 0 {
			raw := string(record.RawJSON)
			converted.RawMetrics = &raw
		}
		result[i] = converted
	}
	return result
}
