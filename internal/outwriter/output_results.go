package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/selwyntheo/fund-services-architect/internal/contract"
	"github.com/selwyntheo/fund-services-architect/schema"
)

// WriteScanResults outputs scan results, dispatching based on the output format configured.
func WriteScanResults(results []schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONScanResults(w, results)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVScanResults(csvWriter, results, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanTable(results, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeScanTable generates and writes the human-readable table.
func writeScanTable(results []schema.ScanResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Project", "Code", "Arch", "Infra", "Ops", "Overall", "Risk"})
	table.Configure(func(tableCfg *tablewriter.Config) {
		tableCfg.Row.Alignment.Global = tw.AlignRight
	})

	label := labelFunc(cfg.UseColors)
	maxPathWidth := getMaxTablePathWidth(cfg)

	var data [][]string
	failed := 0
	rank := 0
	for _, r := range results {
		if r.Failed() {
			failed++
			continue
		}
		rank++
		m := r.Metrics
		data = append(data, []string{
			strconv.Itoa(rank),
			contract.TruncatePath(r.Project.Name, maxPathWidth),
			fmtFloat(m.CodeQualityScore),
			fmtFloat(m.ArchitectureScore),
			fmtFloat(m.InfrastructureScore),
			fmtFloat(m.OperationsScore),
			fmtFloat(m.OverallScore),
			label(m.OverallScore),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Scanned %d projects in %v with %d workers\n", len(results), duration, cfg.Workers); err != nil {
		return err
	}
	if failed > 0 {
		for _, r := range results {
			if r.Failed() {
				contract.LogWarn(fmt.Sprintf("scan failed for %s", r.Project.Name), fmt.Errorf("%s", r.Err))
			}
		}
	}
	return nil
}

// writeCSVScanResults writes scan results in CSV format.
func writeCSVScanResults(w *csv.Writer, results []schema.ScanResult, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"project",
		"path",
		"code_quality_score",
		"architecture_score",
		"infrastructure_score",
		"operations_score",
		"overall_score",
		"risk_level",
		"scan_time",
		"error",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, r := range results {
		m := r.Metrics
		rec := []string{
			strconv.Itoa(i + 1),
			r.Project.Name,
			r.Project.Path,
			fmtFloat(m.CodeQualityScore),
			fmtFloat(m.ArchitectureScore),
			fmtFloat(m.InfrastructureScore),
			fmtFloat(m.OperationsScore),
			fmtFloat(m.OverallScore),
			contract.GetPlainLabel(m.OverallScore),
			r.ScanTime.Format(contract.DateTimeFormat),
			r.Err,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONScanResults writes scan results in JSON format.
func writeJSONScanResults(w io.Writer, results []schema.ScanResult) error {
	// Prepare the data structure for JSON with rank and label added
	type JSONScanResult struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.ScanResult
	}

	output := make([]JSONScanResult, len(results))
	for i, r := range results {
		output[i] = JSONScanResult{
			Rank:       i + 1,
			Label:      contract.GetPlainLabel(r.Metrics.OverallScore),
			ScanResult: r,
		}
	}

	return writeJSON(w, output)
}
