package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/selwyntheo/fund-services-architect/internal/contract"
	"github.com/selwyntheo/fund-services-architect/schema"
)

// WriteStoredResults outputs stored scan rows, dispatching based on the output format configured.
func WriteStoredResults(results []schema.StoredResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVStoredResults(csvWriter, results, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStoredTable(results, cfg, fmtFloat, w)
		}, "Wrote table")
	}
	return nil
}

// writeStoredTable generates and writes the human-readable history table.
func writeStoredTable(results []schema.StoredResult, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Project", "Overall", "Risk", "Scanned"})
	table.Configure(func(tableCfg *tablewriter.Config) {
		tableCfg.Row.Alignment.Global = tw.AlignRight
	})

	label := labelFunc(cfg.UseColors)
	maxPathWidth := getMaxTablePathWidth(cfg)

	var data [][]string
	for _, r := range results {
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			contract.TruncatePath(r.ProjectName, maxPathWidth),
			fmtFloat(r.OverallScore),
			label(r.OverallScore),
			r.ScanTime.Format(contract.DateTimeFormat),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d stored results\n", len(results))
	return err
}

// writeCSVStoredResults writes stored scan rows in CSV format.
func writeCSVStoredResults(w *csv.Writer, results []schema.StoredResult, fmtFloat func(float64) string) error {
	header := []string{
		"id",
		"project",
		"path",
		"code_quality_score",
		"architecture_score",
		"infrastructure_score",
		"operations_score",
		"overall_score",
		"risk_level",
		"scan_time",
		"scan_duration_ms",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			strconv.FormatInt(r.ID, 10),
			r.ProjectName,
			r.ProjectPath,
			fmtFloat(r.CodeQualityScore),
			fmtFloat(r.ArchitectureScore),
			fmtFloat(r.InfrastructureScore),
			fmtFloat(r.OperationsScore),
			fmtFloat(r.OverallScore),
			string(r.Risk),
			r.ScanTime.Format(contract.DateTimeFormat),
			strconv.FormatInt(r.DurationMS, 10),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
