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

// riskDisplayOrder fixes the rendering order for risk distribution rows.
var riskDisplayOrder = []schema.RiskLevel{
	schema.CriticalRisk,
	schema.HighRisk,
	schema.MediumRisk,
	schema.LowRisk,
}

// WriteDebtReport outputs an aggregate report, dispatching based on the output format configured.
func WriteDebtReport(report *schema.Report, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVReport(csvWriter, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(report, cfg, fmtFloat, w)
		}, "Wrote report")
	}
	return nil
}

// writeReportText renders the human-readable report: a summary block, the
// risk distribution, the top debt table and the recommendations.
func writeReportText(report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if cfg.UseEmojis {
		fmt.Fprintf(writer, "📊 Technical Debt Report (%s)\n", report.GeneratedAt.Format(contract.DateTimeFormat))
	} else {
		fmt.Fprintf(writer, "Technical Debt Report (%s)\n", report.GeneratedAt.Format(contract.DateTimeFormat))
	}
	fmt.Fprintf(writer, "Projects: %d total, %d scanned, %d failed\n\n",
		report.TotalProjects, report.SuccessfulScans, report.FailedScans)

	fmt.Fprintln(writer, "Risk distribution:")
	label := labelFunc(cfg.UseColors)
	for _, risk := range riskDisplayOrder {
		count := report.RiskCounts[risk]
		fmt.Fprintf(writer, "  %-10s %d\n", riskLabelText(risk, label), count)
	}
	fmt.Fprintln(writer)

	if len(report.TopDebt) > 0 {
		fmt.Fprintln(writer, "Highest debt projects:")
		table := tablewriter.NewWriter(writer)
		table.Header([]string{"Rank", "Project", "Overall", "Risk"})
		table.Configure(func(tableCfg *tablewriter.Config) {
			tableCfg.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for i, r := range report.TopDebt {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				contract.TruncatePath(r.Project.Name, getMaxTablePathWidth(cfg)),
				fmtFloat(r.Metrics.OverallScore),
				label(r.Metrics.OverallScore),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(writer, "Recommendations:")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(writer, "  - %s\n", rec)
		}
	}
	return nil
}

// riskLabelText renders a risk tier name with the configured label styling.
// Labels key off the score, so pick a score inside the tier.
func riskLabelText(risk schema.RiskLevel, label func(float64) string) string {
	switch risk {
	case schema.CriticalRisk:
		return label(3.5)
	case schema.HighRisk:
		return label(2.5)
	case schema.MediumRisk:
		return label(1.5)
	default:
		return label(0.5)
	}
}

// writeCSVReport writes the top-debt section of a report in CSV format.
func writeCSVReport(w *csv.Writer, report *schema.Report, fmtFloat func(float64) string) error {
	header := []string{"rank", "project", "path", "overall_score", "risk_level"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, r := range report.TopDebt {
		rec := []string{
			strconv.Itoa(i + 1),
			r.Project.Name,
			r.Project.Path,
			fmtFloat(r.Metrics.OverallScore),
			contract.GetPlainLabel(r.Metrics.OverallScore),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
