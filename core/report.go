package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// topDebtLimit caps the worst-offender list in a report.
const topDebtLimit = 10

// BuildReport aggregates batch results into risk distribution, the worst
// offenders and organization-level recommendations.
func BuildReport(results []schema.ScanResult) schema.Report {
	report := schema.Report{
		TotalProjects: len(results),
		GeneratedAt:   time.Now().UTC(),
		RiskCounts:    make(map[schema.RiskLevel]int),
	}

	var successful []schema.ScanResult
	for _, result := range results {
		if result.Failed() {
			report.FailedScans++
			continue
		}
		report.SuccessfulScans++
		report.RiskCounts[result.Risk]++
		successful = append(successful, result)
	}

	sort.Slice(successful, func(i, j int) bool {
		return successful[i].Metrics.OverallScore > successful[j].Metrics.OverallScore
	})
	if len(successful) > topDebtLimit {
		report.TopDebt = successful[:topDebtLimit]
	} else {
		report.TopDebt = successful
	}

	report.Recommendations = buildRecommendations(successful)
	return report
}

// buildRecommendations emits organization-wide guidance when an issue is
// widespread enough to be systemic rather than per-project.
func buildRecommendations(results []schema.ScanResult) []string {
	var recommendations []string
	total := len(results)
	if total == 0 {
		return recommendations
	}

	noCICD, noTests, noDocs, noContainers, critical := 0, 0, 0, 0, 0
	for _, result := range results {
		raw := result.Metrics.Raw
		if !raw.InfrastructureAnalysis.Bool("has_cicd_config") {
			noCICD++
		}
		if raw.CodeAnalysis.Float("test_to_code_ratio", 0) < 0.1 {
			noTests++
		}
		if !raw.ArchitectureAnalysis.Bool("has_readme") {
			noDocs++
		}
		if !raw.InfrastructureAnalysis.Bool("is_containerized") {
			noContainers++
		}
		if result.Risk == schema.CriticalRisk {
			critical++
		}
	}

	ratio := func(n int) float64 { return float64(n) / float64(total) }
	if ratio(noCICD) > 0.5 {
		recommendations = append(recommendations,
			fmt.Sprintf("Critical: %d/%d projects lack CI/CD configuration. Implement CI pipelines.", noCICD, total))
	}
	if ratio(noTests) > 0.7 {
		recommendations = append(recommendations,
			fmt.Sprintf("High Priority: %d/%d projects have insufficient test coverage (<10%%). Establish testing standards.", noTests, total))
	}
	if ratio(noDocs) > 0.6 {
		recommendations = append(recommendations,
			fmt.Sprintf("Medium Priority: %d/%d projects lack README documentation. Create documentation templates.", noDocs, total))
	}
	if ratio(noContainers) > 0.8 {
		recommendations = append(recommendations,
			fmt.Sprintf("Medium Priority: %d/%d projects are not containerized. Consider Docker adoption.", noContainers, total))
	}
	if critical > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Immediate Action: %d projects are at critical risk and need urgent remediation.", critical))
	}
	return recommendations
}
