package core

import (
	"github.com/selwyntheo/fund-services-architect/schema"
)

// Calculator reduces the four collected metric maps into category debt
// scores, a weighted overall score and a risk level. It never touches the
// filesystem; every input was gathered by the analyzers.
type Calculator struct {
	weights map[schema.Category]float64
}

// NewCalculator creates a calculator with the default category weights.
func NewCalculator() *Calculator {
	return NewCalculatorWithWeights(schema.DefaultCategoryWeights)
}

// NewCalculatorWithWeights creates a calculator with custom weights. The
// caller is responsible for supplying weights that sum to 1.
func NewCalculatorWithWeights(weights map[schema.Category]float64) *Calculator {
	w := make(map[schema.Category]float64, len(weights))
	for category, weight := range weights {
		w[category] = weight
	}
	return &Calculator{weights: w}
}

// Calculate produces a DebtMetrics from the raw analyzer output.
func (c *Calculator) Calculate(raw schema.RawMetrics) schema.DebtMetrics {
	codeScore := c.codeQualityScore(raw.CodeAnalysis)
	archScore := c.architectureScore(raw.ArchitectureAnalysis, raw.CodeAnalysis)
	infraScore := c.infrastructureScore(raw.InfrastructureAnalysis)
	opsScore := c.operationsScore(raw.OperationsAnalysis)

	overall := codeScore*c.weights[schema.CodeQuality] +
		archScore*c.weights[schema.Architecture] +
		infraScore*c.weights[schema.Infrastructure] +
		opsScore*c.weights[schema.Operations]

	return schema.DebtMetrics{
		CodeQualityScore:    codeScore,
		ArchitectureScore:   archScore,
		InfrastructureScore: infraScore,
		OperationsScore:     opsScore,
		OverallScore:        overall,
		Raw:                 raw,
	}
}

// codeQualityScore sums the generic penalties and the per-language fold
// ins. Strong architecture in a language profile subtracts a bonus, so
// the sum is clamped at both ends.
func (c *Calculator) codeQualityScore(m schema.MetricsMap) float64 {
	score := 0.0
	codeFiles := m.Float("code_files", 1)
	if codeFiles < 1 {
		codeFiles = 1
	}

	switch testRatio := m.Float("test_to_code_ratio", 0); {
	case testRatio < 0.1:
		score += 1.5
	case testRatio < 0.3:
		score += 1.0
	case testRatio < 0.5:
		score += 0.5
	}

	switch avgLines := m.Float("avg_lines_per_file", 0); {
	case avgLines > 500:
		score += 1.0
	case avgLines > 300:
		score += 0.5
	}

	switch largeRatio := m.Float("large_files_count", 0) / codeFiles; {
	case largeRatio > 0.3:
		score += 1.0
	case largeRatio > 0.1:
		score += 0.5
	}

	if m.Float("deep_nesting_files", 0)/codeFiles > 0.2 {
		score += 0.5
	}

	if python := m.Sub("python_analysis"); python != nil && python.Bool("flake8_available") {
		switch perFile := python.Float("flake8_violations", 0) / codeFiles; {
		case perFile > 5:
			score += 1.0
		case perFile > 2:
			score += 0.5
		}
	}

	switch docRatio := m.Float("code_documentation_ratio", 1.0); {
	case docRatio < 0.2:
		score += 1.0
	case docRatio < 0.5:
		score += 0.5
	}

	score += javaCodePenalties(m.Sub("java_analysis"))
	score += dotnetCodePenalties(m.Sub("dotnet_analysis"))

	return clampScore(score)
}

func javaCodePenalties(java schema.MetricsMap) float64 {
	if java == nil {
		return 0
	}
	score := 0.0

	switch testRatio := java.Float("java_test_to_main_ratio", 0); {
	case testRatio < 0.2:
		score += 1.0
	case testRatio < 0.5:
		score += 0.5
	}

	switch godRatio := java.Float("java_god_class_ratio", 0); {
	case godRatio > 0.1:
		score += 1.5
	case godRatio > 0.05:
		score += 1.0
	}

	switch pkgScore := java.Float("java_package_organization_score", 1.0); {
	case pkgScore < 0.5:
		score += 1.0
	case pkgScore < 0.7:
		score += 0.5
	}

	if java.Bool("checkstyle_available") {
		switch violations := java.Float("checkstyle_violations", 0); {
		case violations > 100:
			score += 1.0
		case violations > 50:
			score += 0.5
		}
	}
	return score
}

func dotnetCodePenalties(dotnet schema.MetricsMap) float64 {
	if dotnet == nil {
		return 0
	}
	score := 0.0

	switch testRatio := dotnet.Float("dotnet_test_file_ratio", 0); {
	case testRatio < 0.2:
		score += 1.0
	case testRatio < 0.5:
		score += 0.5
	}

	switch godRatio := dotnet.Float("dotnet_god_class_ratio", 0); {
	case godRatio > 0.1:
		score += 1.5
	case godRatio > 0.05:
		score += 1.0
	}

	if dotnet.Bool("dotnet_uses_legacy_framework") {
		score += 1.5
	}

	// Good architecture reduces debt.
	if dotnet.Bool("dotnet_has_clean_architecture") {
		score -= 0.5
	} else if dotnet.Bool("dotnet_has_layered_architecture") {
		score -= 0.3
	}
	return score
}

// architectureScore reads the architecture metrics plus the language sub
// maps collected under code analysis.
func (c *Calculator) architectureScore(m, code schema.MetricsMap) float64 {
	score := 0.0

	switch depth := m.Float("max_directory_depth", 0); {
	case depth > 8:
		score += 1.0
	case depth > 6:
		score += 0.5
	}

	hasPattern := m.Bool("has_mvc_pattern") || m.Bool("has_layered_pattern") ||
		m.Bool("has_microservices_pattern") || m.Bool("has_clean_architecture_pattern")
	if !hasPattern {
		score += 1.0
	}

	if !m.Bool("has_docker_config") && !m.Bool("has_kubernetes_config") {
		score += 0.5
	}

	if !m.Bool("has_api_specifications") {
		score += 0.5
	}

	if !m.Bool("has_readme") {
		score += 1.0
	} else if m.Float("readme_length", 0) < 500 {
		score += 0.5
	}

	if m.Float("documentation_files", 0) < 2 {
		score += 0.5
	}

	if java := code.Sub("java_analysis"); java != nil {
		if !java.Bool("java_follows_standard_structure") {
			score += 1.0
		}
		if !java.Bool("java_has_layered_architecture") {
			score += 1.5
		}
		if !java.Bool("uses_spring") && java.Float("java_main_classes", 0) > 50 {
			score += 0.5
		}
	}

	if dotnet := code.Sub("dotnet_analysis"); dotnet != nil {
		if !dotnet.Bool("dotnet_has_layered_architecture") {
			score += 1.5
		}
		if !dotnet.Bool("dotnet_uses_dependency_injection") {
			score += 1.0
		}
		if dotnet.Float("dotnet_solution_projects", 0) > 10 && !dotnet.Bool("dotnet_has_clean_architecture") {
			score += 1.0
		}
	}

	return clampScore(score)
}

func (c *Calculator) infrastructureScore(m schema.MetricsMap) float64 {
	score := 0.0

	if !m.Bool("has_cicd_config") {
		score += 2.0
	} else {
		switch successRate := m.Float("pipeline_success_rate", 1.0); {
		case successRate < 0.7:
			score += 1.5
		case successRate < 0.9:
			score += 0.5
		}
	}

	if secrets := m.Float("potential_hardcoded_secrets", 0); secrets > 0 {
		penalty := secrets * 0.5
		if penalty > 2.0 {
			penalty = 2.0
		}
		score += penalty
	}

	if !m.Bool("has_gitignore") {
		score += 0.5
	}

	if !m.Bool("is_containerized") {
		score += 1.0
	}

	hasMonitoring := m.Bool("has_prometheus_config") || m.Bool("has_grafana_config") ||
		m.Bool("has_elasticsearch_config")
	if !hasMonitoring {
		score += 1.0
	}

	if m.Float("logging_usage_ratio", 0) < 0.3 {
		score += 0.5
	}

	return clampScore(score)
}

func (c *Calculator) operationsScore(m schema.MetricsMap) float64 {
	score := 0.0

	switch commitsPerWeek := m.Float("commits_per_week", 0); {
	case commitsPerWeek < 1:
		score += 1.5
	case commitsPerWeek < 3:
		score += 0.5
	}

	switch deploysPerWeek := m.Float("deployments_per_week", 0); {
	case deploysPerWeek < 0.25:
		score += 1.5
	case deploysPerWeek < 1:
		score += 1.0
	}

	switch maintenance := m.Float("maintenance_commit_percentage", 0); {
	case maintenance > 70:
		score += 2.0
	case maintenance > 60:
		score += 1.5
	case maintenance > 40:
		score += 1.0
	}

	if m.Int("unique_contributors", 1) == 1 {
		score += 1.0
	}

	if m.Float("contribution_gini_coefficient", 0) > 0.8 {
		score += 0.5
	}

	if m.Float("deployment_regularity", 0) > 14 {
		score += 0.5
	}

	return clampScore(score)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > schema.MaxCategoryScore {
		return schema.MaxCategoryScore
	}
	return score
}
