package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// loggingSampleLimit bounds the logging-library usage sample.
const loggingSampleLimit = 20

// ciFileMarkers are the CI configuration files the analyzer recognizes.
var ciFileMarkers = []string{".gitlab-ci.yml", "Jenkinsfile", ".travis.yml", "azure-pipelines.yml"}

// sensitiveKeywords drive the hardcoded-secret heuristic over config files.
var sensitiveKeywords = []string{"password", "secret", "key", "token", "api_key"}

// loggingMarkers indicate a logging library in source text.
var loggingMarkers = []string{"import logging", "console.log", "logger.", "log4j", "slog.", "zerolog"}

// InfrastructureAnalyzer inspects CI/CD, security hygiene, deployment and
// monitoring configuration, folding in externally supplied pipeline runs.
type InfrastructureAnalyzer struct{}

// NewInfrastructureAnalyzer creates an infrastructure analyzer.
func NewInfrastructureAnalyzer() *InfrastructureAnalyzer {
	return &InfrastructureAnalyzer{}
}

// Analyze returns the infrastructure metrics for root. The pipeline
// records come from an external collector; with none supplied the
// pipeline-derived metrics stay at their zero defaults.
func (a *InfrastructureAnalyzer) Analyze(root string, pipelines []schema.PipelineRecord) schema.MetricsMap {
	_, files := walkNames(root)

	metrics := schema.MetricsMap{}
	metrics.Merge(analyzeCICD(root, files, pipelines))
	metrics.Merge(analyzeSecurityHygiene(root, files))
	metrics.Merge(analyzeContainerization(files))
	metrics.Merge(analyzeMonitoring(root, files))
	return metrics
}

func analyzeCICD(root string, files []string, pipelines []schema.PipelineRecord) schema.MetricsMap {
	ciCount := 0
	for _, marker := range ciFileMarkers {
		if fileExistsAt(filepath.Join(root, marker)) {
			ciCount++
		}
	}
	for _, rel := range files {
		if strings.HasPrefix(rel, ".github/workflows/") &&
			(strings.HasSuffix(rel, ".yml") || strings.HasSuffix(rel, ".yaml")) {
			ciCount++
		}
	}

	metrics := schema.MetricsMap{
		"has_cicd_config":   ciCount > 0,
		"cicd_config_count": ciCount,
	}

	if len(pipelines) == 0 {
		return metrics
	}

	successful, failed := 0, 0
	var durations []float64
	for _, p := range pipelines {
		switch p.Status {
		case "success":
			successful++
		case "failed":
			failed++
		}
		if p.DurationSeconds > 0 {
			durations = append(durations, p.DurationSeconds)
		}
	}
	total := float64(len(pipelines))
	metrics["pipeline_success_rate"] = float64(successful) / total
	metrics["pipeline_failure_rate"] = float64(failed) / total
	metrics["recent_pipeline_count"] = len(pipelines)
	if len(durations) > 0 {
		metrics["avg_pipeline_duration"] = mean(durations)
	}
	return metrics
}

// analyzeSecurityHygiene checks lockfile and policy presence and counts
// config files whose content carries a sensitive keyword next to an
// assignment. The count is a proxy signal, not a secret detector.
func analyzeSecurityHygiene(root string, files []string) schema.MetricsMap {
	metrics := schema.MetricsMap{
		"has_security_policy": fileExistsAt(filepath.Join(root, "SECURITY.md")),
		"has_gitignore":       fileExistsAt(filepath.Join(root, ".gitignore")),
		"has_python_deps":     fileExistsAt(filepath.Join(root, "requirements.txt")),
		"has_npm_lockfile":    fileExistsAt(filepath.Join(root, "package-lock.json")),
		"has_ruby_lockfile":   fileExistsAt(filepath.Join(root, "Gemfile.lock")),
	}

	potentialSecrets := 0
	for _, rel := range files {
		base := strings.ToLower(filepath.Base(rel))
		isConfig := strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml") ||
			strings.HasSuffix(base, ".json") || strings.HasPrefix(base, ".env")
		if !isConfig {
			continue
		}
		content, ok := readRepoFile(root, rel)
		if !ok {
			continue
		}
		lower := strings.ToLower(content)
		if !strings.Contains(lower, "=") && !strings.Contains(lower, ":") {
			continue
		}
		for _, keyword := range sensitiveKeywords {
			if strings.Contains(lower, keyword) {
				potentialSecrets++
				break
			}
		}
	}
	metrics["potential_hardcoded_secrets"] = potentialSecrets
	return metrics
}

func analyzeContainerization(files []string) schema.MetricsMap {
	hasDockerfile, hasCompose := false, false
	hasHelm, hasServerless, hasCloudFormation := false, false, false

	for _, rel := range files {
		base := strings.ToLower(filepath.Base(rel))
		switch {
		case base == "dockerfile":
			hasDockerfile = true
		case strings.HasPrefix(base, "docker-compose"):
			hasCompose = true
		case base == "chart.yaml" || base == "values.yaml":
			hasHelm = true
		case base == "serverless.yml" || base == "serverless.yaml":
			hasServerless = true
		case strings.HasSuffix(base, ".template"):
			hasCloudFormation = true
		}
	}

	return schema.MetricsMap{
		"has_dockerfile":            hasDockerfile,
		"has_docker_compose":        hasCompose,
		"is_containerized":          hasDockerfile || hasCompose,
		"has_helm_config":           hasHelm,
		"has_serverless_config":     hasServerless,
		"has_cloudformation_config": hasCloudFormation,
	}
}

// analyzeMonitoring flags observability configuration by file name and
// samples source files for logging-library usage.
func analyzeMonitoring(root string, files []string) schema.MetricsMap {
	hasPrometheus, hasGrafana, hasElasticsearch := false, false, false
	hasLogstash, hasKibana := false, false
	var codeFiles []string

	for _, rel := range files {
		base := strings.ToLower(filepath.Base(rel))
		dir := strings.ToLower(filepath.Dir(rel))
		switch {
		case base == "prometheus.yml" || (strings.HasPrefix(base, "alert") && strings.HasSuffix(base, ".yml")):
			hasPrometheus = true
		case base == "grafana.ini" || containsPathSegment(dir, "grafana", "dashboards"):
			hasGrafana = true
		case base == "elasticsearch.yml":
			hasElasticsearch = true
		case base == "logstash.conf":
			hasLogstash = true
		case base == "kibana.yml":
			hasKibana = true
		}
		ext := filepath.Ext(base)
		if ext == ".py" || ext == ".js" || ext == ".java" || ext == ".go" || ext == ".cs" {
			codeFiles = append(codeFiles, rel)
		}
	}

	metrics := schema.MetricsMap{
		"has_prometheus_config":    hasPrometheus,
		"has_grafana_config":       hasGrafana,
		"has_elasticsearch_config": hasElasticsearch,
		"has_logstash_config":      hasLogstash,
		"has_kibana_config":        hasKibana,
	}

	if len(codeFiles) == 0 {
		return metrics
	}
	if len(codeFiles) > loggingSampleLimit {
		codeFiles = codeFiles[:loggingSampleLimit]
	}
	usingLogging := 0
	for _, rel := range codeFiles {
		content, ok := readRepoFile(root, rel)
		if !ok {
			continue
		}
		lower := strings.ToLower(content)
		for _, marker := range loggingMarkers {
			if strings.Contains(lower, marker) {
				usingLogging++
				break
			}
		}
	}
	metrics["logging_usage_ratio"] = float64(usingLogging) / float64(len(codeFiles))
	return metrics
}

func readRepoFile(root, rel string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func fileExistsAt(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
