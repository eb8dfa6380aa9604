package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/selwyntheo/fund-services-architect/schema"
)

func TestInfrastructureCICDDetection(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitlab-ci.yml":            "stages: [build]\n",
		".github/workflows/ci.yml":  "on: push\n",
		"Jenkinsfile":               "pipeline {}\n",
	})

	metrics := NewInfrastructureAnalyzer().Analyze(root, nil)

	assert.True(t, metrics.Bool("has_cicd_config"))
	assert.Equal(t, 3, metrics.Int("cicd_config_count", 0))
	_, hasRate := metrics["pipeline_success_rate"]
	assert.False(t, hasRate, "no pipeline records supplied")
}

func TestInfrastructurePipelineStats(t *testing.T) {
	pipelines := []schema.PipelineRecord{
		{Status: "success", DurationSeconds: 120},
		{Status: "success", DurationSeconds: 180},
		{Status: "failed"},
		{Status: "canceled"},
	}

	metrics := NewInfrastructureAnalyzer().Analyze(t.TempDir(), pipelines)

	assert.InDelta(t, 0.5, metrics.Float("pipeline_success_rate", 0), 1e-9)
	assert.InDelta(t, 0.25, metrics.Float("pipeline_failure_rate", 0), 1e-9)
	assert.Equal(t, 4, metrics.Int("recent_pipeline_count", 0))
	assert.InDelta(t, 150.0, metrics.Float("avg_pipeline_duration", 0), 1e-9)
}

func TestInfrastructureSecretHeuristic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"config/app.yml":     "database:\n  password: hunter2\n",
		".env":               "API_KEY=abc123\n",
		"config/logging.yml": "level: info\n",
		"notes.txt":          "password=plaintext\n",
	})

	metrics := NewInfrastructureAnalyzer().Analyze(root, nil)

	// The .txt file is not a config file and does not count.
	assert.Equal(t, 2, metrics.Int("potential_hardcoded_secrets", 0))
}

func TestInfrastructureContainerizationAndMonitoring(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Dockerfile":             "FROM alpine\n",
		"docker-compose.yml":     "services: {}\n",
		"monitoring/prometheus.yml": "scrape_configs: []\n",
		"charts/values.yaml":     "replicas: 2\n",
		"app/main.py":            "import logging\nlogging.info('up')\n",
		"app/worker.py":          "def run(): pass\n",
	})

	metrics := NewInfrastructureAnalyzer().Analyze(root, nil)

	assert.True(t, metrics.Bool("has_dockerfile"))
	assert.True(t, metrics.Bool("has_docker_compose"))
	assert.True(t, metrics.Bool("is_containerized"))
	assert.True(t, metrics.Bool("has_prometheus_config"))
	assert.True(t, metrics.Bool("has_helm_config"))
	assert.False(t, metrics.Bool("has_grafana_config"))
	assert.InDelta(t, 0.5, metrics.Float("logging_usage_ratio", 0), 1e-9)
}

func TestInfrastructureBareTree(t *testing.T) {
	metrics := NewInfrastructureAnalyzer().Analyze(t.TempDir(), nil)

	assert.False(t, metrics.Bool("has_cicd_config"))
	assert.False(t, metrics.Bool("is_containerized"))
	assert.False(t, metrics.Bool("has_gitignore"))
	assert.Equal(t, 0, metrics.Int("potential_hardcoded_secrets", -1))
}
