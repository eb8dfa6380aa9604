package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchitecturePatternDetection(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/models/user.py":      "class User: pass\n",
		"app/views/user_view.py":  "def render(): pass\n",
		"app/controllers/user.py": "def handle(): pass\n",
		"domain/order.py":         "class Order: pass\n",
	})

	metrics := NewArchitectureAnalyzer().Analyze(root)

	assert.True(t, metrics.Bool("has_mvc_pattern"), "models+views+controllers")
	assert.False(t, metrics.Bool("has_clean_architecture_pattern"), "domain alone is one marker")
	assert.Equal(t, 5, metrics.Int("total_directories", 0))
	assert.Equal(t, 2, metrics.Int("max_directory_depth", 0))
}

func TestArchitectureDeployConfig(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Dockerfile":               "FROM alpine\n",
		"deploy/k8s/service.yaml":  "kind: Service\n",
		"infra/main.tf":            "resource {}\n",
		".env.example":             "PORT=8080\n",
		"docs/notes.yaml":          "a: b\n",
	})

	metrics := NewArchitectureAnalyzer().Analyze(root)

	assert.True(t, metrics.Bool("has_docker_config"))
	assert.True(t, metrics.Bool("has_kubernetes_config"))
	assert.True(t, metrics.Bool("has_terraform_config"))
	assert.True(t, metrics.Bool("has_environment_config"))
	assert.False(t, metrics.Bool("has_ansible_config"))
}

func TestArchitectureYAMLAloneIsNotKubernetes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"config/settings.yaml": "debug: false\n",
	})

	metrics := NewArchitectureAnalyzer().Analyze(root)
	assert.False(t, metrics.Bool("has_kubernetes_config"))
}

func TestArchitectureDocumentation(t *testing.T) {
	root := t.TempDir()
	readme := "# Service\n\n## Install\n\n## Usage\n\n## License\n\n" + strings.Repeat("More detail here.\n", 40)
	writeTree(t, root, map[string]string{
		"README.md":       readme,
		"CHANGELOG.md":    "# Changelog\n",
		"CONTRIBUTING.md": "# Contributing\n",
		"openapi.yml":     "openapi: 3.0.0\n",
		"api/v1.proto":    "syntax = \"proto3\";\n",
	})

	metrics := NewArchitectureAnalyzer().Analyze(root)

	assert.True(t, metrics.Bool("has_readme"))
	assert.Equal(t, len(readme), metrics.Int("readme_length", 0))
	assert.True(t, metrics.Bool("readme_has_sections"))
	assert.Equal(t, 3, metrics.Int("documentation_files", 0))
	assert.True(t, metrics.Bool("has_api_specifications"))
	assert.Equal(t, 2, metrics.Int("api_specification_count", 0))
}

func TestArchitectureBareTree(t *testing.T) {
	metrics := NewArchitectureAnalyzer().Analyze(t.TempDir())

	assert.False(t, metrics.Bool("has_readme"))
	assert.Equal(t, 0, metrics.Int("documentation_files", -1))
	assert.False(t, metrics.Bool("has_api_specifications"))
	assert.Equal(t, 0, metrics.Int("max_directory_depth", -1))
}
