package core

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/selwyntheo/fund-services-architect/core/lang"
	"github.com/selwyntheo/fund-services-architect/schema"
)

// architecturePatterns maps each recognized pattern to its characteristic
// directory-name substrings. A pattern counts as present when at least
// two of its substrings match directory names somewhere in the tree.
var architecturePatterns = map[string][]string{
	"mvc":                {"models", "views", "controllers"},
	"layered":            {"service", "repository", "controller", "entity"},
	"microservices":      {"services", "api", "gateway"},
	"clean_architecture": {"domain", "application", "infrastructure"},
}

// readmeNames are the documentation files the analyzer looks for at the
// repository root.
var readmeNames = []string{"README.md", "README.rst", "README.txt", "CHANGELOG.md", "CONTRIBUTING.md"}

// ArchitectureAnalyzer detects layout patterns, deployment configuration
// and documentation presence.
type ArchitectureAnalyzer struct{}

// NewArchitectureAnalyzer creates an architecture analyzer.
func NewArchitectureAnalyzer() *ArchitectureAnalyzer {
	return &ArchitectureAnalyzer{}
}

// Analyze returns the architecture metrics for the tree rooted at root.
func (a *ArchitectureAnalyzer) Analyze(root string) schema.MetricsMap {
	dirs, files := walkNames(root)

	metrics := schema.MetricsMap{}
	metrics.Merge(analyzeDirectoryStructure(root, dirs))
	metrics.Merge(analyzeDeployConfig(files))
	metrics.Merge(analyzeAPISpecs(files))
	metrics.Merge(analyzeDocumentation(root))
	return metrics
}

// walkNames collects relative directory paths and file base-name/relative
// pairs in one pass.
func walkNames(root string) (dirs []string, files []string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if d.IsDir() {
			if lang.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			dirs = append(dirs, filepath.ToSlash(rel))
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return dirs, files
}

// analyzeDirectoryStructure computes depth counts and pattern flags.
func analyzeDirectoryStructure(root string, dirs []string) schema.MetricsMap {
	maxDepth := 0
	for _, dir := range dirs {
		depth := strings.Count(dir, "/") + 1
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	metrics := schema.MetricsMap{
		"max_directory_depth": maxDepth,
		"total_directories":   len(dirs),
	}

	lowered := make([]string, len(dirs))
	for i, dir := range dirs {
		lowered[i] = strings.ToLower(dir)
	}
	for pattern, markers := range architecturePatterns {
		matches := 0
		for _, marker := range markers {
			for _, dir := range lowered {
				if strings.Contains(dir, marker) {
					matches++
					break
				}
			}
		}
		metrics["has_"+pattern+"_pattern"] = matches >= 2
	}
	return metrics
}

// analyzeDeployConfig flags docker, kubernetes, terraform, ansible and
// environment configuration by file name. Kubernetes detection requires a
// kustomization file or manifests under a k8s-style directory rather than
// any YAML file, which would flag nearly every repository.
func analyzeDeployConfig(files []string) schema.MetricsMap {
	hasDocker, hasKubernetes, hasTerraform := false, false, false
	hasAnsible, hasEnvConfig := false, false
	configFileCount := 0

	for _, rel := range files {
		base := strings.ToLower(filepath.Base(rel))
		dir := strings.ToLower(filepath.Dir(rel))
		isYAML := strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml")

		if isYAML || strings.HasSuffix(base, ".json") || strings.HasSuffix(base, ".toml") {
			configFileCount++
		}

		switch {
		case base == "dockerfile" || strings.HasPrefix(base, "docker-compose") || base == ".dockerignore":
			hasDocker = true
		case base == "kustomization.yaml" || base == "kustomization.yml":
			hasKubernetes = true
		case isYAML && containsPathSegment(dir, "k8s", "kubernetes", "manifests", "helm", "charts"):
			hasKubernetes = true
		case strings.HasSuffix(base, ".tf") || strings.HasSuffix(base, ".tfvars"):
			hasTerraform = true
		case base == "playbook.yml" || base == "inventory.ini" || containsPathSegment(dir, "ansible"):
			hasAnsible = true
		case strings.HasPrefix(base, ".env") || base == "config.json" || base == "settings.yml":
			hasEnvConfig = true
		}
	}

	return schema.MetricsMap{
		"has_docker_config":      hasDocker,
		"has_kubernetes_config":  hasKubernetes,
		"has_terraform_config":   hasTerraform,
		"has_ansible_config":     hasAnsible,
		"has_environment_config": hasEnvConfig,
		"total_config_files":     configFileCount,
	}
}

// analyzeAPISpecs counts API specification files.
func analyzeAPISpecs(files []string) schema.MetricsMap {
	specs := 0
	for _, rel := range files {
		base := strings.ToLower(filepath.Base(rel))
		if strings.HasPrefix(base, "openapi.") || strings.HasPrefix(base, "swagger.") ||
			base == "api.yml" || base == "api.yaml" || strings.HasSuffix(base, ".proto") {
			specs++
		}
	}
	return schema.MetricsMap{
		"has_api_specifications":  specs > 0,
		"api_specification_count": specs,
	}
}

// analyzeDocumentation reads the root-level documentation files and
// measures the README.
func analyzeDocumentation(root string) schema.MetricsMap {
	metrics := schema.MetricsMap{}
	found := 0
	hasReadme := false

	for _, name := range readmeNames {
		path := filepath.Join(root, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		found++
		if !strings.HasPrefix(name, "README") {
			continue
		}
		hasReadme = true
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := string(data)
		sections := 0
		for _, line := range strings.Split(content, "\n") {
			if strings.HasPrefix(line, "#") {
				sections++
			}
		}
		metrics["readme_length"] = len(content)
		metrics["readme_has_sections"] = sections > 3
	}

	metrics["documentation_files"] = found
	metrics["has_readme"] = hasReadme
	return metrics
}

// containsPathSegment reports whether any path segment of dir equals one
// of the names.
func containsPathSegment(dir string, names ...string) bool {
	for _, segment := range strings.Split(dir, "/") {
		for _, name := range names {
			if segment == name {
				return true
			}
		}
	}
	return false
}
