package lang

import (
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// PythonProfiler analyzes Python projects: dependency manifests, lint
// tooling and test conventions.
type PythonProfiler struct{}

// NewPythonProfiler creates a Python profiler.
func NewPythonProfiler() *PythonProfiler {
	return &PythonProfiler{}
}

// Language implements the Profiler interface.
func (p *PythonProfiler) Language() schema.Language {
	return schema.LangPython
}

var (
	pyRequirementRe = regexp.MustCompile(`(?m)^\s*([A-Za-z0-9_.-]+)`)
	pyTestDefRe     = regexp.MustCompile(`(?m)^\s*def\s+test_\w+`)
	flake8CountRe   = regexp.MustCompile(`(?m)^.+:\d+:\d+:`)
)

// Analyze implements the Profiler interface.
func (p *PythonProfiler) Analyze(ctx context.Context, root string) (schema.MetricsMap, error) {
	pyFiles := collectFiles(root, ".py")
	metrics := schema.MetricsMap{}

	metrics.Merge(p.analyzeDependencies(root))
	metrics.Merge(p.analyzeTesting(pyFiles))
	metrics.Merge(p.runFlake8(ctx, root, pyFiles))

	return metrics, nil
}

// analyzeDependencies reads requirements files and modern project
// manifests without resolving them.
func (p *PythonProfiler) analyzeDependencies(root string) schema.MetricsMap {
	requirementFiles := collectPrefixFiles(root, "requirements")
	dependencyCount := 0
	for _, reqFile := range requirementFiles {
		if filepath.Ext(reqFile) != ".txt" {
			continue
		}
		content, ok := readFileText(reqFile)
		if !ok {
			continue
		}
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
				continue
			}
			if pyRequirementRe.MatchString(line) {
				dependencyCount++
			}
		}
	}

	hasPyproject := fileExists(filepath.Join(root, "pyproject.toml"))
	hasSetupPy := fileExists(filepath.Join(root, "setup.py"))
	hasPipfile := fileExists(filepath.Join(root, "Pipfile"))

	return schema.MetricsMap{
		"python_requirement_count":  dependencyCount,
		"python_has_requirements":   len(requirementFiles) > 0,
		"python_has_pyproject":      hasPyproject,
		"python_has_setup_py":       hasSetupPy,
		"python_has_pipfile":        hasPipfile,
		"python_has_package_config": hasPyproject || hasSetupPy || hasPipfile || len(requirementFiles) > 0,
	}
}

// analyzeTesting counts pytest-style test files and functions.
func (p *PythonProfiler) analyzeTesting(pyFiles []string) schema.MetricsMap {
	testFiles, testFunctions := 0, 0
	mainCount := 0

	for _, pyFile := range pyFiles {
		base := filepath.Base(pyFile)
		isTest := strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py")
		if !isTest {
			mainCount++
			continue
		}
		testFiles++
		if content, ok := readFileText(pyFile); ok {
			testFunctions += len(pyTestDefRe.FindAllString(content, -1))
		}
	}

	return schema.MetricsMap{
		"python_test_files":      testFiles,
		"python_test_functions":  testFunctions,
		"python_test_file_ratio": float64(testFiles) / maxFloat(float64(mainCount), 1),
	}
}

// runFlake8 invokes flake8 over a sample of files when the binary is on
// PATH. Absence or timeout marks the tool unavailable only.
func (p *PythonProfiler) runFlake8(ctx context.Context, root string, pyFiles []string) schema.MetricsMap {
	metrics := schema.MetricsMap{"flake8_available": false}
	if len(pyFiles) == 0 {
		return metrics
	}
	if _, err := exec.LookPath("flake8"); err != nil {
		return metrics
	}

	toolCtx, cancel := context.WithTimeout(ctx, defaultToolTimeout)
	defer cancel()

	args := append([]string{"--count"}, sample(pyFiles, 20)...)
	out, err := exec.CommandContext(toolCtx, "flake8", args...).Output()
	if err != nil {
		// flake8 exits nonzero when violations exist; stdout is still
		// usable as long as the process ran.
		if _, ok := err.(*exec.ExitError); !ok {
			return metrics
		}
	}

	metrics["flake8_available"] = true
	metrics["flake8_violations"] = len(flake8CountRe.FindAllString(string(out), -1))
	return metrics
}
