package lang

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// JavaScriptProfiler analyzes JavaScript and TypeScript projects through
// their package.json and tooling configuration files. Both languages
// share one profiler since the ecosystem does not separate them.
type JavaScriptProfiler struct{}

// NewJavaScriptProfiler creates a JavaScript/TypeScript profiler.
func NewJavaScriptProfiler() *JavaScriptProfiler {
	return &JavaScriptProfiler{}
}

// Language implements the Profiler interface.
func (p *JavaScriptProfiler) Language() schema.Language {
	return schema.LangJavaScript
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

// Analyze implements the Profiler interface.
func (p *JavaScriptProfiler) Analyze(ctx context.Context, root string) (schema.MetricsMap, error) {
	metrics := schema.MetricsMap{}
	metrics.Merge(p.analyzePackageJSON(root))
	metrics.Merge(p.analyzeTooling(root))
	metrics.Merge(p.analyzeTesting(root))
	return metrics, nil
}

// analyzePackageJSON reads the root manifest. A missing or malformed
// file yields zero counts rather than an error.
func (p *JavaScriptProfiler) analyzePackageJSON(root string) schema.MetricsMap {
	metrics := schema.MetricsMap{
		"js_has_package_json":     false,
		"js_dependency_count":     0,
		"js_dev_dependency_count": 0,
	}

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return metrics
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return metrics
	}

	metrics["js_has_package_json"] = true
	metrics["js_dependency_count"] = len(pkg.Dependencies)
	metrics["js_dev_dependency_count"] = len(pkg.DevDependencies)
	metrics["js_script_count"] = len(pkg.Scripts)
	metrics["js_has_lint_script"] = pkg.Scripts["lint"] != ""
	metrics["js_has_test_script"] = pkg.Scripts["test"] != ""
	metrics["js_has_build_script"] = pkg.Scripts["build"] != ""

	hasDep := func(name string) bool {
		_, inDeps := pkg.Dependencies[name]
		_, inDev := pkg.DevDependencies[name]
		return inDeps || inDev
	}
	metrics["uses_react"] = hasDep("react")
	metrics["uses_vue"] = hasDep("vue")
	metrics["uses_angular"] = hasDep("@angular/core")
	metrics["uses_express"] = hasDep("express")
	metrics["uses_typescript"] = hasDep("typescript")
	metrics["uses_jest"] = hasDep("jest")
	metrics["uses_mocha"] = hasDep("mocha")
	metrics["uses_eslint"] = hasDep("eslint")

	return metrics
}

// analyzeTooling checks for the presence of common config files.
func (p *JavaScriptProfiler) analyzeTooling(root string) schema.MetricsMap {
	hasAnyFile := func(names ...string) bool {
		for _, name := range names {
			if fileExists(filepath.Join(root, name)) {
				return true
			}
		}
		return false
	}

	return schema.MetricsMap{
		"js_has_eslint_config":   hasAnyFile(".eslintrc", ".eslintrc.js", ".eslintrc.json", ".eslintrc.yml", "eslint.config.js"),
		"js_has_prettier_config": hasAnyFile(".prettierrc", ".prettierrc.js", ".prettierrc.json", "prettier.config.js"),
		"js_has_tsconfig":        hasAnyFile("tsconfig.json"),
		"js_has_webpack_config":  hasAnyFile("webpack.config.js"),
		"js_has_babel_config":    hasAnyFile(".babelrc", "babel.config.js"),
		"js_has_lockfile":        hasAnyFile("package-lock.json", "yarn.lock", "pnpm-lock.yaml"),
	}
}

// analyzeTesting counts spec/test files by naming convention.
func (p *JavaScriptProfiler) analyzeTesting(root string) schema.MetricsMap {
	sourceFiles := collectFiles(root, ".js", ".jsx", ".ts", ".tsx")

	testFiles, mainCount := 0, 0
	for _, sourceFile := range sourceFiles {
		base := filepath.Base(sourceFile)
		normalized := filepath.ToSlash(sourceFile)
		switch {
		case strings.Contains(base, ".test.") || strings.Contains(base, ".spec."):
			testFiles++
		case strings.Contains(normalized, "/__tests__/") || strings.Contains(normalized, "/test/"):
			testFiles++
		default:
			mainCount++
		}
	}

	return schema.MetricsMap{
		"js_test_files":      testFiles,
		"js_test_file_ratio": float64(testFiles) / maxFloat(float64(mainCount), 1),
	}
}
