// Package core has the debt analysis pipeline: structural scanning,
// architecture, infrastructure and operations analyzers, the score
// calculator and the scan orchestration on top of them.
package core

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/selwyntheo/fund-services-architect/core/lang"
	"github.com/selwyntheo/fund-services-architect/schema"
)

// docSampleLimit bounds the inline-documentation sample.
const docSampleLimit = 50

// codeExtensions is the allowlist of extensions counted as code.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".java": true, ".cs": true, ".go": true, ".rb": true, ".php": true,
	".rs": true, ".kt": true, ".cpp": true, ".cc": true, ".c": true,
	".swift": true, ".scala": true,
}

// configExtensions is the allowlist of extensions counted as configuration.
var configExtensions = map[string]bool{
	".yml": true, ".yaml": true, ".json": true, ".xml": true,
	".toml": true, ".ini": true, ".cfg": true, ".properties": true,
}

// StructuralScanner produces the language-agnostic file and line counts
// that feed the code quality category.
type StructuralScanner struct{}

// NewStructuralScanner creates a structural scanner.
func NewStructuralScanner() *StructuralScanner {
	return &StructuralScanner{}
}

// Analyze walks the tree once and returns file counts, non-blank lines of
// code, test and config ratios, and the sampled documentation ratio.
// Unreadable files are skipped; they contribute zero to every count.
func (s *StructuralScanner) Analyze(root string) schema.MetricsMap {
	totalFiles, codeFiles, testFiles, configFiles := 0, 0, 0, 0
	totalLines := 0
	var sampledCode []string

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if lang.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		totalFiles++
		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case codeExtensions[ext]:
			codeFiles++
			if isTestFile(path) {
				testFiles++
			}
			totalLines += countNonBlankLines(path)
			if len(sampledCode) < docSampleLimit {
				sampledCode = append(sampledCode, path)
			}
		case configExtensions[ext]:
			configFiles++
		}
		return nil
	})

	metrics := schema.MetricsMap{
		"total_files":          totalFiles,
		"code_files":           codeFiles,
		"test_files":           testFiles,
		"config_files":         configFiles,
		"total_lines_of_code":  totalLines,
		"test_to_code_ratio":   float64(testFiles) / maxIntFloat(codeFiles-testFiles, 1),
		"avg_lines_per_file":   float64(totalLines) / maxIntFloat(codeFiles, 1),
	}
	if ratio, ok := documentationRatio(sampledCode); ok {
		metrics["code_documentation_ratio"] = ratio
	}
	return metrics
}

// isTestFile matches the common test naming conventions across the
// supported languages.
func isTestFile(path string) bool {
	normalized := strings.ToLower(filepath.ToSlash(path))
	base := filepath.Base(normalized)

	if strings.Contains(normalized, "/test/") || strings.Contains(normalized, "/tests/") ||
		strings.Contains(normalized, "/__tests__/") {
		return true
	}
	if strings.HasPrefix(base, "test_") || strings.Contains(base, "_test.") ||
		strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	return strings.HasSuffix(base, "test.java") || strings.HasSuffix(base, "tests.cs")
}

// countNonBlankLines returns the number of non-blank lines, or zero when
// the file cannot be read.
func countNonBlankLines(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	lines := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	return lines
}

// documentationRatio reports the fraction of sampled code files carrying
// any inline documentation marker. The second return is false when there
// was nothing to sample.
func documentationRatio(sampled []string) (float64, bool) {
	if len(sampled) == 0 {
		return 0, false
	}
	documented := 0
	for _, path := range sampled {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := string(data)
		if strings.Contains(content, `"""`) || strings.Contains(content, "/*") ||
			strings.Count(content, "#") > 5 {
			documented++
		}
	}
	return float64(documented) / float64(len(sampled)), true
}

func maxIntFloat(n, floor int) float64 {
	if n < floor {
		n = floor
	}
	return float64(n)
}
