package lang

import (
	"os"
	"strings"
)

// deepNestingThreshold is the depth beyond which a file counts as deeply
// nested, and largeFileBytes the size beyond which it counts as large.
const (
	deepNestingThreshold = 5
	largeFileBytes       = 10 * 1024
)

// complexityExtensions are the source extensions the generic complexity
// pass inspects.
var complexityExtensions = []string{".py", ".js", ".ts", ".java", ".cs", ".cpp", ".c", ".go"}

// AnalyzeComplexity runs the language-agnostic complexity heuristics:
// maximum file size, count of files over 10 KB, and count of files whose
// brace/keyword nesting depth exceeds 5. It is not a parser; a brace in a
// string literal still counts, which is acceptable for a repository-level
// signal.
func AnalyzeComplexity(root string) map[string]any {
	var maxFileSize int64
	largeFiles := 0
	deepNesting := 0

	for _, path := range collectFiles(root, complexityExtensions...) {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Size() > maxFileSize {
			maxFileSize = info.Size()
		}
		if info.Size() > largeFileBytes {
			largeFiles++
		}

		content, ok := readFileText(path)
		if !ok {
			continue
		}
		if maxNestingDepth(content) > deepNestingThreshold {
			deepNesting++
		}
	}

	return map[string]any{
		"max_file_size_bytes": maxFileSize,
		"large_files_count":   largeFiles,
		"deep_nesting_files":  deepNesting,
	}
}

// maxNestingDepth tracks a running nesting counter line by line:
// opening braces and block keywords increment, closing braces decrement,
// and the depth never goes negative. Comment-only and blank lines are
// ignored.
func maxNestingDepth(content string) int {
	maxDepth := 0
	depth := 0

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "//") {
			continue
		}

		opens := strings.Count(line, "{") +
			strings.Count(line, "if ") +
			strings.Count(line, "for ") +
			strings.Count(line, "while ")
		closes := strings.Count(line, "}")

		depth += opens - closes
		if depth > maxDepth {
			maxDepth = depth
		}
		if depth < 0 {
			depth = 0
		}
	}
	return maxDepth
}
