package lang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxNestingDepth(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"flat", "x = 1\ny = 2\n", 0},
		// Keyword and brace on the same line both count, so "if x {" adds 2.
		{"single block", "if x {\n  y()\n}\n", 2},
		{"nested braces", "func a() {\n if x {\n  for i {\n   b()\n  }\n }\n}\n", 5},
		{"python keywords", "if x:\n    if y:\n        pass\n", 2},
		{"comments ignored", "# if x {\n// for y {\nz = 1\n", 0},
		{"never negative", "}\n}\nx = 1\n", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, maxNestingDepth(tc.content))
		})
	}
}

func TestAnalyzeComplexity(t *testing.T) {
	root := t.TempDir()
	deep := "if a {\nif b {\nif c {\nif d {\nif e {\nif f {\nx()\n}\n}\n}\n}\n}\n}\n"
	writeTree(t, root, map[string]string{
		"big.py":   strings.Repeat("x = 1\n", 2000),
		"deep.go":  deep,
		"small.js": "console.log('hi');\n",
	})

	result := AnalyzeComplexity(root)

	assert.Greater(t, result["max_file_size_bytes"].(int64), int64(10*1024))
	assert.Equal(t, 1, result["large_files_count"])
	assert.Equal(t, 1, result["deep_nesting_files"])
}
