package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuralScanner(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/app.py":          "import os\n\nprint('hi')\n",
		"src/util.py":         "def util():\n    return 1\n",
		"tests/test_app.py":   "def test_app():\n    assert True\n",
		"config.yml":          "key: value\n",
		"README.md":           "# readme\n",
		"node_modules/dep.js": "module.exports = {};\n",
	})

	metrics := NewStructuralScanner().Analyze(root)

	assert.Equal(t, 5, metrics.Int("total_files", 0), "node_modules excluded")
	assert.Equal(t, 3, metrics.Int("code_files", 0))
	assert.Equal(t, 1, metrics.Int("test_files", 0))
	assert.Equal(t, 1, metrics.Int("config_files", 0))
	assert.Equal(t, 6, metrics.Int("total_lines_of_code", 0), "non-blank lines only")
	// 1 test file over 2 non-test code files.
	assert.InDelta(t, 0.5, metrics.Float("test_to_code_ratio", 0), 1e-9)
	assert.InDelta(t, 2.0, metrics.Float("avg_lines_per_file", 0), 1e-9)
}

func TestStructuralScannerEmptyTree(t *testing.T) {
	metrics := NewStructuralScanner().Analyze(t.TempDir())

	assert.Equal(t, 0, metrics.Int("code_files", -1))
	assert.InDelta(t, 0.0, metrics.Float("test_to_code_ratio", -1), 1e-9)
	assert.InDelta(t, 0.0, metrics.Float("avg_lines_per_file", -1), 1e-9)
	_, hasDocRatio := metrics["code_documentation_ratio"]
	assert.False(t, hasDocRatio, "nothing sampled, ratio must stay absent")
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/test_parser.py", true},
		{"src/parser_test.go", true},
		{"web/app.test.js", true},
		{"web/app.spec.ts", true},
		{"src/test/java/AppTest.java", true},
		{"src/main/java/OrderServiceTest.java", true},
		{"src/Orders.Tests/OrderTests.cs", true},
		{"src/tests/helper.py", true},
		{"src/parser.py", false},
		{"src/contest.py", false},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, isTestFile(tc.path), tc.path)
		})
	}
}
