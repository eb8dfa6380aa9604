package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePackageJSON = `{
  "name": "storefront",
  "dependencies": {
    "react": "^18.2.0",
    "express": "^4.19.0"
  },
  "devDependencies": {
    "typescript": "^5.4.0",
    "jest": "^29.7.0",
    "eslint": "^9.0.0"
  },
  "scripts": {
    "test": "jest",
    "lint": "eslint .",
    "build": "tsc"
  }
}`

func TestJavaScriptProfilerPackageJSON(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json": samplePackageJSON,
	})

	metrics := NewJavaScriptProfiler().analyzePackageJSON(root)

	assert.True(t, metrics.Bool("js_has_package_json"))
	assert.Equal(t, 2, metrics.Int("js_dependency_count", 0))
	assert.Equal(t, 3, metrics.Int("js_dev_dependency_count", 0))
	assert.Equal(t, 3, metrics.Int("js_script_count", 0))
	assert.True(t, metrics.Bool("js_has_test_script"))
	assert.True(t, metrics.Bool("js_has_lint_script"))
	assert.True(t, metrics.Bool("js_has_build_script"))

	assert.True(t, metrics.Bool("uses_react"))
	assert.True(t, metrics.Bool("uses_express"))
	assert.True(t, metrics.Bool("uses_typescript"))
	assert.True(t, metrics.Bool("uses_jest"))
	assert.True(t, metrics.Bool("uses_eslint"))
	assert.False(t, metrics.Bool("uses_vue"))
	assert.False(t, metrics.Bool("uses_angular"))
	assert.False(t, metrics.Bool("uses_mocha"))
}

func TestJavaScriptProfilerMalformedPackageJSON(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json": "{not json at all",
	})

	metrics := NewJavaScriptProfiler().analyzePackageJSON(root)

	assert.False(t, metrics.Bool("js_has_package_json"))
	assert.Equal(t, 0, metrics.Int("js_dependency_count", -1))
	assert.Equal(t, 0, metrics.Int("js_dev_dependency_count", -1))
}

func TestJavaScriptProfilerTooling(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tsconfig.json":     "{}",
		".eslintrc.json":    "{}",
		"package-lock.json": "{}",
	})

	metrics := NewJavaScriptProfiler().analyzeTooling(root)

	assert.True(t, metrics.Bool("js_has_tsconfig"))
	assert.True(t, metrics.Bool("js_has_eslint_config"))
	assert.True(t, metrics.Bool("js_has_lockfile"))
	assert.False(t, metrics.Bool("js_has_prettier_config"))
	assert.False(t, metrics.Bool("js_has_webpack_config"))
	assert.False(t, metrics.Bool("js_has_babel_config"))
}

func TestJavaScriptTestFileClassification(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/app.js":              "const a = 1;\n",
		"src/util.ts":             "export const b = 2;\n",
		"src/app.test.js":         "test('a', () => {});\n",
		"src/api.spec.ts":         "describe('api', () => {});\n",
		"src/__tests__/helper.js": "test('h', () => {});\n",
		"test/integration.js":     "test('e2e', () => {});\n",
	})

	metrics, err := NewJavaScriptProfiler().Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 4, metrics.Int("js_test_files", 0))
	assert.InDelta(t, 2.0, metrics.Float("js_test_file_ratio", 0), 0.001)
}
