package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePipelineFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipelines.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPipelineRecordsArray(t *testing.T) {
	path := writePipelineFile(t, `[
		{"status": "success", "created_at": "2026-06-01T10:00:00Z", "duration": 120},
		{"status": "failed", "created_at": "2026-06-02T10:00:00Z"}
	]`)

	records, err := LoadPipelineRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "success", records[0].Status)
	assert.InDelta(t, 120.0, records[0].DurationSeconds, 0.001)
	assert.Zero(t, records[1].DurationSeconds)
}

func TestLoadPipelineRecordsWrapped(t *testing.T) {
	path := writePipelineFile(t, `{"pipelines": [{"status": "success", "created_at": "2026-06-01T10:00:00Z"}]}`)

	records, err := LoadPipelineRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "success", records[0].Status)
}

func TestLoadPipelineRecordsErrors(t *testing.T) {
	_, err := LoadPipelineRecords(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "cannot read pipelines file")

	path := writePipelineFile(t, "not json at all")
	_, err = LoadPipelineRecords(path)
	assert.ErrorContains(t, err, "cannot parse pipelines file")
}
