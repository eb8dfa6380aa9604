package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selwyntheo/fund-services-architect/internal/contract"
	"github.com/selwyntheo/fund-services-architect/schema"
)

func testConfig() *contract.Config {
	return &contract.Config{
		Workers:   4,
		Precision: 1,
		Output:    schema.TextOut,
		Width:     120,
	}
}

func scanResult(name string, overall float64) schema.ScanResult {
	return schema.ScanResult{
		Project: schema.ProjectInfo{Name: name, Path: "/repos/" + name},
		Metrics: schema.DebtMetrics{
			CodeQualityScore:    1.0,
			ArchitectureScore:   2.0,
			InfrastructureScore: 1.5,
			OperationsScore:     0.5,
			OverallScore:        overall,
		},
		Risk:     schema.RiskLevelFor(overall),
		ScanTime: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteScanTable(t *testing.T) {
	results := []schema.ScanResult{
		scanResult("billing-api", 2.4),
		scanResult("ledger-core", 1.1),
		{Project: schema.ProjectInfo{Name: "broken"}, Err: "no such directory"},
	}

	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(1)
	require.NoError(t, writeScanTable(results, testConfig(), fmtFloat, time.Second, &buf))

	out := buf.String()
	assert.Contains(t, out, "billing-api")
	assert.Contains(t, out, "ledger-core")
	assert.NotContains(t, out, "broken", "failed scans should not appear as table rows")
	assert.Contains(t, out, "Scanned 3 projects")
	assert.Contains(t, out, "High")
}

func TestWriteCSVScanResults(t *testing.T) {
	results := []schema.ScanResult{
		scanResult("billing-api", 2.4),
		{Project: schema.ProjectInfo{Name: "broken"}, Err: "no such directory"},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	fmtFloat, _ := createFormatters(1)
	require.NoError(t, writeCSVScanResults(w, results, fmtFloat))
	w.Flush()

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "rank", rows[0][0])
	assert.Equal(t, "billing-api", rows[1][1])
	assert.Equal(t, "2.4", rows[1][7])
	assert.Equal(t, "High", rows[1][8])
	assert.Equal(t, "no such directory", rows[2][10])
}

func TestWriteJSONScanResults(t *testing.T) {
	results := []schema.ScanResult{scanResult("billing-api", 0.8)}

	var buf bytes.Buffer
	require.NoError(t, writeJSONScanResults(&buf, results))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.EqualValues(t, 1, decoded[0]["rank"])
	assert.Equal(t, "Low", decoded[0]["label"])

	project, ok := decoded[0]["project_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "billing-api", project["name"])
}

func TestWriteScanResultsToFile(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = t.TempDir() + "/results.json"

	require.NoError(t, WriteScanResults([]schema.ScanResult{scanResult("x", 1.0)}, cfg, time.Second))
	assert.FileExists(t, cfg.OutputFile)
}
