package outwriter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selwyntheo/fund-services-architect/schema"
)

func sampleReport() *schema.Report {
	return &schema.Report{
		TotalProjects:   3,
		SuccessfulScans: 2,
		FailedScans:     1,
		GeneratedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		RiskCounts: map[schema.RiskLevel]int{
			schema.CriticalRisk: 1,
			schema.LowRisk:      1,
		},
		TopDebt: []schema.ScanResult{
			scanResult("legacy-batch", 3.6),
			scanResult("billing-api", 0.9),
		},
		Recommendations: []string{
			"Immediate Action: 1 repositories have critical risk levels and need attention",
		},
	}
}

func TestWriteReportText(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(1)
	require.NoError(t, writeReportText(sampleReport(), testConfig(), fmtFloat, &buf))

	out := buf.String()
	assert.Contains(t, out, "Technical Debt Report")
	assert.Contains(t, out, "Projects: 3 total, 2 scanned, 1 failed")
	assert.Contains(t, out, "Risk distribution:")
	assert.Contains(t, out, "legacy-batch")
	assert.Contains(t, out, "3.6")
	assert.Contains(t, out, "Recommendations:")
	assert.Contains(t, out, "critical risk levels")
}

func TestWriteReportTextEmojiHeader(t *testing.T) {
	cfg := testConfig()
	cfg.UseEmojis = true

	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(1)
	require.NoError(t, writeReportText(sampleReport(), cfg, fmtFloat, &buf))
	assert.Contains(t, buf.String(), "📊")
}

func TestWriteCSVReport(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	fmtFloat, _ := createFormatters(1)
	require.NoError(t, writeCSVReport(w, sampleReport(), fmtFloat))
	w.Flush()

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"rank", "project", "path", "overall_score", "risk_level"}, rows[0])
	assert.Equal(t, "legacy-batch", rows[1][1])
	assert.Equal(t, "Critical", rows[1][4])
	assert.Equal(t, "Low", rows[2][4])
}
