package debtstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selwyntheo/fund-services-architect/schema"
)

func sampleResult(name string, overall float64) schema.ScanResult {
	return schema.ScanResult{
		Project: schema.ProjectInfo{ID: 1, Name: name, Path: "/repos/" + name},
		Metrics: schema.DebtMetrics{
			CodeQualityScore:    1.5,
			ArchitectureScore:   2.0,
			InfrastructureScore: 1.0,
			OperationsScore:     0.5,
			OverallScore:        overall,
			Raw: schema.RawMetrics{
				CodeAnalysis: schema.MetricsMap{"total_files": 42},
			},
		},
		Risk:     schema.RiskLevelFor(overall),
		ScanTime: time.Now().UTC().Truncate(time.Millisecond),
		Duration: 1500 * time.Millisecond,
	}
}

func newSQLiteStore(t *testing.T) *ResultStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "results.db")
	store, err := NewResultStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*ResultStoreImpl)
}

func TestResultStoreSQLiteRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	first := sampleResult("billing-api", 1.4)
	firstID, err := store.SaveResult(first)
	require.NoError(t, err)
	assert.Positive(t, firstID)

	second := sampleResult("ledger-core", 3.2)
	second.ScanTime = first.ScanTime.Add(time.Minute)
	secondID, err := store.SaveResult(second)
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)

	// Newest first
	results, err := store.ListResults(10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "ledger-core", results[0].ProjectName)
	assert.Equal(t, "billing-api", results[1].ProjectName)

	stored, err := store.GetResult(firstID)
	require.NoError(t, err)
	assert.Equal(t, "billing-api", stored.ProjectName)
	assert.Equal(t, "/repos/billing-api", stored.ProjectPath)
	assert.InDelta(t, 1.4, stored.OverallScore, 0.001)
	assert.InDelta(t, 2.0, stored.ArchitectureScore, 0.001)
	assert.Equal(t, schema.MediumRisk, stored.Risk)
	assert.Equal(t, int64(1500), stored.DurationMS)
	assert.True(t, stored.ScanTime.Equal(first.ScanTime), "scan time must round-trip")
	assert.Contains(t, string(stored.RawJSON), `"total_files":42`)
}

func TestResultStoreListLimit(t *testing.T) {
	store := newSQLiteStore(t)

	base := time.Now().UTC()
	for i := range 5 {
		result := sampleResult("repo", 1.0)
		result.ScanTime = base.Add(time.Duration(i) * time.Minute)
		_, err := store.SaveResult(result)
		require.NoError(t, err)
	}

	results, err := store.ListResults(3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestResultStoreStatusAndClear(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
	assert.Zero(t, status.ResultCount)

	_, err = store.SaveResult(sampleResult("billing-api", 1.0))
	require.NoError(t, err)
	_, err = store.SaveResult(sampleResult("billing-api", 2.0))
	require.NoError(t, err)
	_, err = store.SaveResult(sampleResult("ledger-core", 3.0))
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.ResultCount)
	assert.Equal(t, 2, status.ProjectCount)
	assert.False(t, status.LastScanTime.IsZero())

	require.NoError(t, store.Clear())
	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.ResultCount)
}

func TestResultStoreRejectsFailedScan(t *testing.T) {
	store := newSQLiteStore(t)

	failed := sampleResult("broken", 0)
	failed.Err = "repository root: no such file or directory"
	_, err := store.SaveResult(failed)
	assert.ErrorContains(t, err, "refusing to store failed scan")
}

func TestResultStoreNoneBackend(t *testing.T) {
	store, err := NewResultStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	id, err := store.SaveResult(sampleResult("repo", 1.0))
	require.NoError(t, err)
	assert.Zero(t, id, "NoneBackend save should be a no-op")

	results, err := store.ListResults(10)
	require.NoError(t, err)
	assert.Nil(t, results)

	_, err = store.GetResult(1)
	assert.ErrorContains(t, err, "result storage is disabled")

	assert.NoError(t, store.Clear())
}

func TestResultStoreUnsupportedBackend(t *testing.T) {
	_, err := NewResultStore(schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`debtscan_results`", quoteTableName(resultsTable, schema.MySQLBackend))
	assert.Equal(t, `"debtscan_results"`, quoteTableName(resultsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"debtscan_results"`, quoteTableName(resultsTable, schema.SQLiteBackend))
}

func TestFormatTime(t *testing.T) {
	now := time.Now()

	sqliteValue := formatTime(now, schema.SQLiteBackend)
	str, ok := sqliteValue.(string)
	require.True(t, ok, "SQLite times should be stored as strings")
	parsed, err := time.Parse(time.RFC3339Nano, str)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(now))

	pgValue := formatTime(now, schema.PostgreSQLBackend)
	assert.Equal(t, now, pgValue)
}
