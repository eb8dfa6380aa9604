package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/selwyntheo/fund-services-architect/internal/contract"
	"github.com/selwyntheo/fund-services-architect/schema"
)

// newScanConfig builds a config pointing at a temp repo with one source file.
func newScanConfig(t *testing.T) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	src := "package main\n\nfunc main() {}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0o644))

	return &contract.Config{
		RepoPath:       dir,
		ProjectName:    "sample",
		Workers:        1,
		ResultLimit:    contract.DefaultResultLimit,
		Precision:      1,
		Output:         schema.TextOut,
		OutputFile:     filepath.Join(t.TempDir(), "out.txt"),
		CommitLookback: time.Duration(contract.DefaultCommitLookbackDays) * 24 * time.Hour,
		Weights:        schema.DefaultCategoryWeights,
	}
}

// TestGetScanResult tests the shared single-repository scan entry point.
func TestGetScanResult(t *testing.T) {
	ctx := context.Background()
	cfg := newScanConfig(t)

	mockClient := &contract.MockGitClient{}
	mockClient.On("GetCommitLog", ctx, cfg.RepoPath, mock.AnythingOfType("time.Time")).
		Return([]schema.CommitRecord{
			{Message: "fix: patch bug", AuthorEmail: "a@example.com", Timestamp: time.Now().Add(-24 * time.Hour)},
		}, nil)

	result, err := GetScanResult(ctx, cfg, mockClient)
	assert.NoError(t, err)
	assert.False(t, result.Failed())
	assert.Equal(t, "sample", result.Project.Name)
	assert.NotEmpty(t, result.Risk)
	mockClient.AssertExpectations(t)
}

// TestGetScanResultNoGitHistory tests that a failing git client degrades to
// a scan with empty commit history instead of an error.
func TestGetScanResultNoGitHistory(t *testing.T) {
	ctx := context.Background()
	cfg := newScanConfig(t)

	mockClient := &contract.MockGitClient{}
	mockClient.On("GetCommitLog", ctx, cfg.RepoPath, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("not a git repository"))

	result, err := GetScanResult(ctx, cfg, mockClient)
	assert.NoError(t, err)
	assert.False(t, result.Failed())
	mockClient.AssertExpectations(t)
}

// TestGetScanResultBadPipelinesFile tests that an unreadable pipelines file
// is a hard error.
func TestGetScanResultBadPipelinesFile(t *testing.T) {
	ctx := context.Background()
	cfg := newScanConfig(t)
	cfg.PipelinesFile = filepath.Join(t.TempDir(), "missing.json")

	mockClient := &contract.MockGitClient{}
	mockClient.On("GetCommitLog", ctx, cfg.RepoPath, mock.AnythingOfType("time.Time")).
		Return([]schema.CommitRecord{}, nil)

	_, err := GetScanResult(ctx, cfg, mockClient)
	assert.Error(t, err)
}

// TestExecuteScan tests the end-to-end scan entry point with a mock store.
func TestExecuteScan(t *testing.T) {
	ctx := context.Background()
	cfg := newScanConfig(t)

	mockClient := &contract.MockGitClient{}
	mockClient.On("GetCommitLog", ctx, cfg.RepoPath, mock.AnythingOfType("time.Time")).
		Return([]schema.CommitRecord{}, nil)

	mockStore := &contract.MockResultStore{}
	mockStore.On("SaveResult", mock.AnythingOfType("schema.ScanResult")).Return(int64(1), nil)

	err := ExecuteScan(ctx, cfg, mockClient, mockStore)
	assert.NoError(t, err)
	assert.FileExists(t, cfg.OutputFile)
	mockStore.AssertExpectations(t)
}

// TestExecuteScanNonexistentRepo tests that a missing repository fails loudly.
func TestExecuteScanNonexistentRepo(t *testing.T) {
	ctx := context.Background()
	cfg := newScanConfig(t)
	cfg.RepoPath = filepath.Join(t.TempDir(), "missing")

	mockClient := &contract.MockGitClient{}
	mockClient.On("GetCommitLog", ctx, cfg.RepoPath, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("not a git repository"))

	err := ExecuteScan(ctx, cfg, mockClient, nil)
	assert.Error(t, err)
}

// TestExecuteBatch tests scanning the primary repo plus one extra target.
func TestExecuteBatch(t *testing.T) {
	ctx := context.Background()
	cfg := newScanConfig(t)

	extra := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(extra, "app.py"), []byte("print('ok')\n"), 0o644))
	cfg.Targets = []string{extra}
	cfg.Workers = 2

	mockClient := &contract.MockGitClient{}
	mockClient.On("GetCommitLog", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return([]schema.CommitRecord{}, nil)

	mockStore := &contract.MockResultStore{}
	mockStore.On("SaveResult", mock.AnythingOfType("schema.ScanResult")).Return(int64(1), nil)

	err := ExecuteBatch(ctx, cfg, mockClient, mockStore)
	assert.NoError(t, err)
	assert.FileExists(t, cfg.OutputFile)
	mockStore.AssertNumberOfCalls(t, "SaveResult", 2)
}

// TestExecuteBatchStoreFailure tests that a broken store does not abort output.
func TestExecuteBatchStoreFailure(t *testing.T) {
	ctx := context.Background()
	cfg := newScanConfig(t)

	mockClient := &contract.MockGitClient{}
	mockClient.On("GetCommitLog", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return([]schema.CommitRecord{}, nil)

	mockStore := &contract.MockResultStore{}
	mockStore.On("SaveResult", mock.AnythingOfType("schema.ScanResult")).
		Return(int64(0), errors.New("disk full"))

	err := ExecuteBatch(ctx, cfg, mockClient, mockStore)
	assert.NoError(t, err)
}

// TestExecuteReport tests the aggregate report entry point.
func TestExecuteReport(t *testing.T) {
	ctx := context.Background()
	cfg := newScanConfig(t)

	mockClient := &contract.MockGitClient{}
	mockClient.On("GetCommitLog", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return([]schema.CommitRecord{}, nil)

	err := ExecuteReport(ctx, cfg, mockClient, nil)
	assert.NoError(t, err)
	assert.FileExists(t, cfg.OutputFile)
}

// TestExecuteHistoryList tests listing stored results through a mock store.
func TestExecuteHistoryList(t *testing.T) {
	cfg := newScanConfig(t)

	mockStore := &contract.MockResultStore{}
	mockStore.On("ListResults", cfg.ResultLimit).Return([]schema.StoredResult{
		{ID: 1, ProjectName: "sample", OverallScore: 2.5, Risk: schema.HighRisk, ScanTime: time.Now()},
	}, nil)

	err := ExecuteHistoryList(mockStore, cfg)
	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

// TestExecuteHistoryClear tests clearing the store.
func TestExecuteHistoryClear(t *testing.T) {
	mockStore := &contract.MockResultStore{}
	mockStore.On("Clear").Return(nil)

	err := ExecuteHistoryClear(mockStore)
	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

// TestExecuteHistoryStatus tests printing store status.
func TestExecuteHistoryStatus(t *testing.T) {
	mockStore := &contract.MockResultStore{}
	mockStore.On("GetStatus").Return(schema.StoreStatus{
		Backend:      string(schema.SQLiteBackend),
		Location:     "results.db",
		ResultCount:  3,
		ProjectCount: 2,
		LastScanTime: time.Now(),
	}, nil)

	err := ExecuteHistoryStatus(mockStore)
	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

// TestSortResultsByDebt tests worst-first ordering with failures last.
func TestSortResultsByDebt(t *testing.T) {
	results := []schema.ScanResult{
		{Project: schema.ProjectInfo{Name: "low"}, Metrics: schema.DebtMetrics{OverallScore: 1.0}},
		{Project: schema.ProjectInfo{Name: "broken"}, Err: "boom"},
		{Project: schema.ProjectInfo{Name: "high"}, Metrics: schema.DebtMetrics{OverallScore: 3.5}},
	}

	sortResultsByDebt(results)

	assert.Equal(t, "high", results[0].Project.Name)
	assert.Equal(t, "low", results[1].Project.Name)
	assert.Equal(t, "broken", results[2].Project.Name)
}
