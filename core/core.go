// Package core has core logic for repository analysis, scoring and reporting.
package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/selwyntheo/fund-services-architect/internal/contract"
	"github.com/selwyntheo/fund-services-architect/internal/outwriter"
	"github.com/selwyntheo/fund-services-architect/schema"
)

// ExecutorFunc defines the function signature for executing different scan modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// collectHistory gathers commit and pipeline history for one repository root.
// A missing Git history degrades to empty commits; a pipelines file that
// cannot be parsed is an error because the caller asked for it explicitly.
func collectHistory(ctx context.Context, cfg *contract.Config, client contract.GitClient, root string) ([]schema.CommitRecord, []schema.PipelineRecord, error) {
	var commits []schema.CommitRecord
	if client != nil {
		since := time.Now().Add(-cfg.CommitLookback)
		log, err := client.GetCommitLog(ctx, root, since)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("no commit history for %s", root), err)
		} else {
			commits = log
		}
	}

	var pipelines []schema.PipelineRecord
	if cfg.PipelinesFile != "" {
		records, err := contract.LoadPipelineRecords(cfg.PipelinesFile)
		if err != nil {
			return nil, nil, err
		}
		pipelines = records
	}
	return commits, pipelines, nil
}

// GetScanResult runs a single scan for the configured primary repository.
// It is the shared entry used by the scan command and the MCP server.
func GetScanResult(ctx context.Context, cfg *contract.Config, client contract.GitClient) (schema.ScanResult, error) {
	commits, pipelines, err := collectHistory(ctx, cfg, client, cfg.RepoPath)
	if err != nil {
		return schema.ScanResult{}, err
	}

	project := schema.ProjectInfo{
		Name: cfg.ProjectName,
		Path: cfg.RepoPath,
	}
	opts := ScanOptions{
		Commits:   commits,
		Pipelines: pipelines,
		Weights:   cfg.Weights,
	}
	return ScanProject(ctx, cfg.RepoPath, project, opts), nil
}

// ExecuteScan runs the single-repository analysis and prints results.
// It serves as the main entry point for the 'scan' command.
func ExecuteScan(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.ResultStore) error {
	start := time.Now()
	outwriter.LogScanHeader(cfg, 1)

	result, err := GetScanResult(ctx, cfg, client)
	if err != nil {
		return err
	}
	if result.Failed() {
		return errors.New(result.Err)
	}

	saveResults(store, result)

	ow := outwriter.NewOutWriter()
	return ow.WriteResults([]schema.ScanResult{result}, cfg, time.Since(start))
}

// ExecuteBatch scans the primary repository plus all batch targets with a
// worker pool and prints the ranked results.
func ExecuteBatch(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.ResultStore) error {
	start := time.Now()

	targets, err := buildBatchTargets(ctx, cfg, client)
	if err != nil {
		return err
	}
	outwriter.LogScanHeader(cfg, len(targets))

	results := ScanBatch(ctx, cfg.Workers, targets)
	sortResultsByDebt(results)
	saveResults(store, results...)

	ow := outwriter.NewOutWriter()
	return ow.WriteResults(results, cfg, time.Since(start))
}

// ExecuteReport scans all configured repositories and prints the aggregate
// debt report instead of per-scan rows.
func ExecuteReport(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.ResultStore) error {
	targets, err := buildBatchTargets(ctx, cfg, client)
	if err != nil {
		return err
	}
	outwriter.LogScanHeader(cfg, len(targets))

	results := ScanBatch(ctx, cfg.Workers, targets)
	sortResultsByDebt(results)
	saveResults(store, results...)

	report := BuildReport(results)
	ow := outwriter.NewOutWriter()
	return ow.WriteReport(&report, cfg)
}

// ExecuteHistoryList prints previously stored scan results.
func ExecuteHistoryList(store contract.ResultStore, cfg *contract.Config) error {
	results, err := store.ListResults(cfg.ResultLimit)
	if err != nil {
		return err
	}
	ow := outwriter.NewOutWriter()
	return ow.WriteHistory(results, cfg)
}

// ExecuteHistoryStatus prints status information about the result store.
func ExecuteHistoryStatus(store contract.ResultStore) error {
	status, err := store.GetStatus()
	if err != nil {
		return err
	}

	fmt.Printf("Backend: %s\n", status.Backend)
	if status.Location != "" {
		fmt.Printf("Location: %s\n", status.Location)
	}
	fmt.Printf("Stored results: %d\n", status.ResultCount)
	fmt.Printf("Distinct projects: %d\n", status.ProjectCount)
	if !status.LastScanTime.IsZero() {
		fmt.Printf("Last scan: %s\n", status.LastScanTime.Format(contract.DateTimeFormat))
	}
	return nil
}

// ExecuteHistoryClear removes all stored scan results.
func ExecuteHistoryClear(store contract.ResultStore) error {
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Cleared all stored scan results")
	return nil
}

// buildBatchTargets assembles the primary repository and all batch targets,
// collecting per-repository history up front so workers stay CPU-bound.
func buildBatchTargets(ctx context.Context, cfg *contract.Config, client contract.GitClient) ([]BatchTarget, error) {
	roots := append([]string{cfg.RepoPath}, cfg.Targets...)

	targets := make([]BatchTarget, 0, len(roots))
	for i, root := range roots {
		commits, pipelines, err := collectHistory(ctx, cfg, client, root)
		if err != nil {
			return nil, err
		}
		// The pipelines file describes the primary repository only
		if i > 0 {
			pipelines = nil
		}

		name := filepath.Base(root)
		if i == 0 && cfg.ProjectName != "" {
			name = cfg.ProjectName
		}
		targets = append(targets, BatchTarget{
			Project: schema.ProjectInfo{ID: int64(i + 1), Name: name, Path: root},
			Root:    root,
			Opts: ScanOptions{
				Commits:   commits,
				Pipelines: pipelines,
				Weights:   cfg.Weights,
			},
		})
	}
	return targets, nil
}

// sortResultsByDebt orders results worst-first, with failed scans at the end.
func sortResultsByDebt(results []schema.ScanResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Failed() != results[j].Failed() {
			return !results[i].Failed()
		}
		return results[i].Metrics.OverallScore > results[j].Metrics.OverallScore
	})
}

// saveResults persists successful scans, warning instead of failing so a
// broken store never loses the console output.
func saveResults(store contract.ResultStore, results ...schema.ScanResult) {
	if store == nil {
		return
	}
	for _, result := range results {
		if result.Failed() {
			continue
		}
		if _, err := store.SaveResult(result); err != nil {
			contract.LogWarn(fmt.Sprintf("could not store result for %s", result.Project.Name), err)
		}
	}
}
