package core

import (
	"context"
	"sync"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// BatchTarget is one repository in a batch scan: a checked-out tree plus
// its identity and optional external history.
type BatchTarget struct {
	Project schema.ProjectInfo
	Root    string
	Opts    ScanOptions
}

// ScanBatch scans the targets with a bounded worker pool. Per-repository
// failures are recorded on the individual results; the batch itself never
// fails. Results come back in completion order.
func ScanBatch(ctx context.Context, workers int, targets []BatchTarget) []schema.ScanResult {
	if workers < 1 {
		workers = 1
	}

	targetCh := make(chan BatchTarget, len(targets))
	resultCh := make(chan schema.ScanResult, len(targets))
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for target := range targetCh {
				resultCh <- ScanProject(ctx, target.Root, target.Project, target.Opts)
			}
		})
	}

	for _, target := range targets {
		targetCh <- target
	}
	close(targetCh)

	wg.Wait()
	close(resultCh)

	results := make([]schema.ScanResult, 0, len(targets))
	for result := range resultCh {
		results = append(results, result)
	}
	return results
}
