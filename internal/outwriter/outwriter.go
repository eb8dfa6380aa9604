// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/selwyntheo/fund-services-architect/internal/contract"
	"github.com/selwyntheo/fund-services-architect/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteResults prints scan results using the configured output format.
func (ow *OutWriter) WriteResults(results []schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	return WriteScanResults(results, cfg, duration)
}

// WriteReport prints an aggregate debt report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.Report, cfg *contract.Config) error {
	return WriteDebtReport(report, cfg)
}

// WriteHistory prints stored scan results using the configured output format.
func (ow *OutWriter) WriteHistory(results []schema.StoredResult, cfg *contract.Config) error {
	return WriteStoredResults(results, cfg)
}

// LogScanHeader prints a concise, 2-line header for a scan run.
func LogScanHeader(cfg *contract.Config, targetCount int) {
	repoName := cfg.ProjectName
	if repoName == "" {
		repoName = filepath.Base(cfg.RepoPath)
	}

	if cfg.UseEmojis {
		fmt.Printf("🔎 Scanning: %s (%d repositories)\n", repoName, targetCount)
		fmt.Printf("📅 Commit lookback: %v, store backend: %s\n", cfg.CommitLookback, cfg.StoreBackend)
	} else {
		fmt.Printf("Scanning: %s (%d repositories)\n", repoName, targetCount)
		fmt.Printf("Commit lookback: %v, store backend: %s\n", cfg.CommitLookback, cfg.StoreBackend)
	}
}
