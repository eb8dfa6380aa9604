// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// GitClient defines the Git operations needed to collect commit history.
// This allows the operational analysis to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetCommitLog returns parsed commit records since the given time.
	GetCommitLog(ctx context.Context, repoPath string, since time.Time) ([]schema.CommitRecord, error)
}

// ResultStore defines the interface for persisting and querying scan results.
// This allows mocking the store for testing.
type ResultStore interface {
	// SaveResult persists one scan result and returns its unique ID
	SaveResult(result schema.ScanResult) (int64, error)

	// ListResults returns the most recent stored results, newest first
	ListResults(limit int) ([]schema.StoredResult, error)

	// GetResult returns a single stored result by ID
	GetResult(id int64) (schema.StoredResult, error)

	// GetStatus returns status information about the result store
	GetStatus() (schema.StoreStatus, error)

	// Clear removes all stored results
	Clear() error

	// Close closes the underlying connection
	Close() error
}
