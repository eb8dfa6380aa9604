// Package schema has configs, models and shared constants for all parts of debtscan.
package schema

import "time"

// ProjectInfo identifies a repository being scanned. It is created by the
// caller before a scan and never mutated while the scan runs.
type ProjectInfo struct {
	ID             int64     `json:"id"`              // Stable identifier assigned by the caller
	Name           string    `json:"name"`            // Human-readable project name
	Path           string    `json:"path"`            // Local filesystem path or remote URL
	DefaultBranch  string    `json:"default_branch"`  // Branch the checkout represents
	LastActivityAt time.Time `json:"last_activity_at"` // Most recent activity known to the caller
}

// CommitRecord is a single commit supplied by the caller. The engine never
// talks to Git itself; collecting these is the CLI's job.
type CommitRecord struct {
	Message     string    `json:"message"`
	AuthorEmail string    `json:"author_email"`
	Timestamp   time.Time `json:"timestamp"`
}

// PipelineRecord is a single CI pipeline run supplied by the caller.
// DurationSeconds is zero when the CI system did not report a duration.
type PipelineRecord struct {
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	DurationSeconds float64   `json:"duration,omitempty"`
}

// RawMetrics groups the four analyzer metric maps under their category keys.
// Keys inside each map are analyzer-defined and intentionally not validated
// against a fixed list; profilers add language-specific entries freely.
type RawMetrics struct {
	CodeAnalysis           MetricsMap `json:"code_analysis"`
	ArchitectureAnalysis   MetricsMap `json:"architecture_analysis"`
	InfrastructureAnalysis MetricsMap `json:"infrastructure_analysis"`
	OperationsAnalysis     MetricsMap `json:"operations_analysis"`
}

// DebtMetrics holds the four category debt scores, the weighted overall
// score and the raw metrics they were derived from. All scores live in
// [0, 4] where higher means worse. A new scan produces a new DebtMetrics;
// existing values are never mutated.
type DebtMetrics struct {
	CodeQualityScore    float64    `json:"code_quality_score"`
	ArchitectureScore   float64    `json:"architecture_score"`
	InfrastructureScore float64    `json:"infrastructure_score"`
	OperationsScore     float64    `json:"operations_score"`
	OverallScore        float64    `json:"overall_score"`
	Raw                 RawMetrics `json:"raw_metrics"`
}

// ScanResult couples a project with the outcome of one scan. Err is set in
// batch mode when the scan failed; Metrics is zero-valued in that case.
type ScanResult struct {
	Project  ProjectInfo   `json:"project_info"`
	Metrics  DebtMetrics   `json:"debt_metrics"`
	Risk     RiskLevel     `json:"risk_level"`
	ScanTime time.Time     `json:"scan_timestamp"`
	Duration time.Duration `json:"scan_duration"`
	Err      string        `json:"error,omitempty"`
}

// Failed reports whether this result records a failed scan.
func (r *ScanResult) Failed() bool {
	return r.Err != ""
}

// Report is the aggregate view over a set of scan results.
type Report struct {
	TotalProjects   int               `json:"total_projects"`
	SuccessfulScans int               `json:"successful_scans"`
	FailedScans     int               `json:"failed_scans"`
	GeneratedAt     time.Time         `json:"generated_at"`
	RiskCounts      map[RiskLevel]int `json:"risk_distribution"`
	TopDebt         []ScanResult      `json:"top_debt_projects"`
	Recommendations []string          `json:"recommendations"`
}
