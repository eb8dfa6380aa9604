package schema

import "time"

// StoredResult is a persisted scan row as read back from the result store.
// Raw metrics are kept as the serialized JSON payload so callers can decode
// only when they need the detail.
type StoredResult struct {
	ID                  int64     `json:"id"`
	ProjectName         string    `json:"project_name"`
	ProjectPath         string    `json:"project_path"`
	OverallScore        float64   `json:"overall_score"`
	CodeQualityScore    float64   `json:"code_quality_score"`
	ArchitectureScore   float64   `json:"architecture_score"`
	InfrastructureScore float64   `json:"infrastructure_score"`
	OperationsScore     float64   `json:"operations_score"`
	Risk                RiskLevel `json:"risk_level"`
	ScanTime            time.Time `json:"scan_timestamp"`
	DurationMS          int64     `json:"scan_duration_ms"`
	RawJSON             []byte    `json:"-"`
}

// StoreStatus holds status information about the result store.
type StoreStatus struct {
	Backend      string    `json:"backend"`
	Location     string    `json:"location"`
	ResultCount  int       `json:"result_count"`
	ProjectCount int       `json:"project_count"`
	LastScanTime time.Time `json:"last_scan_time"`
}
