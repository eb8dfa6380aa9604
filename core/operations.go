package core

import (
	"math"
	"sort"
	"strings"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// History windows the external collectors are expected to honor: commits
// from the last 90 days, pipeline runs from the last 30.
const (
	commitWindowDays   = 90
	pipelineWindowDays = 30

	// The 30-day pipeline window counts as four whole weeks, so a single
	// success in the window lands exactly on the 0.25 per-week boundary.
	pipelineWindowWeeks = 4.0
)

// commitTypes is the conventional-commit classification order. The first
// matching type wins per commit.
var commitTypes = []string{"fix", "feat", "refactor", "test", "docs", "chore"}

// Keyword sets for the maintenance/feature/refactor split, checked in
// that order with first match winning. Commits matching none stay
// uncategorized.
var (
	maintenanceKeywords = []string{"fix", "bug", "patch", "hotfix", "security", "update", "upgrade"}
	featureKeywords     = []string{"feat", "feature", "add", "implement", "new"}
	refactorKeywords    = []string{"refactor", "cleanup", "improve", "optimize", "restructure"}
)

// OperationalAnalyzer derives velocity, release and collaboration metrics
// from externally supplied commit and pipeline history.
type OperationalAnalyzer struct{}

// NewOperationalAnalyzer creates an operational analyzer.
func NewOperationalAnalyzer() *OperationalAnalyzer {
	return &OperationalAnalyzer{}
}

// Analyze returns the operations metrics. Missing history degrades the
// derived metrics to zero defaults instead of failing.
func (a *OperationalAnalyzer) Analyze(commits []schema.CommitRecord, pipelines []schema.PipelineRecord) schema.MetricsMap {
	metrics := schema.MetricsMap{}
	metrics.Merge(analyzeVelocity(commits))
	metrics.Merge(analyzeReleasePatterns(pipelines))
	metrics.Merge(analyzeCollaboration(commits))
	metrics.Merge(analyzeMaintenancePatterns(commits))
	return metrics
}

func analyzeVelocity(commits []schema.CommitRecord) schema.MetricsMap {
	if len(commits) == 0 {
		return schema.MetricsMap{"commits_per_week": 0.0}
	}

	metrics := schema.MetricsMap{
		"commits_per_week": float64(len(commits)) / (commitWindowDays / 7.0),
	}

	typeCounts := make(map[string]int, len(commitTypes))
	for _, commit := range commits {
		message := strings.ToLower(commit.Message)
		for _, commitType := range commitTypes {
			if strings.Contains(message, commitType) {
				typeCounts[commitType]++
				break
			}
		}
	}

	total := float64(len(commits))
	metrics["fix_commit_ratio"] = float64(typeCounts["fix"]) / total
	metrics["feature_commit_ratio"] = float64(typeCounts["feat"]) / total
	metrics["refactor_commit_ratio"] = float64(typeCounts["refactor"]) / total
	return metrics
}

// analyzeReleasePatterns derives deployment cadence from successful
// pipeline runs only.
func analyzeReleasePatterns(pipelines []schema.PipelineRecord) schema.MetricsMap {
	metrics := schema.MetricsMap{}

	var successes []schema.PipelineRecord
	for _, p := range pipelines {
		if p.Status == "success" {
			successes = append(successes, p)
		}
	}
	if len(successes) == 0 {
		return metrics
	}

	metrics["deployments_per_week"] = float64(len(successes)) / pipelineWindowWeeks

	sort.Slice(successes, func(i, j int) bool {
		return successes[i].CreatedAt.Before(successes[j].CreatedAt)
	})
	var intervals []float64
	for i := 1; i < len(successes); i++ {
		days := successes[i].CreatedAt.Sub(successes[i-1].CreatedAt).Hours() / 24
		intervals = append(intervals, days)
	}
	if len(intervals) > 0 {
		metrics["avg_deployment_interval_days"] = mean(intervals)
		metrics["deployment_regularity"] = stddev(intervals)
	}
	return metrics
}

func analyzeCollaboration(commits []schema.CommitRecord) schema.MetricsMap {
	if len(commits) == 0 {
		return schema.MetricsMap{}
	}

	commitsByAuthor := make(map[string]int)
	for _, commit := range commits {
		email := commit.AuthorEmail
		if email == "" {
			email = "unknown"
		}
		commitsByAuthor[email]++
	}

	metrics := schema.MetricsMap{"unique_contributors": len(commitsByAuthor)}
	if len(commitsByAuthor) > 1 {
		counts := make([]float64, 0, len(commitsByAuthor))
		for _, count := range commitsByAuthor {
			counts = append(counts, float64(count))
		}
		metrics["contribution_gini_coefficient"] = giniCoefficient(counts)
	}
	return metrics
}

func analyzeMaintenancePatterns(commits []schema.CommitRecord) schema.MetricsMap {
	if len(commits) == 0 {
		return schema.MetricsMap{}
	}

	maintenance, feature, refactor := 0, 0, 0
	for _, commit := range commits {
		message := strings.ToLower(commit.Message)
		switch {
		case containsAnyKeyword(message, maintenanceKeywords):
			maintenance++
		case containsAnyKeyword(message, featureKeywords):
			feature++
		case containsAnyKeyword(message, refactorKeywords):
			refactor++
		}
	}

	total := float64(len(commits))
	return schema.MetricsMap{
		"maintenance_commit_percentage": float64(maintenance) / total * 100,
		"feature_commit_percentage":     float64(feature) / total * 100,
		"refactor_commit_percentage":    float64(refactor) / total * 100,
	}
}

func containsAnyKeyword(message string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

// giniCoefficient measures inequality over the values via mean absolute
// difference: sum |xi - xj| over all pairs, divided by 2n² times the
// mean. Zero for equal values, approaching 1 as one value dominates.
func giniCoefficient(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return 0
	}

	var diffSum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			diffSum += math.Abs(values[i] - values[j])
		}
	}
	meanValue := total / float64(n)
	return diffSum / (2 * float64(n*n) * meanValue)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation, zero for fewer than two values.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSquares float64
	for _, v := range values {
		sumSquares += (v - m) * (v - m)
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}
