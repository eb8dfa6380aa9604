package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/selwyntheo/fund-services-architect/core/lang"
	"github.com/selwyntheo/fund-services-architect/schema"
)

// ScanOptions carries the optional external history feeding the
// infrastructure and operations analyzers, plus weight overrides.
type ScanOptions struct {
	Commits   []schema.CommitRecord
	Pipelines []schema.PipelineRecord
	Weights   map[schema.Category]float64
}

// profilerSubKeys nests each language profiler's output under its own key
// in the code analysis map.
var profilerSubKeys = map[schema.Language]string{
	schema.LangJava:       "java_analysis",
	schema.LangCSharp:     "dotnet_analysis",
	schema.LangPython:     "python_analysis",
	schema.LangJavaScript: "js_analysis",
	schema.LangTypeScript: "js_analysis",
}

// Scan runs the full analysis pipeline over a checked-out tree and
// returns the scored result. A missing or unreadable root is the only
// fatal condition; everything below it degrades per file.
func Scan(ctx context.Context, root string, project schema.ProjectInfo, opts ScanOptions) (schema.DebtMetrics, error) {
	info, err := os.Stat(root)
	if err != nil {
		return schema.DebtMetrics{}, fmt.Errorf("repository root: %w", err)
	}
	if !info.IsDir() {
		return schema.DebtMetrics{}, fmt.Errorf("repository root %s is not a directory", root)
	}

	languages, err := lang.DetectLanguages(root)
	if err != nil {
		return schema.DebtMetrics{}, fmt.Errorf("language detection: %w", err)
	}

	code := NewStructuralScanner().Analyze(root)
	code.Merge(lang.AnalyzeComplexity(root))

	for _, profiler := range lang.ProfilersFor(languages) {
		if ctx.Err() != nil {
			return schema.DebtMetrics{}, ctx.Err()
		}
		metrics, err := profiler.Analyze(ctx, root)
		if err != nil {
			// Profilers degrade per file; an error here is a context
			// cancellation or a systemic failure worth surfacing.
			return schema.DebtMetrics{}, fmt.Errorf("%s profiler: %w", profiler.Language(), err)
		}
		if key, ok := profilerSubKeys[profiler.Language()]; ok {
			code[key] = metrics
		}
	}

	raw := schema.RawMetrics{
		CodeAnalysis:           code,
		ArchitectureAnalysis:   NewArchitectureAnalyzer().Analyze(root),
		InfrastructureAnalysis: NewInfrastructureAnalyzer().Analyze(root, opts.Pipelines),
		OperationsAnalysis:     NewOperationalAnalyzer().Analyze(opts.Commits, opts.Pipelines),
	}

	calculator := NewCalculator()
	if len(opts.Weights) > 0 {
		calculator = NewCalculatorWithWeights(opts.Weights)
	}
	return calculator.Calculate(raw), nil
}

// ScanProject wraps Scan into a ScanResult suitable for batch reporting
// and storage. Failures are recorded on the result instead of returned.
func ScanProject(ctx context.Context, root string, project schema.ProjectInfo, opts ScanOptions) schema.ScanResult {
	start := time.Now()
	result := schema.ScanResult{
		Project:  project,
		ScanTime: start.UTC(),
	}

	metrics, err := Scan(ctx, root, project, opts)
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = err.Error()
		return result
	}

	result.Metrics = metrics
	result.Risk = schema.RiskLevelFor(metrics.OverallScore)
	return result
}
