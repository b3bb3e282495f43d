package output

import (
	"github.com/ccollicutt/mvnlens/pkg/aggregate"
	"github.com/ccollicutt/mvnlens/pkg/detector"
	"github.com/ccollicutt/mvnlens/pkg/health"
	"github.com/ccollicutt/mvnlens/pkg/parser"
	"github.com/ccollicutt/mvnlens/pkg/plugintime"
)

func createBuildSummary() *parser.BuildSummary {
	return &parser.BuildSummary{
		TotalSeconds: 10,
		Modules: []parser.ModuleSummary{
			{Name: "api", Seconds: 2, MainSourceFiles: 12},
			{
				Name: "core", Seconds: 6,
				TestsRun: 20, Failures: 1, Skipped: 2, TestSeconds: 3,
				MainSourceFiles: 40, TestSourceFiles: 10,
			},
		},
	}
}

func createBuildReport() *BuildReport {
	report := &BuildReport{
		Source:  "build.log",
		Summary: createBuildSummary(),
		Hints: []health.Hint{
			{Rule: health.RuleHotModule, Severity: health.SeverityWarn, Scope: "core",
				Message: "Module 'core' takes 60.0% of total build time (6.000 s). It is a clear hotspot."},
			{Rule: health.RuleTestFailures, Severity: health.SeverityCritical, Scope: "core",
				Message: "Tests in module 'core' have 1 failures and 0 errors."},
			{Rule: health.RuleOverhead, Severity: health.SeverityInfo, Scope: health.BuildScope,
				Message: "Non-module overhead is 2.000 s (20.0% of build)."},
		},
		Metadata: NewMetadata("v1.2.3", ".mvnlens.yaml"),
	}
	report.SetPluginTimings(map[string][]plugintime.Timing{
		"core": {
			{PluginKey: "surefire:test", LineCount: 30, EstimatedSeconds: 4.5},
			{PluginKey: "compiler:compile", LineCount: 10, EstimatedSeconds: 1.5},
		},
	})
	return report
}

func createParallelReport() *BuildReport {
	summary := &parser.BuildSummary{
		TotalSeconds: 5,
		Modules: []parser.ModuleSummary{
			{Name: "a", Seconds: 4, TestsRun: 3, Failures: 1, TestSeconds: 1},
			{Name: "b", Seconds: 4},
			{Name: "c", Seconds: 1, MainSourceFiles: 7},
		},
	}
	return &BuildReport{
		Source:   "parallel.log",
		Summary:  summary,
		Parallel: detector.Result{Parallel: true, Builder: "MultiThreadedBuilder", Threads: 4, LineNum: 3},
		Hints:    health.EvaluateParallel(summary),
		Metadata: NewMetadata("v1.2.3", ""),
	}
}

func createAggregateReport() *AggregateReport {
	return &AggregateReport{
		Mode:     ModeDirectory,
		LogFiles: []string{"logs/a.log", "logs/b.log"},
		Skipped:  []SkippedLog{{Path: "logs/broken.log", Reason: "missing total time"}},
		Summary: &aggregate.Summary{
			BuildCount:          2,
			AverageTotalSeconds: 12,
			MinTotalSeconds:     10,
			MaxTotalSeconds:     14,
			Modules: []aggregate.ModuleStats{
				{Name: "core", AverageSeconds: 7, MinSeconds: 6, MaxSeconds: 8, BuildCount: 2,
					AverageTestSeconds: 2, MinTestSeconds: 1, MaxTestSeconds: 3, TotalTestsRun: 40,
					AverageMainSourceFiles: 40, AverageTestSourceFiles: 10},
				{Name: "webapp", AverageSeconds: 5, MinSeconds: 4, MaxSeconds: 6, BuildCount: 2},
			},
		},
		Metadata: NewMetadata("v1.2.3", ""),
	}
}
