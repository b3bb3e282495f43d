// Package aggregate combines the summaries of many Maven builds into
// cross-build statistics.
package aggregate

import (
	"errors"
	"sort"

	"github.com/ccollicutt/mvnlens/pkg/parser"
)

// ErrEmptyInput is returned when Aggregate is called without any build.
var ErrEmptyInput = errors.New("no builds to aggregate")

// Summary holds statistics across a set of builds.
type Summary struct {
	BuildCount int `json:"build_count"`

	AverageTotalSeconds float64 `json:"average_total_seconds"`
	MinTotalSeconds     float64 `json:"min_total_seconds"`
	MaxTotalSeconds     float64 `json:"max_total_seconds"`

	// Modules is ordered by descending average seconds.
	Modules []ModuleStats `json:"modules"`
}

// ModuleStats holds statistics for one module across the builds that
// contained it.
type ModuleStats struct {
	Name string `json:"name"`

	AverageSeconds float64 `json:"average_seconds"`
	MinSeconds     float64 `json:"min_seconds"`
	MaxSeconds     float64 `json:"max_seconds"`

	// BuildCount is the number of builds in which the module appeared. It can
	// be lower than the overall build count.
	BuildCount int `json:"build_count"`

	// AverageTestSeconds includes builds that ran no tests. MinTestSeconds and
	// MaxTestSeconds only consider builds with test activity and are 0 when
	// there was none.
	AverageTestSeconds float64 `json:"average_test_seconds"`
	MinTestSeconds     float64 `json:"min_test_seconds"`
	MaxTestSeconds     float64 `json:"max_test_seconds"`

	TotalTestsRun int `json:"total_tests_run"`
	TotalFailures int `json:"total_failures"`
	TotalErrors   int `json:"total_errors"`
	TotalSkipped  int `json:"total_skipped"`

	AverageMainSourceFiles float64 `json:"average_main_source_files"`
	AverageTestSourceFiles float64 `json:"average_test_source_files"`
}

// Module returns the statistics for the named module.
func (s *Summary) Module(name string) (ModuleStats, bool) {
	for _, m := range s.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return ModuleStats{}, false
}

// ModulesByTestTime returns the modules with a positive average test time,
// ordered by descending average test time.
func (s *Summary) ModulesByTestTime() []ModuleStats {
	var tested []ModuleStats
	for _, m := range s.Modules {
		if m.AverageTestSeconds > 0 {
			tested = append(tested, m)
		}
	}

	sort.SliceStable(tested, func(i, j int) bool {
		return tested[i].AverageTestSeconds > tested[j].AverageTestSeconds
	})
	return tested
}

// accumulator collects one module's samples while aggregating.
type accumulator struct {
	name    string
	samples []parser.ModuleSummary
}

// Aggregate computes cross-build statistics. Builds are not modified.
func Aggregate(builds []*parser.BuildSummary) (*Summary, error) {
	if len(builds) == 0 {
		return nil, ErrEmptyInput
	}

	summary := &Summary{BuildCount: len(builds)}

	var sum float64
	var order []*accumulator
	byName := make(map[string]*accumulator)

	for i, build := range builds {
		total := build.TotalSeconds
		sum += total
		if i == 0 || total < summary.MinTotalSeconds {
			summary.MinTotalSeconds = total
		}
		if i == 0 || total > summary.MaxTotalSeconds {
			summary.MaxTotalSeconds = total
		}

		for _, m := range build.Modules {
			acc := byName[m.Name]
			if acc == nil {
				acc = &accumulator{name: m.Name}
				byName[m.Name] = acc
				order = append(order, acc)
			}
			acc.samples = append(acc.samples, m)
		}
	}
	summary.AverageTotalSeconds = sum / float64(len(builds))

	summary.Modules = make([]ModuleStats, 0, len(order))
	for _, acc := range order {
		summary.Modules = append(summary.Modules, acc.stats())
	}

	sort.SliceStable(summary.Modules, func(i, j int) bool {
		return summary.Modules[i].AverageSeconds > summary.Modules[j].AverageSeconds
	})

	return summary, nil
}

func (a *accumulator) stats() ModuleStats {
	stats := ModuleStats{
		Name:       a.name,
		BuildCount: len(a.samples),
	}

	var seconds, testSeconds float64
	var mainSources, testSources int
	tested := false

	for i, m := range a.samples {
		seconds += m.Seconds
		if i == 0 || m.Seconds < stats.MinSeconds {
			stats.MinSeconds = m.Seconds
		}
		if i == 0 || m.Seconds > stats.MaxSeconds {
			stats.MaxSeconds = m.Seconds
		}

		testSeconds += m.TestSeconds
		if m.HasTests() {
			if !tested || m.TestSeconds < stats.MinTestSeconds {
				stats.MinTestSeconds = m.TestSeconds
			}
			if !tested || m.TestSeconds > stats.MaxTestSeconds {
				stats.MaxTestSeconds = m.TestSeconds
			}
			tested = true
		}

		stats.TotalTestsRun += m.TestsRun
		stats.TotalFailures += m.Failures
		stats.TotalErrors += m.Errors
		stats.TotalSkipped += m.Skipped

		mainSources += m.MainSourceFiles
		testSources += m.TestSourceFiles
	}

	n := float64(len(a.samples))
	stats.AverageSeconds = seconds / n
	stats.AverageTestSeconds = testSeconds / n
	stats.AverageMainSourceFiles = float64(mainSources) / n
	stats.AverageTestSourceFiles = float64(testSources) / n

	return stats
}
