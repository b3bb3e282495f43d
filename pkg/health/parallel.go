package health

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ccollicutt/mvnlens/pkg/parser"
)

// Rule names used only for parallel builds.
const (
	RuleParallelBuild = "parallel_build"
	RuleCriticalPath  = "critical_path"
)

// CriticalPathShare selects modules close enough to the slowest one to be on
// the critical path of a parallel build.
const CriticalPathShare = 0.95

// MaxCriticalPathCandidates caps the candidates listed for parallel builds.
const MaxCriticalPathCandidates = 5

// EvaluateParallel produces the hints that stay valid when module output
// interleaves. Per-module attribution is skipped; test failures are
// reported once for the whole build. The result is never nil.
func EvaluateParallel(summary *parser.BuildSummary) []Hint {
	hints := []Hint{{
		Rule:     RuleParallelBuild,
		Severity: SeverityInfo,
		Scope:    BuildScope,
		Message:  "Parallel build detected. Per-module test/compile attribution is disabled to avoid incorrect data.",
	}}

	if candidates, slowest := CriticalPathCandidates(summary); len(candidates) > 0 {
		hints = append(hints, Hint{
			Rule:     RuleCriticalPath,
			Severity: SeverityWarn,
			Scope:    BuildScope,
			Message: fmt.Sprintf("Critical-path candidates: %s (~%.3f s). Speeding up any of them may reduce wall time.",
				strings.Join(candidates, ", "), slowest),
		})
	}

	var failures, errs int
	for _, m := range summary.Modules {
		failures += m.Failures
		errs += m.Errors
	}
	if failures > 0 || errs > 0 {
		hints = append(hints, Hint{
			Rule:     RuleTestFailures,
			Severity: SeverityCritical,
			Scope:    BuildScope,
			Message:  fmt.Sprintf("Tests across the build have %d failures and %d errors.", failures, errs),
		})
	}
	return hints
}

// CriticalPathCandidates returns the modules within CriticalPathShare of the
// slowest one, slowest first, along with the slowest module time.
func CriticalPathCandidates(summary *parser.BuildSummary) ([]string, float64) {
	modules := make([]parser.ModuleSummary, len(summary.Modules))
	copy(modules, summary.Modules)
	sort.SliceStable(modules, func(i, j int) bool {
		return modules[i].Seconds > modules[j].Seconds
	})

	var slowest float64
	for _, m := range modules {
		slowest = math.Max(slowest, m.Seconds)
	}
	threshold := slowest * CriticalPathShare

	var candidates []string
	for _, m := range modules {
		if m.Seconds+1e-6 >= threshold {
			candidates = append(candidates, m.Name)
		}
	}
	if len(candidates) > MaxCriticalPathCandidates {
		candidates = candidates[:MaxCriticalPathCandidates]
	}
	return candidates, slowest
}
