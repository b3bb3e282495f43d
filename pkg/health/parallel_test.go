package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/mvnlens/pkg/parser"
)

func TestEvaluateParallel(t *testing.T) {
	summary := &parser.BuildSummary{
		TotalSeconds: 5,
		Modules: []parser.ModuleSummary{
			{Name: "a", Seconds: 4, TestsRun: 3, Failures: 1},
			{Name: "b", Seconds: 3.9, Errors: 2},
			{Name: "c", Seconds: 1},
		},
	}

	hints := EvaluateParallel(summary)
	require.Len(t, hints, 3)

	assert.Equal(t, RuleParallelBuild, hints[0].Rule)
	assert.Equal(t, SeverityInfo, hints[0].Severity)

	assert.Equal(t, RuleCriticalPath, hints[1].Rule)
	assert.Equal(t, SeverityWarn, hints[1].Severity)
	assert.Contains(t, hints[1].Message, "Critical-path candidates: a, b (~4.000 s)")

	assert.Equal(t, RuleTestFailures, hints[2].Rule)
	assert.Equal(t, SeverityCritical, hints[2].Severity)
	assert.Equal(t, BuildScope, hints[2].Scope)
	assert.Contains(t, hints[2].Message, "1 failures and 2 errors")

	for _, h := range hints {
		assert.Equal(t, BuildScope, h.Scope, "parallel hints must not be attributed to a module")
	}
}

func TestEvaluateParallel_NoModules(t *testing.T) {
	hints := EvaluateParallel(&parser.BuildSummary{TotalSeconds: 2})

	require.Len(t, hints, 1)
	assert.Equal(t, RuleParallelBuild, hints[0].Rule)

	highest, ok := MaxSeverity(hints)
	require.True(t, ok)
	assert.Equal(t, SeverityInfo, highest)
}

func TestCriticalPathCandidates_Capped(t *testing.T) {
	summary := &parser.BuildSummary{}
	for _, name := range []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"} {
		summary.Modules = append(summary.Modules, parser.ModuleSummary{Name: name, Seconds: 2})
	}

	candidates, slowest := CriticalPathCandidates(summary)
	assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5"}, candidates)
	assert.InDelta(t, 2.0, slowest, 1e-9)
}
