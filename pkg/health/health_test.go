package health

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/mvnlens/pkg/parser"
)

// quietModules returns five modules that share 90% of total evenly, which
// keeps the overhead and hot module rules silent.
func quietModules(total float64) []parser.ModuleSummary {
	names := []string{"a", "b", "c", "d", "e"}
	modules := make([]parser.ModuleSummary, len(names))
	for i, name := range names {
		modules[i] = parser.ModuleSummary{Name: name, Seconds: total * 0.18}
	}
	return modules
}

func byRule(hints []Hint, rule string) []Hint {
	var out []Hint
	for _, h := range hints {
		if h.Rule == rule {
			out = append(out, h)
		}
	}
	return out
}

func TestEvaluate_TotalTimeBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		want     Severity
		wantHint bool
	}{
		{"warn at boundary", 300.0, SeverityWarn, true},
		{"info just below warn", 299.999, SeverityInfo, true},
		{"info at boundary", 120.0, SeverityInfo, true},
		{"quiet below info", 119.9, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints := byRule(Evaluate(&parser.BuildSummary{
				TotalSeconds: tt.total,
				Modules:      quietModules(tt.total),
			}), RuleTotalTime)

			if !tt.wantHint {
				assert.Empty(t, hints)
				return
			}
			require.Len(t, hints, 1)
			assert.Equal(t, tt.want, hints[0].Severity)
			assert.Equal(t, BuildScope, hints[0].Scope)
		})
	}
}

func TestEvaluate_TotalTimeMessage(t *testing.T) {
	hints := byRule(Evaluate(&parser.BuildSummary{TotalSeconds: 300, Modules: quietModules(300)}), RuleTotalTime)
	require.Len(t, hints, 1)
	assert.Equal(t, "Total build time is 300.0 s (5.0 min). Consider optimizing hotspots.", hints[0].Message)
}

func TestEvaluate_NothingFires(t *testing.T) {
	hints := Evaluate(&parser.BuildSummary{TotalSeconds: 10, Modules: quietModules(10)})
	assert.NotNil(t, hints)
	assert.Empty(t, hints)
}

func TestEvaluate_TestFailuresAlwaysCritical(t *testing.T) {
	modules := quietModules(1000)
	modules[2].TestsRun = 40
	modules[2].Failures = 1
	modules[2].TestSeconds = 170
	modules[2].MainSourceFiles = 80

	hints := Evaluate(&parser.BuildSummary{TotalSeconds: 1000, Modules: modules})

	failures := byRule(hints, RuleTestFailures)
	require.Len(t, failures, 1)
	assert.Equal(t, SeverityCritical, failures[0].Severity)
	assert.Equal(t, "c", failures[0].Scope)
	assert.Equal(t, "Tests in module 'c' have 1 failures and 0 errors.", failures[0].Message)

	highest, ok := MaxSeverity(hints)
	require.True(t, ok)
	assert.Equal(t, SeverityCritical, highest)
}

func TestEvaluate_Overhead(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		modules float64
		want    []Severity
	}{
		{"warn", 10, 7.5, []Severity{SeverityWarn}},
		{"info", 10, 8, []Severity{SeverityInfo}},
		{"quiet", 10, 9, nil},
		{"modules exceed total", 10, 12, nil},
		{"zero total", 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var modules []parser.ModuleSummary
			for _, name := range []string{"a", "b", "c", "d", "e"} {
				modules = append(modules, parser.ModuleSummary{Name: name, Seconds: tt.modules / 5})
			}

			hints := byRule(Evaluate(&parser.BuildSummary{TotalSeconds: tt.total, Modules: modules}), RuleOverhead)
			var got []Severity
			for _, h := range hints {
				got = append(got, h.Severity)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_HotModuleOrder(t *testing.T) {
	summary := &parser.BuildSummary{
		TotalSeconds: 10,
		Modules: []parser.ModuleSummary{
			{Name: "api", Seconds: 3},
			{Name: "tiny", Seconds: 1},
			{Name: "core", Seconds: 5},
		},
	}

	hints := byRule(Evaluate(summary), RuleHotModule)
	require.Len(t, hints, 2)
	assert.Equal(t, "core", hints[0].Scope)
	assert.Equal(t, SeverityWarn, hints[0].Severity)
	assert.Equal(t, "Module 'core' takes 50.0% of total build time (5.000 s). It is a clear hotspot.", hints[0].Message)
	assert.Equal(t, "api", hints[1].Scope)
	assert.Equal(t, SeverityInfo, hints[1].Severity)

	assert.Equal(t, "api", summary.Modules[0].Name, "summary must not be reordered")
}

func TestEvaluate_TestRatio(t *testing.T) {
	modules := []parser.ModuleSummary{
		{Name: "heavy", Seconds: 10, TestsRun: 1, TestSeconds: 5},
		{Name: "medium", Seconds: 10, TestsRun: 1, TestSeconds: 3},
		{Name: "light", Seconds: 10, TestsRun: 1, TestSeconds: 1},
		{Name: "instant", Seconds: 0, TestsRun: 1, TestSeconds: 1},
	}

	hints := byRule(Evaluate(&parser.BuildSummary{TotalSeconds: 100, Modules: modules}), RuleTestRatio)
	require.Len(t, hints, 2)
	assert.Equal(t, "heavy", hints[0].Scope)
	assert.Equal(t, SeverityWarn, hints[0].Severity)
	assert.Equal(t, "medium", hints[1].Scope)
	assert.Equal(t, SeverityInfo, hints[1].Severity)
}

func TestEvaluate_UntestedLargeModule(t *testing.T) {
	modules := []parser.ModuleSummary{
		{Name: "big", MainSourceFiles: 50},
		{Name: "big-with-test-sources", MainSourceFiles: 60, TestSourceFiles: 4},
		{Name: "mid", MainSourceFiles: 10},
		{Name: "mid-tested", MainSourceFiles: 20, TestSourceFiles: 2, TestsRun: 5},
		{Name: "small", MainSourceFiles: 9},
	}

	hints := byRule(Evaluate(&parser.BuildSummary{TotalSeconds: 0, Modules: modules}), RuleUntestedLargeModule)
	require.Len(t, hints, 3)

	assert.Equal(t, "big", hints[0].Scope)
	assert.Equal(t, SeverityWarn, hints[0].Severity)
	assert.Equal(t, "Module 'big' has 50 main source files but no tests were executed.", hints[0].Message)

	assert.Equal(t, "big-with-test-sources", hints[1].Scope)
	assert.Equal(t, SeverityWarn, hints[1].Severity)

	assert.Equal(t, "mid", hints[2].Scope)
	assert.Equal(t, SeverityInfo, hints[2].Severity)
}

func TestEvaluate_RuleOrder(t *testing.T) {
	summary := &parser.BuildSummary{
		TotalSeconds: 400,
		Modules: []parser.ModuleSummary{
			{Name: "core", Seconds: 200, TestsRun: 3, Errors: 1, TestSeconds: 150, MainSourceFiles: 70, TestSourceFiles: 5},
		},
	}

	var got []string
	for _, h := range Evaluate(summary) {
		got = append(got, h.Rule)
	}
	assert.Equal(t, []string{RuleTotalTime, RuleOverhead, RuleHotModule, RuleTestFailures, RuleTestRatio}, got)
}

func TestEvaluateWith_CustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.TotalTimeWarn = 60 * time.Second
	th.TotalTimeInfo = 30 * time.Second

	hints := byRule(EvaluateWith(&parser.BuildSummary{TotalSeconds: 61, Modules: quietModules(61)}, th), RuleTotalTime)
	require.Len(t, hints, 1)
	assert.Equal(t, SeverityWarn, hints[0].Severity)
}

func TestRules(t *testing.T) {
	assert.Equal(t, []string{
		"total_time", "overhead", "hot_module", "test_failures", "test_ratio", "untested_large_module",
	}, Rules())
}

func TestSeverity(t *testing.T) {
	assert.True(t, SeverityInfo < SeverityWarn)
	assert.True(t, SeverityWarn < SeverityCritical)
	assert.Equal(t, "CRITICAL", SeverityCritical.String())

	for input, want := range map[string]Severity{
		"info": SeverityInfo, "WARN": SeverityWarn, "warning": SeverityWarn, " Critical ": SeverityCritical,
	} {
		got, err := ParseSeverity(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseSeverity("fatal")
	assert.Error(t, err)

	_, ok := MaxSeverity(nil)
	assert.False(t, ok)
}

func TestHint_JSON(t *testing.T) {
	data, err := json.Marshal(Hint{Rule: RuleTotalTime, Severity: SeverityWarn, Scope: BuildScope, Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rule":"total_time","severity":"WARN","scope":"build","message":"m"}`, string(data))

	var decoded Hint
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, SeverityWarn, decoded.Severity)
}
