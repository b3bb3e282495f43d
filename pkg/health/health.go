// Package health evaluates a parsed build against fixed rules and produces
// diagnostic hints.
package health

import (
	"fmt"
	"sort"
	"time"

	"github.com/ccollicutt/mvnlens/pkg/parser"
)

// BuildScope is the scope of hints about the build as a whole.
const BuildScope = "build"

// Rule names, in evaluation order.
const (
	RuleTotalTime           = "total_time"
	RuleOverhead            = "overhead"
	RuleHotModule           = "hot_module"
	RuleTestFailures        = "test_failures"
	RuleTestRatio           = "test_ratio"
	RuleUntestedLargeModule = "untested_large_module"
)

// Hint is one diagnostic finding.
type Hint struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`

	// Scope is a module name or BuildScope.
	Scope   string `json:"scope"`
	Message string `json:"message"`
}

// Thresholds configures the rules. Each rule fires WARN at its warn value and
// INFO at its info value; comparisons are inclusive.
type Thresholds struct {
	TotalTimeWarn time.Duration
	TotalTimeInfo time.Duration

	// Share of the build not spent inside any module.
	OverheadWarn float64
	OverheadInfo float64

	// Share of the build spent in a single module.
	HotModuleWarn float64
	HotModuleInfo float64

	// Share of a module's time spent running tests.
	TestRatioWarn float64
	TestRatioInfo float64

	// Main source file counts above which a module is expected to be tested.
	UntestedMainSourcesWarn int
	UntestedMainSourcesInfo int
}

// DefaultThresholds returns the built-in rule thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TotalTimeWarn:           300 * time.Second,
		TotalTimeInfo:           120 * time.Second,
		OverheadWarn:            0.25,
		OverheadInfo:            0.15,
		HotModuleWarn:           0.40,
		HotModuleInfo:           0.25,
		TestRatioWarn:           0.50,
		TestRatioInfo:           0.30,
		UntestedMainSourcesWarn: 50,
		UntestedMainSourcesInfo: 10,
	}
}

type rule struct {
	name  string
	apply func(*parser.BuildSummary, Thresholds) []Hint
}

// rules is the fixed evaluation order.
var rules = []rule{
	{RuleTotalTime, totalTime},
	{RuleOverhead, overhead},
	{RuleHotModule, hotModule},
	{RuleTestFailures, testFailures},
	{RuleTestRatio, testRatio},
	{RuleUntestedLargeModule, untestedLargeModule},
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Evaluate applies every rule with DefaultThresholds.
func Evaluate(summary *parser.BuildSummary) []Hint {
	return EvaluateWith(summary, DefaultThresholds())
}

// EvaluateWith applies every rule in order and concatenates their hints.
// The result is empty, not nil, when nothing fires.
func EvaluateWith(summary *parser.BuildSummary, t Thresholds) []Hint {
	hints := []Hint{}
	for _, r := range rules {
		for _, h := range r.apply(summary, t) {
			h.Rule = r.name
			hints = append(hints, h)
		}
	}
	return hints
}

func totalTime(s *parser.BuildSummary, t Thresholds) []Hint {
	total := s.TotalSeconds
	switch {
	case total >= t.TotalTimeWarn.Seconds():
		return []Hint{{
			Severity: SeverityWarn,
			Scope:    BuildScope,
			Message: fmt.Sprintf("Total build time is %.1f s (%.1f min). Consider optimizing hotspots.",
				total, total/60.0),
		}}
	case total >= t.TotalTimeInfo.Seconds():
		return []Hint{{
			Severity: SeverityInfo,
			Scope:    BuildScope,
			Message: fmt.Sprintf("Total build time is %.1f s (%.1f min). Might be worth watching over time.",
				total, total/60.0),
		}}
	}
	return nil
}

func overhead(s *parser.BuildSummary, t Thresholds) []Hint {
	total := s.TotalSeconds
	if total <= 0 {
		return nil
	}

	over := total - s.ModulesTotalSeconds()
	if over < 0 {
		over = 0
	}
	share := over / total

	switch {
	case share >= t.OverheadWarn:
		return []Hint{{
			Severity: SeverityWarn,
			Scope:    BuildScope,
			Message: fmt.Sprintf("Non-module overhead is %.3f s (%.1f%% of build). "+
				"Dependency resolution or lifecycle setup may be significant.", over, share*100),
		}}
	case share >= t.OverheadInfo:
		return []Hint{{
			Severity: SeverityInfo,
			Scope:    BuildScope,
			Message:  fmt.Sprintf("Non-module overhead is %.3f s (%.1f%% of build).", over, share*100),
		}}
	}
	return nil
}

func hotModule(s *parser.BuildSummary, t Thresholds) []Hint {
	total := s.TotalSeconds
	if total <= 0 {
		return nil
	}

	modules := make([]parser.ModuleSummary, len(s.Modules))
	copy(modules, s.Modules)
	sort.SliceStable(modules, func(i, j int) bool {
		return modules[i].Seconds > modules[j].Seconds
	})

	var hints []Hint
	for _, m := range modules {
		share := m.Seconds / total
		switch {
		case share >= t.HotModuleWarn:
			hints = append(hints, Hint{
				Severity: SeverityWarn,
				Scope:    m.Name,
				Message: fmt.Sprintf("Module '%s' takes %.1f%% of total build time (%.3f s). It is a clear hotspot.",
					m.Name, share*100, m.Seconds),
			})
		case share >= t.HotModuleInfo:
			hints = append(hints, Hint{
				Severity: SeverityInfo,
				Scope:    m.Name,
				Message: fmt.Sprintf("Module '%s' takes %.1f%% of total build time (%.3f s).",
					m.Name, share*100, m.Seconds),
			})
		}
	}
	return hints
}

func testFailures(s *parser.BuildSummary, _ Thresholds) []Hint {
	var hints []Hint
	for _, m := range s.Modules {
		if m.Failures > 0 || m.Errors > 0 {
			hints = append(hints, Hint{
				Severity: SeverityCritical,
				Scope:    m.Name,
				Message: fmt.Sprintf("Tests in module '%s' have %d failures and %d errors.",
					m.Name, m.Failures, m.Errors),
			})
		}
	}
	return hints
}

func testRatio(s *parser.BuildSummary, t Thresholds) []Hint {
	var hints []Hint
	for _, m := range s.Modules {
		if m.Seconds <= 0 || m.TestSeconds <= 0 {
			continue
		}

		share := m.TestSeconds / m.Seconds
		switch {
		case share >= t.TestRatioWarn:
			hints = append(hints, Hint{
				Severity: SeverityWarn,
				Scope:    m.Name,
				Message: fmt.Sprintf("Tests account for %.1f%% of module '%s' time (%.3f s out of %.3f s). "+
					"Consider speeding up or splitting tests.", share*100, m.Name, m.TestSeconds, m.Seconds),
			})
		case share >= t.TestRatioInfo:
			hints = append(hints, Hint{
				Severity: SeverityInfo,
				Scope:    m.Name,
				Message: fmt.Sprintf("Tests account for %.1f%% of module '%s' time (%.3f s out of %.3f s).",
					share*100, m.Name, m.TestSeconds, m.Seconds),
			})
		}
	}
	return hints
}

func untestedLargeModule(s *parser.BuildSummary, t Thresholds) []Hint {
	var hints []Hint
	for _, m := range s.Modules {
		switch {
		case m.MainSourceFiles >= t.UntestedMainSourcesWarn && m.TestsRun == 0:
			hints = append(hints, Hint{
				Severity: SeverityWarn,
				Scope:    m.Name,
				Message: fmt.Sprintf("Module '%s' has %d main source files but no tests were executed.",
					m.Name, m.MainSourceFiles),
			})
		case m.MainSourceFiles >= t.UntestedMainSourcesInfo && m.TestSourceFiles == 0:
			hints = append(hints, Hint{
				Severity: SeverityInfo,
				Scope:    m.Name,
				Message: fmt.Sprintf("Module '%s' has %d main source files but no test sources were compiled.",
					m.Name, m.MainSourceFiles),
			})
		}
	}
	return hints
}
