// Package parser extracts structured build data from Maven console logs.
package parser

// BuildSummary is the structured result of parsing one Maven build log.
// It is never modified after Parse returns it.
type BuildSummary struct {
	// TotalSeconds is the wall clock time reported by the "Total time:" line.
	TotalSeconds float64 `json:"total_seconds"`

	// Modules lists modules in Reactor Summary order.
	Modules []ModuleSummary `json:"modules"`
}

// ModuleSummary holds the metrics collected for a single reactor module.
type ModuleSummary struct {
	Name    string  `json:"name"`
	Seconds float64 `json:"seconds"`

	TestsRun    int     `json:"tests_run"`
	Failures    int     `json:"failures"`
	Errors      int     `json:"errors"`
	Skipped     int     `json:"skipped"`
	TestSeconds float64 `json:"test_seconds"`

	// MainSourceFiles and TestSourceFiles are summed over every compiler
	// invocation seen for the module.
	MainSourceFiles int `json:"main_source_files"`
	TestSourceFiles int `json:"test_source_files"`

	// PipelineSteps lists the plugin:goal steps in the order they ran.
	PipelineSteps []string `json:"pipeline_steps"`
}

// HasTests reports whether any test activity was recorded for the module.
func (m *ModuleSummary) HasTests() bool {
	return m.TestsRun > 0 || m.Failures > 0 || m.Errors > 0 || m.Skipped > 0 || m.TestSeconds > 0
}

// ModuleSeconds returns module durations keyed by module name.
func (b *BuildSummary) ModuleSeconds() map[string]float64 {
	seconds := make(map[string]float64, len(b.Modules))
	for _, m := range b.Modules {
		seconds[m.Name] = m.Seconds
	}
	return seconds
}

// ModulesTotalSeconds returns the sum of all module durations.
func (b *BuildSummary) ModulesTotalSeconds() float64 {
	var total float64
	for _, m := range b.Modules {
		total += m.Seconds
	}
	return total
}

// Slowest returns the module with the largest duration. The first one wins on
// ties. ok is false when the summary has no modules.
func (b *BuildSummary) Slowest() (m ModuleSummary, ok bool) {
	for i, mod := range b.Modules {
		if i == 0 || mod.Seconds > m.Seconds {
			m = mod
			ok = true
		}
	}
	return m, ok
}
