// Package plugintime estimates how a module's build time splits across its
// plugin goals.
//
// Maven does not log per-goal durations. The estimate assumes a goal's share of
// the module time equals its share of the module's log lines. It is a
// proportionality heuristic, not a measurement: a quiet but slow goal (a long
// compile) is underestimated and a chatty but fast one is overestimated.
package plugintime

import (
	"sort"

	"github.com/ccollicutt/mvnlens/pkg/parser"
)

// Disclaimer accompanies every rendering of plugin timings.
const Disclaimer = "Estimated from log line counts; not measured durations."

// Timing is the estimated time of one plugin goal within a module.
type Timing struct {
	PluginKey        string  `json:"plugin_key"`
	LineCount        int     `json:"line_count"`
	EstimatedSeconds float64 `json:"estimated_seconds"`
}

// block is the open plugin-step block while scanning.
type block struct {
	module string
	key    string
	start  int
}

// moduleBlocks accumulates line counts per plugin key in first-seen order.
type moduleBlocks struct {
	keys   []string
	counts map[string]int
}

func (m *moduleBlocks) add(key string, n int) {
	if _, ok := m.counts[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.counts[key] += n
}

// Analyze attributes each module's seconds to the plugin goals logged for it.
// Lines between two plugin headers belong to the first one; lines after the
// last header belong to it. Blocks with no lines are not recorded. Repeated
// executions of the same goal in a module accumulate.
//
// Each module's timings are ordered by descending estimated seconds.
func Analyze(lines []string, moduleSeconds map[string]float64) map[string][]Timing {
	byModule := make(map[string]*moduleBlocks)

	record := func(b *block, end int) {
		n := end - (b.start + 1)
		if n <= 0 {
			return
		}
		mb := byModule[b.module]
		if mb == nil {
			mb = &moduleBlocks{counts: make(map[string]int)}
			byModule[b.module] = mb
		}
		mb.add(b.key, n)
	}

	var open *block
	for i, line := range lines {
		step, ok := parser.MatchPluginHeader(line)
		if !ok {
			continue
		}
		if open != nil {
			record(open, i)
		}
		open = &block{module: step.Module, key: step.Key(), start: i}
	}
	if open != nil {
		record(open, len(lines))
	}

	result := make(map[string][]Timing, len(byModule))
	for module, mb := range byModule {
		result[module] = estimate(mb, moduleSeconds[module])
	}
	return result
}

func estimate(mb *moduleBlocks, seconds float64) []Timing {
	total := 0
	for _, key := range mb.keys {
		total += mb.counts[key]
	}

	timings := make([]Timing, 0, len(mb.keys))
	for _, key := range mb.keys {
		count := mb.counts[key]
		var est float64
		if seconds > 0 && total > 0 && count > 0 {
			est = seconds * float64(count) / float64(total)
		}
		timings = append(timings, Timing{
			PluginKey:        key,
			LineCount:        count,
			EstimatedSeconds: est,
		})
	}

	sort.SliceStable(timings, func(i, j int) bool {
		return timings[i].EstimatedSeconds > timings[j].EstimatedSeconds
	})
	return timings
}

// AnalyzeSummary runs Analyze with the module durations of summary.
func AnalyzeSummary(lines []string, summary *parser.BuildSummary) map[string][]Timing {
	return Analyze(lines, summary.ModuleSeconds())
}

// Modules returns the module names of result ordered by descending total
// estimated seconds, then by name.
func Modules(result map[string][]Timing) []string {
	totals := make(map[string]float64, len(result))
	names := make([]string, 0, len(result))
	for module, timings := range result {
		names = append(names, module)
		for _, t := range timings {
			totals[module] += t.EstimatedSeconds
		}
	}

	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
