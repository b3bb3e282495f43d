package output

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ccollicutt/mvnlens/pkg/health"
	"github.com/ccollicutt/mvnlens/pkg/parser"
	"github.com/ccollicutt/mvnlens/pkg/plugintime"
)

// eps guards divisions by a zero build time.
const eps = 1e-9

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// FormatBuild renders a single-build report as text.
func (f *TextFormatter) FormatBuild(_ context.Context, report *BuildReport, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatBuildQuiet(report, w)
	}

	fmt.Fprintln(w, "=== mvnlens build report ===")
	fmt.Fprintf(w, "Log file : %s\n", report.Source)
	fmt.Fprintln(w)

	if report.Degraded() {
		f.formatParallel(report, w)
	} else {
		f.formatSerial(report.Summary, w)
		f.formatHints(report.Hints, w)
		f.formatPluginTimings(report.PluginTimings, w)
	}

	if f.opts.Verbose {
		f.formatMetadata(report.Metadata, w)
	}
	return nil
}

func (f *TextFormatter) formatBuildQuiet(report *BuildReport, w io.Writer) error {
	s := report.Summary
	line := fmt.Sprintf("mvnlens: %s total %.3f s, %d modules, %d hints",
		report.Source, s.TotalSeconds, len(s.Modules), len(report.Hints))
	if sev, ok := report.MaxSeverity(); ok {
		line += fmt.Sprintf(" (max %s)", sev)
	}
	if report.Degraded() {
		line += ", parallel build"
	}
	fmt.Fprintln(w, line)
	return nil
}

func (f *TextFormatter) formatSerial(s *parser.BuildSummary, w io.Writer) {
	total := s.TotalSeconds
	modulesTotal := s.ModulesTotalSeconds()
	overhead := math.Max(0, total-modulesTotal)

	fmt.Fprintf(w, "Total build time   : %.3f s\n", total)
	if total > eps {
		fmt.Fprintf(w, "Modules total time : %.3f s (%.1f%% of build)\n", modulesTotal, modulesTotal/total*100)
		fmt.Fprintf(w, "Other / overhead   : %.3f s (%.1f%% of build)\n", overhead, overhead/total*100)
	} else {
		fmt.Fprintf(w, "Modules total time : %.3f s\n", modulesTotal)
		fmt.Fprintf(w, "Other / overhead   : %.3f s\n", overhead)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Modules by time (share of whole build):")
	for i, m := range bySeconds(s.Modules) {
		fmt.Fprintf(w, "  %d) %-15s %6.3f s  (%4.1f%% of build)\n", i+1, m.Name, m.Seconds, percent(m.Seconds, total))
	}
	fmt.Fprintln(w)

	if slowest, ok := s.Slowest(); ok {
		fmt.Fprintf(w, "Slowest module: %s (%.3f s, %.1f%% of build)\n",
			slowest.Name, slowest.Seconds, percent(slowest.Seconds, total))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Test breakdown per module:")
	for _, m := range s.Modules {
		if m.TestsRun == 0 && m.TestSeconds <= 0 {
			fmt.Fprintf(w, "  %s: no tests detected\n", m.Name)
			continue
		}
		fmt.Fprintf(w, "  %s: tests %d (F:%d, E:%d, S:%d) in %.3f s (%.1f%% of module time)\n",
			m.Name, m.TestsRun, m.Failures, m.Errors, m.Skipped, m.TestSeconds, percent(m.TestSeconds, m.Seconds))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compilation workload (source files):")
	for _, m := range s.Modules {
		fmt.Fprintf(w, "  %s: main %d, test %d\n", m.Name, m.MainSourceFiles, m.TestSourceFiles)
	}
}

// formatParallel renders the figures that stay meaningful when module
// output interleaves: wall clock, module work and the critical path.
func (f *TextFormatter) formatParallel(report *BuildReport, w io.Writer) {
	s := report.Summary

	note := "NOTE: Parallel build detected"
	if report.Parallel.Builder != "" {
		note += " (" + report.Parallel.Builder
		if report.Parallel.Threads > 0 {
			note += fmt.Sprintf(", %d threads", report.Parallel.Threads)
		}
		note += ")"
	}
	fmt.Fprintln(w, note+".")
	fmt.Fprintln(w, "      In parallel builds, module times overlap, so some per-module metrics are disabled.")
	fmt.Fprintln(w)

	wall := s.TotalSeconds
	work := s.ModulesTotalSeconds()
	var maxModule float64
	for _, m := range s.Modules {
		maxModule = math.Max(maxModule, m.Seconds)
	}
	overlap := math.Max(0, work-wall)

	fmt.Fprintf(w, "Wall clock total time : %.3f s\n", wall)
	if wall > eps {
		fmt.Fprintf(w, "Module work (sum of module durations): %.3f s  (%.2fx wall clock)\n", work, work/wall)
		fmt.Fprintf(w, "Critical-path estimate (max module)  : %.3f s  (%.1f%% of wall clock)\n", maxModule, maxModule/wall*100)
	} else {
		fmt.Fprintf(w, "Module work (sum of module durations): %.3f s\n", work)
		fmt.Fprintf(w, "Critical-path estimate (max module)  : %.3f s\n", maxModule)
	}
	fmt.Fprintf(w, "Estimated overlap / parallelism gain : %.3f s  (work - wall)\n", overlap)
	fmt.Fprintln(w)

	sorted := bySeconds(s.Modules)
	fmt.Fprintln(w, "Modules by duration (Reactor Summary):")
	for i, m := range sorted {
		fmt.Fprintf(w, "  %d) %-15s %6.3f s   (%4.1f%% of wall, %4.1f%% of work)\n",
			i+1, m.Name, m.Seconds, percent(m.Seconds, wall), percent(m.Seconds, work))
	}
	fmt.Fprintln(w)

	if len(sorted) > 0 {
		top := sorted[0].Seconds
		var slowest []string
		for _, m := range sorted {
			if math.Abs(m.Seconds-top) < 1e-6 {
				slowest = append(slowest, m.Name)
			}
		}
		if len(slowest) == 1 {
			fmt.Fprintf(w, "Slowest module: %s (%.3f s)\n", slowest[0], top)
		} else {
			fmt.Fprintf(w, "Slowest module(s): %s (%.3f s each)\n", strings.Join(slowest, ", "), top)
		}
	}

	var tests, failures, errs, skipped, mainSources, testSources int
	var testSeconds float64
	for _, m := range s.Modules {
		tests += m.TestsRun
		failures += m.Failures
		errs += m.Errors
		skipped += m.Skipped
		testSeconds += m.TestSeconds
		mainSources += m.MainSourceFiles
		testSources += m.TestSourceFiles
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tests (build-wide, not per module):")
	if tests == 0 && testSeconds <= eps {
		fmt.Fprintln(w, "  (no tests detected)")
	} else {
		fmt.Fprintf(w, "  tests %d (F:%d, E:%d, S:%d) in %.3f s\n", tests, failures, errs, skipped, testSeconds)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compilation workload (build-wide, not per module):")
	fmt.Fprintf(w, "  main %d, test %d\n", mainSources, testSources)

	f.formatHints(report.Hints, w)
}

func (f *TextFormatter) formatHints(hints []health.Hint, w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build health hints:")
	if len(hints) == 0 {
		fmt.Fprintln(w, "  (no issues detected by current rules)")
		return
	}

	for _, h := range hints {
		label := f.severityLabel(h.Severity)
		if h.Scope != "" && h.Scope != health.BuildScope {
			fmt.Fprintf(w, "  %s [%s] %s\n", label, h.Scope, h.Message)
		} else {
			fmt.Fprintf(w, "  %s %s\n", label, h.Message)
		}
	}
}

func (f *TextFormatter) formatPluginTimings(timings map[string][]plugintime.Timing, w io.Writer) {
	if len(timings) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Plugin timings per module (heuristic):")
	fmt.Fprintf(w, "  %s\n", plugintime.Disclaimer)
	for _, module := range plugintime.Modules(timings) {
		fmt.Fprintf(w, "  %s:\n", module)
		for _, t := range timings[module] {
			fmt.Fprintf(w, "    %-30s ~%7.3f s  (%d lines)\n", t.PluginKey, t.EstimatedSeconds, t.LineCount)
		}
	}
}

// FormatAggregate renders a multi-build report as text.
func (f *TextFormatter) FormatAggregate(_ context.Context, report *AggregateReport, w io.Writer) error {
	s := report.Summary

	if f.opts.Quiet {
		fmt.Fprintf(w, "mvnlens: %d builds, total avg %.3f s (min %.3f s, max %.3f s), %d skipped\n",
			s.BuildCount, s.AverageTotalSeconds, s.MinTotalSeconds, s.MaxTotalSeconds, len(report.Skipped))
		return nil
	}

	fmt.Fprintf(w, "=== mvnlens aggregate report (%s) ===\n", modeLabel(report.Mode))
	fmt.Fprintf(w, "Log files (%d):\n", len(report.LogFiles))
	for _, p := range report.LogFiles {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped (%d):\n", len(report.Skipped))
		for _, sk := range report.Skipped {
			fmt.Fprintf(w, "  - %s: %s\n", sk.Path, sk.Reason)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Builds analyzed      : %d\n", s.BuildCount)
	fmt.Fprintf(w, "Total time (seconds) : avg %.3f, min %.3f, max %.3f\n",
		s.AverageTotalSeconds, s.MinTotalSeconds, s.MaxTotalSeconds)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Modules by average total time:")
	for i, m := range s.Modules {
		fmt.Fprintf(w, "  %d) %-15s avg %6.3f s  (min %6.3f s, max %6.3f s, builds %d)\n",
			i+1, m.Name, m.AverageSeconds, m.MinSeconds, m.MaxSeconds, m.BuildCount)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Modules by average test time (seconds):")
	tested := s.ModulesByTestTime()
	if len(tested) == 0 {
		fmt.Fprintln(w, "  (no tests detected in any module)")
	}
	for i, m := range tested {
		fmt.Fprintf(w, "  %d) %-15s avg %6.3f s  (min %6.3f s, max %6.3f s, builds %d, total tests %d, failures %d)\n",
			i+1, m.Name, m.AverageTestSeconds, m.MinTestSeconds, m.MaxTestSeconds,
			m.BuildCount, m.TotalTestsRun, m.TotalFailures)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Average compilation workload per build (source files):")
	for _, m := range s.Modules {
		fmt.Fprintf(w, "  %s: main ~%.1f, test ~%.1f\n", m.Name, m.AverageMainSourceFiles, m.AverageTestSourceFiles)
	}

	if f.opts.Verbose {
		f.formatMetadata(report.Metadata, w)
	}
	return nil
}

func (f *TextFormatter) formatMetadata(m Metadata, w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Report ID: %s\n", m.ReportID)
	fmt.Fprintf(w, "Generated: %s\n", m.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if m.ConfigFile != "" {
		fmt.Fprintf(w, "Config: %s\n", m.ConfigFile)
	}
	fmt.Fprintf(w, "mvnlens %s\n", m.Version)
}

var severityColors = map[health.Severity]lipgloss.Color{
	health.SeverityInfo:     lipgloss.Color("39"),
	health.SeverityWarn:     lipgloss.Color("220"),
	health.SeverityCritical: lipgloss.Color("196"),
}

func (f *TextFormatter) severityLabel(sev health.Severity) string {
	label := "[" + sev.String() + "]"
	if f.opts.NoColor {
		return label
	}
	return lipgloss.NewStyle().Foreground(severityColors[sev]).Render(label)
}

func modeLabel(mode Mode) string {
	return cases.Title(language.English).String(string(mode))
}

// bySeconds returns a copy of modules ordered by descending duration.
func bySeconds(modules []parser.ModuleSummary) []parser.ModuleSummary {
	sorted := make([]parser.ModuleSummary, len(modules))
	copy(sorted, modules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Seconds > sorted[j].Seconds
	})
	return sorted
}

func percent(part, whole float64) float64 {
	if whole <= eps {
		return 0
	}
	return part / whole * 100
}
