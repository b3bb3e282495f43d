package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ccollicutt/mvnlens/pkg/health"
	"github.com/ccollicutt/mvnlens/pkg/parser"
	"github.com/ccollicutt/mvnlens/pkg/plugintime"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestTextFormatter_FormatBuild(t *testing.T) {
	f := NewTextFormatter(FormatOptions{NoColor: true})

	var buf bytes.Buffer
	if err := f.FormatBuild(context.Background(), createBuildReport(), &buf); err != nil {
		t.Fatalf("FormatBuild() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Log file : build.log",
		"Total build time   : 10.000 s",
		"Modules total time : 8.000 s (80.0% of build)",
		"Other / overhead   : 2.000 s (20.0% of build)",
		"  1) core             6.000 s  (60.0% of build)",
		"  2) api              2.000 s  (20.0% of build)",
		"Slowest module: core (6.000 s, 60.0% of build)",
		"  api: no tests detected",
		"  core: tests 20 (F:1, E:0, S:2) in 3.000 s (50.0% of module time)",
		"  core: main 40, test 10",
		"  [WARN] [core] Module 'core' takes 60.0%",
		"  [CRITICAL] [core] Tests in module 'core' have 1 failures and 0 errors.",
		"  [INFO] Non-module overhead is 2.000 s (20.0% of build).",
		plugintime.Disclaimer,
		"surefire:test",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}

	if strings.Contains(output, "Report ID") {
		t.Error("metadata should only be printed in verbose mode")
	}
}

func TestTextFormatter_FormatBuild_NoHints(t *testing.T) {
	f := NewTextFormatter(FormatOptions{NoColor: true})
	report := createBuildReport()
	report.Hints = nil
	report.SetPluginTimings(nil)

	var buf bytes.Buffer
	if err := f.FormatBuild(context.Background(), report, &buf); err != nil {
		t.Fatalf("FormatBuild() error = %v", err)
	}

	if !strings.Contains(buf.String(), "(no issues detected by current rules)") {
		t.Error("output missing empty hints marker")
	}
	if strings.Contains(buf.String(), "heuristic") {
		t.Error("plugin timing section should be omitted without timings")
	}
}

func TestTextFormatter_FormatBuild_ZeroTotal(t *testing.T) {
	f := NewTextFormatter(FormatOptions{NoColor: true})
	report := &BuildReport{
		Source:  "zero.log",
		Summary: &parser.BuildSummary{Modules: []parser.ModuleSummary{{Name: "core"}}},
	}

	var buf bytes.Buffer
	if err := f.FormatBuild(context.Background(), report, &buf); err != nil {
		t.Fatalf("FormatBuild() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Modules total time : 0.000 s\n") {
		t.Errorf("unexpected zero-total output:\n%s", buf.String())
	}
}

func TestTextFormatter_FormatBuild_Parallel(t *testing.T) {
	f := NewTextFormatter(FormatOptions{NoColor: true})

	var buf bytes.Buffer
	if err := f.FormatBuild(context.Background(), createParallelReport(), &buf); err != nil {
		t.Fatalf("FormatBuild() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"NOTE: Parallel build detected (MultiThreadedBuilder, 4 threads).",
		"Wall clock total time : 5.000 s",
		"Module work (sum of module durations): 9.000 s  (1.80x wall clock)",
		"Critical-path estimate (max module)  : 4.000 s  (80.0% of wall clock)",
		"Estimated overlap / parallelism gain : 4.000 s  (work - wall)",
		"Slowest module(s): a, b (4.000 s each)",
		"  tests 3 (F:1, E:0, S:0) in 1.000 s",
		"  main 7, test 0",
		"[INFO] Parallel build detected. Per-module test/compile attribution is disabled",
		"[WARN] Critical-path candidates: a, b (~4.000 s)",
		"[CRITICAL] Tests across the build have 1 failures and 0 errors.",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}

	if strings.Contains(output, "Test breakdown per module") {
		t.Error("per-module test breakdown must be disabled for parallel builds")
	}
	if strings.Contains(output, "[a]") {
		t.Error("parallel hints must not be attributed to a module")
	}
}

func TestTextFormatter_FormatBuild_ParallelRendersReportHints(t *testing.T) {
	f := NewTextFormatter(FormatOptions{NoColor: true})
	report := createParallelReport()
	report.Hints = []health.Hint{}

	var buf bytes.Buffer
	if err := f.FormatBuild(context.Background(), report, &buf); err != nil {
		t.Fatalf("FormatBuild() error = %v", err)
	}
	output := buf.String()

	if strings.Contains(output, "Critical-path candidates") {
		t.Errorf("hints must come from the report, got:\n%s", output)
	}
	if !strings.Contains(output, "(no issues detected by current rules)") {
		t.Errorf("output missing empty-hints line\n%s", output)
	}
}

func TestTextFormatter_FormatBuild_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	if err := f.FormatBuild(context.Background(), createBuildReport(), &buf); err != nil {
		t.Fatalf("FormatBuild() error = %v", err)
	}

	want := "mvnlens: build.log total 10.000 s, 2 modules, 3 hints (max CRITICAL)\n"
	if buf.String() != want {
		t.Errorf("quiet output = %q, want %q", buf.String(), want)
	}
}

func TestTextFormatter_FormatBuild_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true, NoColor: true})
	report := createBuildReport()

	var buf bytes.Buffer
	if err := f.FormatBuild(context.Background(), report, &buf); err != nil {
		t.Fatalf("FormatBuild() error = %v", err)
	}

	for _, want := range []string{"Report ID: " + report.Metadata.ReportID, "Config: .mvnlens.yaml", "mvnlens v1.2.3"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("verbose output missing %q", want)
		}
	}
}

func TestTextFormatter_FormatAggregate(t *testing.T) {
	f := NewTextFormatter(FormatOptions{NoColor: true})

	var buf bytes.Buffer
	if err := f.FormatAggregate(context.Background(), createAggregateReport(), &buf); err != nil {
		t.Fatalf("FormatAggregate() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"=== mvnlens aggregate report (Directory) ===",
		"Log files (2):",
		"  - logs/b.log",
		"  - logs/broken.log: missing total time",
		"Builds analyzed      : 2",
		"Total time (seconds) : avg 12.000, min 10.000, max 14.000",
		"  1) core            avg  7.000 s  (min  6.000 s, max  8.000 s, builds 2)",
		"  2) webapp          avg  5.000 s",
		"  1) core            avg  2.000 s  (min  1.000 s, max  3.000 s, builds 2, total tests 40, failures 0)",
		"  core: main ~40.0, test ~10.0",
		"  webapp: main ~0.0, test ~0.0",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}
}

func TestTextFormatter_FormatAggregate_NoTests(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := createAggregateReport()
	report.Summary.Modules[0].AverageTestSeconds = 0

	var buf bytes.Buffer
	if err := f.FormatAggregate(context.Background(), report, &buf); err != nil {
		t.Fatalf("FormatAggregate() error = %v", err)
	}
	if !strings.Contains(buf.String(), "(no tests detected in any module)") {
		t.Error("output missing no-tests marker")
	}
}

func TestTextFormatter_FormatAggregate_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	if err := f.FormatAggregate(context.Background(), createAggregateReport(), &buf); err != nil {
		t.Fatalf("FormatAggregate() error = %v", err)
	}

	want := "mvnlens: 2 builds, total avg 12.000 s (min 10.000 s, max 14.000 s), 1 skipped\n"
	if buf.String() != want {
		t.Errorf("quiet output = %q, want %q", buf.String(), want)
	}
}

func TestModeLabel(t *testing.T) {
	tests := map[Mode]string{
		ModeDirectory: "Directory",
		ModePattern:   "Pattern",
		ModeFiles:     "Files",
	}
	for mode, want := range tests {
		if got := modeLabel(mode); got != want {
			t.Errorf("modeLabel(%q) = %q, want %q", mode, got, want)
		}
	}
}
