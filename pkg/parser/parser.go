package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parse errors. Callers aggregating many logs typically skip files that
// fail with either of these.
var (
	// ErrMissingTotalTime is returned when no "Total time:" line is found.
	ErrMissingTotalTime = errors.New("missing total time")

	// ErrNoReactorSummaryModules is returned when the Reactor Summary is
	// absent or lists no modules.
	ErrNoReactorSummaryModules = errors.New("no modules in reactor summary")
)

const (
	totalTimeMarker      = "Total time:"
	reactorSummaryMarker = "Reactor Summary"
	buildSuccessMarker   = "BUILD SUCCESS"
	buildFailureMarker   = "BUILD FAILURE"

	// testOutputMarker identifies compiler targets holding test classes.
	testOutputMarker = "test-classes"
)

var (
	// [INFO] Total time:  8.294 s
	totalTimePattern = regexp.MustCompile(`Total time:\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]+)`)

	// [INFO] Total time:  01:05 min  /  [INFO] Total time:  01:02 h
	totalClockPattern = regexp.MustCompile(`Total time:\s*([0-9]+):([0-9]{2})(?::([0-9]{2}))?\s*(min|h)\b`)

	// [INFO] Building core 1.0-SNAPSHOT                                         [2/4]
	buildingPattern = regexp.MustCompile(`\[INFO\] Building\s+(.+?)\s+\S+\s+\[[0-9]+/[0-9]+\]`)

	// [INFO] Compiling 12 source files with javac [debug release 17] to target/classes
	compilePattern = regexp.MustCompile(`\[INFO\] Compiling\s+(\d+)\s+source files?\s+.*to\s+(.+)$`)

	// Tests run: 3, Failures: 0, Errors: 0, Skipped: 0, Time elapsed: 0.064 s -- in com.example.FooTest
	testResultPattern = regexp.MustCompile(`Tests run:\s*(\d+),\s*Failures:\s*(\d+),\s*Errors:\s*(\d+),\s*Skipped:\s*(\d+),\s*Time elapsed:\s*([0-9]+(?:\.[0-9]+)?)\s*s`)

	// [INFO] core ............................................... SUCCESS [  4.637 s]
	moduleLinePattern = regexp.MustCompile(`\[INFO\]\s+(.+?)\s+.*\[\s*([0-9]+(?:\.[0-9]+)?)\s*s\]`)

	// [INFO] core ............................................... SUCCESS [01:05 min]
	moduleClockPattern = regexp.MustCompile(`\[INFO\]\s+(.+?)\s+.*\[\s*([0-9]+):([0-9]{2})\s*(min|h)\s*\]`)

	// Names containing spaces are only recoverable up to the dot filler.
	dottedNamePattern = regexp.MustCompile(`\[INFO\]\s+(\S.*?)\s+\.{2,}\s`)

	dividerPattern = regexp.MustCompile(`^\[INFO\]\s*-{3,}\s*$`)
)

// Parse converts the lines of one Maven build log into a BuildSummary.
//
// The total time is taken from the last "Total time:" line. Per-module test,
// compile and plugin data is collected while scanning "Building ..." sections,
// then joined with the durations listed in the Reactor Summary. Modules are
// identified by display name; when two Reactor Summary rows share a name only
// the first is kept, so each name appears at most once per build.
func Parse(lines []string) (*BuildSummary, error) {
	total, err := parseTotalTime(lines)
	if err != nil {
		return nil, err
	}

	metrics := parseModuleMetrics(lines)

	modules, err := parseReactorSummary(lines, metrics)
	if err != nil {
		return nil, err
	}

	return &BuildSummary{
		TotalSeconds: total,
		Modules:      modules,
	}, nil
}

// parseTotalTime scans backwards so that the final summary line wins over
// any earlier echo of the same marker.
func parseTotalTime(lines []string) (float64, error) {
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !strings.Contains(line, totalTimeMarker) {
			continue
		}

		if m := totalClockPattern.FindStringSubmatch(line); m != nil {
			return clockSeconds(m[1], m[2], m[3], m[4]), nil
		}

		if m := totalTimePattern.FindStringSubmatch(line); m != nil {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			return normalizeUnit(value, m[2]), nil
		}
	}

	return 0, fmt.Errorf("%w: could not find a 'Total time:' line (is this a Maven build log with INFO output?)",
		ErrMissingTotalTime)
}

// normalizeUnit converts value to seconds. Unknown units are returned as-is.
func normalizeUnit(value float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "s", "sec", "secs", "second", "seconds":
		return value
	case "ms":
		return value / 1000.0
	case "min", "mins", "minute", "minutes":
		return value * 60.0
	default:
		return value
	}
}

// clockSeconds converts Maven's "mm:ss min" and "hh:mm[:ss] h" durations.
func clockSeconds(first, second, third, unit string) float64 {
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)
	c, _ := strconv.Atoi(third)

	if unit == "h" {
		return float64(a*3600 + b*60 + c)
	}
	return float64(a*60 + b)
}

// moduleMetrics accumulates per-module data during the first pass.
type moduleMetrics struct {
	name    string
	seconds float64

	testsRun    int
	failures    int
	errors      int
	skipped     int
	testSeconds float64

	mainSources int
	testSources int

	steps []string
}

func (m *moduleMetrics) summary() ModuleSummary {
	steps := make([]string, len(m.steps))
	copy(steps, m.steps)

	return ModuleSummary{
		Name:            m.name,
		Seconds:         m.seconds,
		TestsRun:        m.testsRun,
		Failures:        m.failures,
		Errors:          m.errors,
		Skipped:         m.skipped,
		TestSeconds:     m.testSeconds,
		MainSourceFiles: m.mainSources,
		TestSourceFiles: m.testSources,
		PipelineSteps:   steps,
	}
}

// parseModuleMetrics walks the log with a "current module" cursor set by the
// "Building ..." headers. Lines before the first header have no module and
// are ignored.
func parseModuleMetrics(lines []string) map[string]*moduleMetrics {
	byName := make(map[string]*moduleMetrics)
	var current *moduleMetrics

	for _, line := range lines {
		if m := buildingPattern.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			if byName[name] == nil {
				byName[name] = &moduleMetrics{name: name}
			}
			current = byName[name]
			continue
		}

		if current == nil {
			continue
		}

		if step, ok := MatchPluginHeader(line); ok {
			current.steps = append(current.steps, step.Key())
			continue
		}

		if m := compilePattern.FindStringSubmatch(line); m != nil {
			files, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if strings.Contains(m[2], testOutputMarker) {
				current.testSources += files
			} else {
				current.mainSources += files
			}
			continue
		}

		if m := testResultPattern.FindStringSubmatch(line); m != nil {
			run, _ := strconv.Atoi(m[1])
			failures, _ := strconv.Atoi(m[2])
			errs, _ := strconv.Atoi(m[3])
			skipped, _ := strconv.Atoi(m[4])
			elapsed, _ := strconv.ParseFloat(m[5], 64)

			current.testsRun += run
			current.failures += failures
			current.errors += errs
			current.skipped += skipped
			current.testSeconds += elapsed
		}
	}

	return byName
}

// parseReactorSummary reads module durations from the Reactor Summary table,
// preserving table order. The scan stops at BUILD SUCCESS/FAILURE, or at a
// divider once the table has started.
func parseReactorSummary(lines []string, byName map[string]*moduleMetrics) ([]ModuleSummary, error) {
	var modules []ModuleSummary
	emitted := make(map[string]bool)
	inSummary := false
	dividers := 0

	for _, line := range lines {
		if !inSummary {
			if strings.Contains(line, reactorSummaryMarker) {
				inSummary = true
			}
			continue
		}

		if strings.Contains(line, buildSuccessMarker) || strings.Contains(line, buildFailureMarker) {
			break
		}

		if dividerPattern.MatchString(line) {
			if dividers == 0 && len(modules) == 0 {
				dividers++
				continue
			}
			break
		}

		name, seconds, ok := matchModuleLine(line)
		if !ok || emitted[name] {
			continue
		}
		emitted[name] = true

		metrics := byName[name]
		if metrics == nil {
			metrics = &moduleMetrics{name: name}
			byName[name] = metrics
		}
		metrics.seconds = seconds

		modules = append(modules, metrics.summary())
	}

	if len(modules) == 0 {
		return nil, fmt.Errorf("%w: multi-module builds print '[INFO] Reactor Summary'; "+
			"single-module builds usually do not", ErrNoReactorSummaryModules)
	}

	return modules, nil
}

// matchModuleLine extracts the module name and duration from a Reactor
// Summary row.
func matchModuleLine(line string) (string, float64, bool) {
	var name string
	var seconds float64

	if m := moduleLinePattern.FindStringSubmatch(line); m != nil {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return "", 0, false
		}
		name, seconds = m[1], v
	} else if m := moduleClockPattern.FindStringSubmatch(line); m != nil {
		name, seconds = m[1], clockSeconds(m[2], m[3], "", m[4])
	} else {
		return "", 0, false
	}

	if m := dottedNamePattern.FindStringSubmatch(line); m != nil {
		name = m[1]
	}
	return strings.TrimSpace(name), seconds, true
}
