// Package detector recognizes Maven logs written by parallel builds.
//
// Parallel builds interleave the output of several modules, so module
// attribution by "current module" and plugin block boundaries no longer hold.
// Callers use the result to fall back to a degraded report.
package detector

import (
	"context"
	"strconv"
	"strings"

	"github.com/ccollicutt/mvnlens/pkg/parser"
)

// Result describes the parallel build evidence found in a log.
type Result struct {
	Parallel bool   `json:"parallel"`
	Builder  string `json:"builder,omitempty"`
	Threads  int    `json:"threads,omitempty"` // 0 when the log does not say
	Evidence string `json:"evidence,omitempty"`
	LineNum  int    `json:"line_num,omitempty"` // 1-based
}

// Detector scans logs for parallel builder markers.
type Detector struct {
	markers []*Marker
}

// Option configures the Detector.
type Option func(*Detector)

// WithMarkers replaces the markers to look for.
func WithMarkers(markers ...*Marker) Option {
	return func(d *Detector) {
		if len(markers) > 0 {
			d.markers = markers
		}
	}
}

// New creates a new Detector with default markers.
func New(opts ...Option) *Detector {
	d := &Detector{
		markers: DefaultMarkers(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile reads a log file and scans it.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (Result, error) {
	lines, err := parser.ReadLines(ctx, path)
	if err != nil {
		return Result{}, err
	}
	return d.Detect(lines), nil
}

// Detect returns the first marker found in lines.
func (d *Detector) Detect(lines []string) Result {
	for i, line := range lines {
		for _, marker := range d.markers {
			m := marker.Pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			result := Result{
				Parallel: true,
				Builder:  marker.Builder,
				Evidence: strings.TrimSpace(line),
				LineNum:  i + 1,
			}
			if marker.Threads > 0 && marker.Threads < len(m) && m[marker.Threads] != "" {
				if n, err := strconv.Atoi(m[marker.Threads]); err == nil {
					result.Threads = n
				}
			}
			return result
		}
	}
	return Result{}
}

// DetectParallel scans lines with the default markers.
func DetectParallel(lines []string) Result {
	return New().Detect(lines)
}
