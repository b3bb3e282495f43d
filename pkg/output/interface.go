package output

import (
	"context"
	"fmt"
	"io"
)

// Formatter renders analysis reports in a specific format.
type Formatter interface {
	// FormatBuild renders a single-build report to the given writer.
	FormatBuild(ctx context.Context, report *BuildReport, w io.Writer) error

	// FormatAggregate renders a multi-build report to the given writer.
	FormatAggregate(ctx context.Context, report *AggregateReport, w io.Writer) error

	// Name returns the format name (text, json, prometheus).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose enables detailed output such as report metadata.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool

	// Pretty indents JSON output.
	Pretty bool

	// NoColor disables severity styling in text output.
	NoColor bool
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text", "":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	case "prometheus":
		return NewPrometheusFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (must be text, json, or prometheus)", name)
	}
}
