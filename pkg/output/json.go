package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// FormatBuild renders the report as JSON.
func (f *JSONFormatter) FormatBuild(_ context.Context, report *BuildReport, w io.Writer) error {
	if f.opts.Quiet {
		// Quiet mode: just summary
		return f.encoder(w).Encode(report.Summary)
	}
	return f.encoder(w).Encode(report)
}

// FormatAggregate renders the report as JSON.
func (f *JSONFormatter) FormatAggregate(_ context.Context, report *AggregateReport, w io.Writer) error {
	if f.opts.Quiet {
		return f.encoder(w).Encode(report.Summary)
	}
	return f.encoder(w).Encode(report)
}

func (f *JSONFormatter) encoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	if f.opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder
}
