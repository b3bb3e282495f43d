// Package output provides report types and formatters for build analysis
// results.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/mvnlens/pkg/aggregate"
	"github.com/ccollicutt/mvnlens/pkg/detector"
	"github.com/ccollicutt/mvnlens/pkg/health"
	"github.com/ccollicutt/mvnlens/pkg/parser"
	"github.com/ccollicutt/mvnlens/pkg/plugintime"
)

// Metadata provides context about the analysis run.
type Metadata struct {
	// ReportID uniquely identifies the report, e.g. for webhook receivers
	// that deduplicate deliveries.
	ReportID string `json:"report_id"`

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`

	// Version is the mvnlens version that produced the report.
	Version string `json:"version"`

	// ConfigFile is the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`
}

// NewMetadata returns metadata with a fresh report ID and the current time.
func NewMetadata(version, configFile string) Metadata {
	return Metadata{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Version:     version,
		ConfigFile:  configFile,
	}
}

// BuildReport is the analysis of a single build log.
type BuildReport struct {
	// Source is the analyzed log file.
	Source string `json:"source"`

	Summary *parser.BuildSummary `json:"summary"`

	// Parallel is set when the log came from a parallel build. Such logs
	// carry only build-wide hints and no plugin timings.
	Parallel detector.Result `json:"parallel"`

	Hints []health.Hint `json:"hints"`

	// PluginTimings are heuristic estimates keyed by module.
	PluginTimings map[string][]plugintime.Timing `json:"plugin_timings,omitempty"`

	// PluginTimingsNote marks PluginTimings as an estimate. It is set
	// whenever PluginTimings is non-empty.
	PluginTimingsNote string `json:"plugin_timings_note,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// SetPluginTimings stores timings along with the note that marks them as
// estimates.
func (r *BuildReport) SetPluginTimings(timings map[string][]plugintime.Timing) {
	r.PluginTimings = timings
	r.PluginTimingsNote = ""
	if len(timings) > 0 {
		r.PluginTimingsNote = plugintime.Disclaimer
	}
}

// Degraded reports whether per-module attribution was disabled.
func (r *BuildReport) Degraded() bool {
	return r.Parallel.Parallel
}

// MaxSeverity returns the highest hint severity.
func (r *BuildReport) MaxSeverity() (health.Severity, bool) {
	return health.MaxSeverity(r.Hints)
}

// HasIssues returns true if any hint is WARN or above.
func (r *BuildReport) HasIssues() bool {
	sev, ok := r.MaxSeverity()
	return ok && sev >= health.SeverityWarn
}

// Mode records how the logs of an aggregate report were selected.
type Mode string

const (
	ModeDirectory Mode = "directory"
	ModePattern   Mode = "pattern"
	ModeFiles     Mode = "files"
)

// SkippedLog is a log excluded from aggregation.
type SkippedLog struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// AggregateReport is the analysis of many build logs.
type AggregateReport struct {
	Mode Mode `json:"mode"`

	// LogFiles are the logs that contributed to Summary.
	LogFiles []string `json:"log_files"`

	Skipped []SkippedLog `json:"skipped,omitempty"`

	Summary *aggregate.Summary `json:"summary"`

	Metadata Metadata `json:"metadata"`
}

// HasIssues returns true if any log had to be skipped.
func (r *AggregateReport) HasIssues() bool {
	return len(r.Skipped) > 0
}
