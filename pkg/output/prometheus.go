package output

import (
	"context"
	"fmt"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/ccollicutt/mvnlens/pkg/health"
)

const metricPrefix = "mvnlens_"

// PrometheusFormatter renders reports in the Prometheus text exposition
// format, e.g. for the node_exporter textfile collector.
type PrometheusFormatter struct {
	opts FormatOptions
}

// NewPrometheusFormatter creates a new Prometheus formatter.
func NewPrometheusFormatter(opts FormatOptions) *PrometheusFormatter {
	return &PrometheusFormatter{opts: opts}
}

// Name returns the format name.
func (f *PrometheusFormatter) Name() string {
	return "prometheus"
}

// FormatBuild writes single-build gauges.
func (f *PrometheusFormatter) FormatBuild(_ context.Context, report *BuildReport, w io.Writer) error {
	s := report.Summary

	parallel := 0.0
	if report.Degraded() {
		parallel = 1
	}

	families := []*dto.MetricFamily{
		gauge("build_total_seconds", "Wall clock time of the build.", sample(s.TotalSeconds)),
		gauge("build_modules_total_seconds", "Sum of module durations.", sample(s.ModulesTotalSeconds())),
		gauge("build_parallel", "1 if the log came from a parallel build.", sample(parallel)),
	}

	var seconds, testsRun, failures []*dto.Metric
	for _, m := range s.Modules {
		seconds = append(seconds, sample(m.Seconds, "module", m.Name))
		testsRun = append(testsRun, sample(float64(m.TestsRun), "module", m.Name))
		failures = append(failures, sample(float64(m.Failures+m.Errors), "module", m.Name))
	}
	families = append(families,
		gauge("module_seconds", "Module duration from the Reactor Summary.", seconds...),
		gauge("module_tests_run", "Tests run in the module.", testsRun...),
		gauge("module_test_failures", "Test failures and errors in the module.", failures...),
	)

	counts := map[health.Severity]int{}
	for _, h := range report.Hints {
		counts[h.Severity]++
	}
	var hints []*dto.Metric
	for _, sev := range []health.Severity{health.SeverityInfo, health.SeverityWarn, health.SeverityCritical} {
		hints = append(hints, sample(float64(counts[sev]), "severity", sev.String()))
	}
	families = append(families, gauge("health_hints", "Health hints by severity.", hints...))

	return writeFamilies(w, families)
}

// FormatAggregate writes cross-build gauges.
func (f *PrometheusFormatter) FormatAggregate(_ context.Context, report *AggregateReport, w io.Writer) error {
	s := report.Summary

	families := []*dto.MetricFamily{
		gauge("builds_analyzed", "Number of builds aggregated.", sample(float64(s.BuildCount))),
		gauge("logs_skipped", "Number of logs that could not be parsed.", sample(float64(len(report.Skipped)))),
		gauge("build_total_seconds_avg", "Average wall clock time of the builds.", sample(s.AverageTotalSeconds)),
		gauge("build_total_seconds_min", "Minimum wall clock time of the builds.", sample(s.MinTotalSeconds)),
		gauge("build_total_seconds_max", "Maximum wall clock time of the builds.", sample(s.MaxTotalSeconds)),
	}

	var avg, lowest, highest, testAvg []*dto.Metric
	for _, m := range s.Modules {
		avg = append(avg, sample(m.AverageSeconds, "module", m.Name))
		lowest = append(lowest, sample(m.MinSeconds, "module", m.Name))
		highest = append(highest, sample(m.MaxSeconds, "module", m.Name))
		testAvg = append(testAvg, sample(m.AverageTestSeconds, "module", m.Name))
	}
	families = append(families,
		gauge("module_seconds_avg", "Average module duration.", avg...),
		gauge("module_seconds_min", "Minimum module duration.", lowest...),
		gauge("module_seconds_max", "Maximum module duration.", highest...),
		gauge("module_test_seconds_avg", "Average module test time.", testAvg...),
	)

	return writeFamilies(w, families)
}

func writeFamilies(w io.Writer, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if len(mf.GetMetric()) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func gauge(name, help string, metrics ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(metricPrefix + name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: metrics,
	}
}

// sample builds a gauge sample from a value and label name/value pairs.
func sample(value float64, labels ...string) *dto.Metric {
	m := &dto.Metric{Gauge: &dto.Gauge{Value: proto.Float64(value)}}
	for i := 0; i+1 < len(labels); i += 2 {
		m.Label = append(m.Label, &dto.LabelPair{
			Name:  proto.String(labels[i]),
			Value: proto.String(labels[i+1]),
		})
	}
	return m
}
