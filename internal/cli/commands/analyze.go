package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/mvnlens/pkg/config"
	"github.com/ccollicutt/mvnlens/pkg/detector"
	"github.com/ccollicutt/mvnlens/pkg/health"
	"github.com/ccollicutt/mvnlens/pkg/output"
	"github.com/ccollicutt/mvnlens/pkg/parser"
	"github.com/ccollicutt/mvnlens/pkg/plugintime"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	NoPluginTimings bool
	Webhooks        WebhookFlags
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(g *GlobalOptions) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <log-file>",
		Short: "Analyze a single Maven build log",
		Long: `Analyze a Maven build log and report where the build time went.

Reports:
  - Total time, module time and non-module overhead
  - Modules by time and the slowest module
  - Test and compilation workload per module
  - Health hints (slow build, hotspots, failing or slow tests)
  - Heuristic plugin timings (line-count based estimates)

Logs from parallel builds (-T) are reported in a degraded mode without
per-module attribution.

Exit codes:
  0 - No hint at or above fail_on
  1 - A hint reached fail_on (default: critical)
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], g, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoPluginTimings, "no-plugin-timings", false, "Skip the heuristic plugin timing section")
	opts.Webhooks.register(cmd)

	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, g *GlobalOptions, opts *AnalyzeOptions) error {
	ctx := commandContext(cmd)

	cfg, cfgPath, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}

	formatter, err := g.formatter(cfg)
	if err != nil {
		return err
	}

	lines, err := parser.ReadLines(ctx, path)
	if err != nil {
		return err
	}

	report, err := buildReport(path, lines, cfg, !opts.NoPluginTimings, cfgPath)
	if err != nil {
		return err
	}

	return emitBuildReport(cmd, g, cfg, formatter, report, &opts.Webhooks)
}

// buildReport runs the single-build pipeline over the lines of one log.
func buildReport(source string, lines []string, cfg *config.Config, pluginTimings bool, configFile string) (*output.BuildReport, error) {
	summary, err := parser.Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	report := &output.BuildReport{
		Source:   source,
		Summary:  summary,
		Parallel: detector.DetectParallel(lines),
		Hints:    []health.Hint{},
		Metadata: output.NewMetadata(Version, configFile),
	}

	// Module times overlap in parallel builds, so only build-wide hints apply.
	if report.Degraded() {
		report.Hints = health.EvaluateParallel(summary)
		return report, nil
	}

	report.Hints = health.EvaluateWith(summary, cfg.Health.Thresholds())
	if pluginTimings && cfg.PluginTimings {
		report.SetPluginTimings(plugintime.AnalyzeSummary(lines, summary))
	}

	return report, nil
}

// emitBuildReport writes the report, sends webhooks and sets the exit code.
func emitBuildReport(cmd *cobra.Command, g *GlobalOptions, cfg *config.Config, formatter output.Formatter, report *output.BuildReport, flags *WebhookFlags) error {
	ctx := commandContext(cmd)
	logger := g.logger()

	if report.Degraded() {
		logger.WithFields(logrus.Fields{
			"builder": report.Parallel.Builder,
			"line":    report.Parallel.LineNum,
		}).Warn("Parallel build detected, per-module attribution is disabled")
	}

	if err := formatter.FormatBuild(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	sendWebhooks(ctx, logger, collectWebhooks(cfg, flags), report, report.HasIssues())

	ExitCode = exitCodeFor(cfg, report)
	return nil
}

// exitCodeFor maps the highest hint severity to an exit code using fail_on.
func exitCodeFor(cfg *config.Config, report *output.BuildReport) int {
	threshold, enabled := cfg.FailOnSeverity()
	if !enabled {
		return ExitOK
	}

	if sev, ok := report.MaxSeverity(); ok && sev >= threshold {
		return ExitIssues
	}
	return ExitOK
}
