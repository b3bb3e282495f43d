package commands

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/mvnlens/pkg/aggregate"
	"github.com/ccollicutt/mvnlens/pkg/output"
	"github.com/ccollicutt/mvnlens/pkg/parser"
)

// ErrNoLogFiles is returned when a selector matches no log files.
var ErrNoLogFiles = errors.New("no log files found")

// AggregateOptions holds command-line options for the aggregate command.
type AggregateOptions struct {
	Dir      string
	Pattern  string
	Jobs     int
	Webhooks WebhookFlags
}

// NewAggregateCommand creates the aggregate command.
func NewAggregateCommand(g *GlobalOptions) *cobra.Command {
	opts := &AggregateOptions{}

	cmd := &cobra.Command{
		Use:   "aggregate [log-files...]",
		Short: "Aggregate statistics across many build logs",
		Long: `Aggregate statistics across many Maven build logs.

Select logs with exactly one of:
  --dir DIR        every *.log file directly under DIR
  --pattern GLOB   every file matching GLOB
  log-files...     the given files

Logs that cannot be parsed are skipped with a warning and listed in the
report. At least one log must parse.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Directory of *.log files")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "Glob pattern selecting log files")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 0, "Logs parsed concurrently (default: number of CPUs)")
	opts.Webhooks.register(cmd)

	return cmd
}

func runAggregate(cmd *cobra.Command, args []string, g *GlobalOptions, opts *AggregateOptions) error {
	ctx := commandContext(cmd)

	cfg, cfgPath, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}

	formatter, err := g.formatter(cfg)
	if err != nil {
		return err
	}

	mode, files, err := selectLogs(args, opts.Dir, opts.Pattern)
	if err != nil {
		return err
	}

	report, err := aggregateLogs(ctx, g.logger(), mode, files, opts.Jobs)
	if err != nil {
		return err
	}
	report.Metadata = output.NewMetadata(Version, cfgPath)

	if err := formatter.FormatAggregate(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	sendWebhooks(ctx, g.logger(), collectWebhooks(cfg, &opts.Webhooks), report, report.HasIssues())

	ExitCode = ExitOK
	return nil
}

// selectLogs resolves exactly one selector into a sorted list of files.
func selectLogs(files []string, dir, pattern string) (output.Mode, []string, error) {
	selectors := 0
	for _, set := range []bool{len(files) > 0, dir != "", pattern != ""} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		return "", nil, fmt.Errorf("specify exactly one of --dir, --pattern or log files")
	}

	switch {
	case dir != "":
		matched, err := parser.ListLogFiles(dir)
		if err != nil {
			return "", nil, err
		}
		if len(matched) == 0 {
			return "", nil, fmt.Errorf("%w in directory %s", ErrNoLogFiles, dir)
		}
		return output.ModeDirectory, matched, nil

	case pattern != "":
		matched, err := parser.MatchPattern(pattern)
		if err != nil {
			return "", nil, err
		}
		if len(matched) == 0 {
			return "", nil, fmt.Errorf("%w matching pattern %s", ErrNoLogFiles, pattern)
		}
		return output.ModePattern, matched, nil

	default:
		expanded, err := parser.ExpandGlobs(files)
		if err != nil {
			return "", nil, err
		}
		return output.ModeFiles, expanded, nil
	}
}

// aggregateLogs parses files concurrently and aggregates those that parse.
// Results keep the order of files.
func aggregateLogs(ctx context.Context, logger *logrus.Logger, mode output.Mode, files []string, jobs int) (*output.AggregateReport, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	summaries := make([]*parser.BuildSummary, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			summary, err := parser.ParseFile(gctx, file)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				return nil
			}
			summaries[i] = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &output.AggregateReport{Mode: mode}
	var builds []*parser.BuildSummary
	for i, file := range files {
		if failures[i] != nil {
			logger.WithError(failures[i]).WithField("file", file).Warn("Skipping log")
			report.Skipped = append(report.Skipped, output.SkippedLog{Path: file, Reason: failures[i].Error()})
			continue
		}
		builds = append(builds, summaries[i])
		report.LogFiles = append(report.LogFiles, file)
	}

	summary, err := aggregate.Aggregate(builds)
	if err != nil {
		return nil, fmt.Errorf("no valid build logs among %d file(s): %w", len(files), err)
	}
	report.Summary = summary

	logger.WithFields(logrus.Fields{
		"builds":  summary.BuildCount,
		"skipped": len(report.Skipped),
	}).Debug("Aggregated build logs")

	return report, nil
}
