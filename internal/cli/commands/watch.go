package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/mvnlens/pkg/output"
	"github.com/ccollicutt/mvnlens/pkg/parser"
)

// DefaultDebounce is how long watch waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions holds command-line options for the watch command.
type WatchOptions struct {
	Dir      string
	Debounce time.Duration
	Jobs     int
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(g *GlobalOptions) *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-aggregate a log directory whenever a log changes",
		Long: `Watch a directory of Maven build logs and print a fresh aggregate report
whenever a *.log file is created, written, removed or renamed. Runs until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Directory of *.log files (required)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", DefaultDebounce, "Quiet period before re-aggregating")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 0, "Logs parsed concurrently (default: number of CPUs)")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}

func runWatch(cmd *cobra.Command, g *GlobalOptions, opts *WatchOptions) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := g.logger()

	cfg, cfgPath, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}

	formatter, err := g.formatter(cfg)
	if err != nil {
		return err
	}

	if _, err := parser.ListLogFiles(opts.Dir); err != nil {
		return err
	}

	render := func() {
		files, err := parser.ListLogFiles(opts.Dir)
		if err != nil {
			logger.WithError(err).Warn("Listing logs failed")
			return
		}
		if len(files) == 0 {
			logger.WithField("dir", opts.Dir).Info("No logs yet")
			return
		}

		report, err := aggregateLogs(ctx, logger, output.ModeDirectory, files, opts.Jobs)
		if err != nil {
			logger.WithError(err).Warn("Aggregation failed")
			return
		}
		report.Metadata = output.NewMetadata(Version, cfgPath)

		if err := formatter.FormatAggregate(ctx, report, cmd.OutOrStdout()); err != nil {
			logger.WithError(err).Warn("Formatting failed")
		}
	}

	render()
	logger.WithField("dir", opts.Dir).Info("Watching for build logs")

	return watchDir(ctx, opts.Dir, opts.Debounce, logger, render)
}

// watchDir calls onChange once changes to *.log files in dir have been quiet
// for debounce. It runs until ctx is cancelled.
func watchDir(ctx context.Context, dir string, debounce time.Duration, logger *logrus.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isLogEvent(event) {
				continue
			}
			logger.WithFields(logrus.Fields{
				"file": filepath.Base(event.Name),
				"op":   event.Op.String(),
			}).Debug("Log changed")
			timer.Reset(debounce)

		case <-timer.C:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("Watcher error")
		}
	}
}

// logOps are the operations that change the set or content of the logs.
const logOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

func isLogEvent(event fsnotify.Event) bool {
	if event.Op&logOps == 0 {
		return false
	}
	return strings.HasSuffix(event.Name, parser.LogExtension)
}
