package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/mvnlens/pkg/parser"
	"github.com/ccollicutt/mvnlens/pkg/runner"
)

// RunOptions holds command-line options for the run command.
type RunOptions struct {
	LogDir          string
	NoPluginTimings bool
	Webhooks        WebhookFlags
}

// NewRunCommand creates the run command.
func NewRunCommand(g *GlobalOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [project-dir] [-- maven-args...]",
		Short: "Run mvn clean install and analyze the captured log",
		Long: `Run "clean install" for a Maven project and analyze the captured log.

The Maven wrapper (mvnw) is used when the project has one, otherwise mvn
from PATH. Arguments after -- are passed to Maven. Parallel builds
(-T/--threads) are rejected because interleaved output breaks per-module
attribution.

Build output is streamed to stderr and captured at
<project-dir>/.mvnlens/logs/clean-install-YYYYMMDD-HHMMSS.log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.LogDir, "log-dir", "", "Directory for captured logs (default: <project-dir>/.mvnlens/logs)")
	cmd.Flags().BoolVar(&opts.NoPluginTimings, "no-plugin-timings", false, "Skip the heuristic plugin timing section")
	opts.Webhooks.register(cmd)

	return cmd
}

// splitRunArgs separates the project directory from Maven arguments.
func splitRunArgs(args []string, dash int) (string, []string, error) {
	projectArgs, mavenArgs := args, []string(nil)
	if dash >= 0 {
		projectArgs, mavenArgs = args[:dash], args[dash:]
	}

	switch len(projectArgs) {
	case 0:
		return ".", mavenArgs, nil
	case 1:
		return projectArgs[0], mavenArgs, nil
	default:
		return "", nil, fmt.Errorf("expected at most one project directory, got %d (pass Maven arguments after --)", len(projectArgs))
	}
}

func runRun(cmd *cobra.Command, args []string, g *GlobalOptions, opts *RunOptions) error {
	ctx := commandContext(cmd)
	logger := g.logger()

	projectDir, mavenArgs, err := splitRunArgs(args, cmd.ArgsLenAtDash())
	if err != nil {
		return err
	}

	cfg, cfgPath, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}

	formatter, err := g.formatter(cfg)
	if err != nil {
		return err
	}

	logDir := opts.LogDir
	if logDir == "" {
		logDir = cfg.Runner.LogDir
	}

	runOpts := runner.Options{
		ProjectDir: projectDir,
		ExtraArgs:  mavenArgs,
		LogDir:     logDir,
	}
	if !g.Quiet {
		runOpts.Stdout = cmd.ErrOrStderr()
	}

	name, mvnArgs := runner.MavenCommand(projectDir, mavenArgs)
	logger.WithFields(logrus.Fields{
		"command": name + " " + strings.Join(mvnArgs, " "),
		"dir":     projectDir,
	}).Info("Running Maven build")

	result, err := runner.Run(ctx, runOpts)
	if err != nil {
		var buildErr *runner.BuildError
		if errors.As(err, &buildErr) {
			logger.WithField("log", buildErr.LogPath).Error("Maven build failed")
		}
		return fmt.Errorf("running build: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"log":      result.LogPath,
		"duration": result.Duration.Round(time.Millisecond),
	}).Info("Build finished, analyzing captured log")

	lines, err := parser.ReadLines(ctx, result.LogPath)
	if err != nil {
		return err
	}

	report, err := buildReport(result.LogPath, lines, cfg, !opts.NoPluginTimings, cfgPath)
	if err != nil {
		return err
	}

	return emitBuildReport(cmd, g, cfg, formatter, report, &opts.Webhooks)
}
