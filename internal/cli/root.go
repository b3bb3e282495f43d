// Package cli provides the command-line interface for mvnlens.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/mvnlens/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return commands.ExitFailure // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	g := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "mvnlens",
		Short: "Find out where your Maven build time goes",
		Long: `mvnlens analyzes Maven build logs and reports where the time went.

It can:
  - Break a single build down by module, tests and compilation
  - Flag slow builds, hotspot modules and failing or slow tests
  - Estimate time per plugin goal (heuristic)
  - Aggregate statistics across many builds
  - Run "mvn clean install" and analyze the captured log
  - Watch a log directory and re-aggregate as builds land

Configuration is read from --config, or .mvnlens.yaml in the working
directory when present. MVNLENS_OUTPUT, MVNLENS_FAIL_ON and MVNLENS_LOG_DIR
override the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			g.Logger = commands.NewLogger(cmd.ErrOrStderr(), g.Verbose, g.Quiet)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.ConfigPath, "config", "", "Config file (default: .mvnlens.yaml if present)")
	flags.StringVarP(&g.Output, "output", "o", "", "Output format (text|json|prometheus)")
	flags.BoolVarP(&g.Verbose, "verbose", "v", false, "Verbose output and debug logging")
	flags.BoolVarP(&g.Quiet, "quiet", "q", false, "Summary only, warnings and errors only")
	flags.BoolVar(&g.Pretty, "pretty", false, "Indent JSON output")
	flags.BoolVar(&g.NoColor, "no-color", false, "Disable colored severity labels")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(commands.NewAnalyzeCommand(g))
	rootCmd.AddCommand(commands.NewAggregateCommand(g))
	rootCmd.AddCommand(commands.NewRunCommand(g))
	rootCmd.AddCommand(commands.NewWatchCommand(g))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
