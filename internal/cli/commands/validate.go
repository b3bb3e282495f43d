package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/mvnlens/pkg/config"
	"github.com/ccollicutt/mvnlens/pkg/health"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an mvnlens configuration file without running analysis.

Checks:
  - YAML syntax
  - Output format and fail_on level
  - Health thresholds (info below warn, ratios within (0,1])
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	h := cfg.Health
	_, _ = fmt.Fprintf(out, "\nConfiguration valid!\n")
	_, _ = fmt.Fprintf(out, "  Output:         %s\n", cfg.Output)
	_, _ = fmt.Fprintf(out, "  Fail on:        %s\n", cfg.FailOn)
	_, _ = fmt.Fprintf(out, "  Plugin timings: %t\n", cfg.PluginTimings)

	_, _ = fmt.Fprintf(out, "\nHealth thresholds (info / warn):\n")
	_, _ = fmt.Fprintf(out, "  %-22s %s / %s\n", health.RuleTotalTime, h.TotalTimeInfo, h.TotalTimeWarn)
	_, _ = fmt.Fprintf(out, "  %-22s %.2f / %.2f\n", health.RuleOverhead, h.OverheadInfo, h.OverheadWarn)
	_, _ = fmt.Fprintf(out, "  %-22s %.2f / %.2f\n", health.RuleHotModule, h.HotModuleInfo, h.HotModuleWarn)
	_, _ = fmt.Fprintf(out, "  %-22s %.2f / %.2f\n", health.RuleTestRatio, h.TestRatioInfo, h.TestRatioWarn)
	_, _ = fmt.Fprintf(out, "  %-22s %d / %d\n", health.RuleUntestedLargeModule, h.UntestedMainSourcesInfo, h.UntestedMainSourcesWarn)

	if cfg.Runner.LogDir != "" {
		_, _ = fmt.Fprintf(out, "\nRunner log directory: %s\n", cfg.Runner.LogDir)
	}

	_, _ = fmt.Fprintf(out, "\nWebhooks: %d\n", len(cfg.Webhooks))
	for i, wh := range cfg.Webhooks {
		_, _ = fmt.Fprintf(out, "  %d. %s [%s, timeout %s]\n", i+1, wh.DisplayName(), wh.Trigger, wh.Timeout)
	}

	return nil
}
