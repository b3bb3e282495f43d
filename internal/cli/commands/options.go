package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/mvnlens/pkg/config"
	"github.com/ccollicutt/mvnlens/pkg/output"
	"github.com/ccollicutt/mvnlens/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Exit codes.
const (
	ExitOK      = 0
	ExitIssues  = 1
	ExitFailure = 2
)

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Output     string
	Verbose    bool
	Quiet      bool
	Pretty     bool
	NoColor    bool

	// Logger receives diagnostics. It is created by the root command
	// before any subcommand runs.
	Logger *logrus.Logger
}

// NewLogger returns a logger writing to w. Verbose enables debug messages and
// quiet limits output to warnings and errors.
func NewLogger(w io.Writer, verbose, quiet bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	switch {
	case verbose:
		logger.SetLevel(logrus.DebugLevel)
	case quiet:
		logger.SetLevel(logrus.WarnLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

func (g *GlobalOptions) logger() *logrus.Logger {
	if g.Logger == nil {
		g.Logger = NewLogger(os.Stderr, g.Verbose, g.Quiet)
	}
	return g.Logger
}

// loadConfig loads --config, or .mvnlens.yaml when present, or the defaults.
func (g *GlobalOptions) loadConfig(ctx context.Context) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(ctx, g.ConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	if path != "" {
		g.logger().WithField("path", path).Debug("Loaded configuration")
	}
	return cfg, path, nil
}

// formatter returns the formatter selected by --output, falling back to the
// configured output.
func (g *GlobalOptions) formatter(cfg *config.Config) (output.Formatter, error) {
	name := cfg.Output
	if g.Output != "" {
		name = g.Output
	}

	return output.NewFormatter(name, output.FormatOptions{
		Verbose: g.Verbose,
		Quiet:   g.Quiet,
		Pretty:  g.Pretty || cfg.Pretty,
		NoColor: g.NoColor,
	})
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// WebhookFlags are the per-command webhook overrides.
type WebhookFlags struct {
	URL     string
	Token   string
	Trigger string
}

func (f *WebhookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.URL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&f.Token, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&f.Trigger, "webhook-trigger", string(config.WebhookTriggerOnIssues),
		"When to fire webhook (on_issues|always|never)")
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, flags *WebhookFlags) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if flags != nil && flags.URL != "" {
		trigger := config.WebhookTrigger(flags.Trigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     flags.URL,
			Token:   flags.Token,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// sendWebhooks posts a report to every webhook whose trigger matches.
// Failures are logged but don't fail the command.
func sendWebhooks(ctx context.Context, logger *logrus.Logger, webhooks []config.WebhookConfig, report any, hasIssues bool) {
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient(webhook.WithUserAgent("mvnlens/" + Version))

	for _, wh := range webhooks {
		if !webhook.ShouldSend(wh.Trigger, hasIssues) {
			logger.WithField("webhook", wh.DisplayName()).Debug("Webhook skipped by trigger")
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		entry := logger.WithField("webhook", wh.DisplayName())
		if resp.Success() {
			entry.WithFields(logrus.Fields{
				"status":   resp.StatusCode,
				"duration": resp.Duration,
			}).Info("Webhook sent")
		} else {
			entry.WithError(resp.Error).Warn("Webhook failed")
		}
	}
}
