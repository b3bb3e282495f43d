package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/mvnlens/pkg/health"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(cfg)
}

// LoadOrDefault loads path when set, else DefaultConfigFile when it exists in
// the working directory, else the defaults. The returned string is the file
// that was used, empty for defaults.
func LoadOrDefault(ctx context.Context, path string) (*Config, string, error) {
	if path != "" {
		cfg, err := Load(ctx, path)
		return cfg, path, err
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		cfg, err := Load(ctx, DefaultConfigFile)
		return cfg, DefaultConfigFile, err
	}

	cfg, err := finish(DefaultConfig())
	return cfg, "", err
}

func finish(cfg *Config) (*Config, error) {
	if err := loadEnvFile(DefaultEnvFile); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadEnvFile loads variables from a dotenv file if it exists. Variables
// already set in the environment win.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies MVNLENS_* environment variables.
func (c *Config) applyEnvironmentOverrides() {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	for _, key := range []string{"output", "fail_on", "log_dir"} {
		_ = v.BindEnv(key)
	}

	if output := v.GetString("output"); output != "" {
		c.Output = output
	}
	if failOn := v.GetString("fail_on"); failOn != "" {
		c.FailOn = failOn
	}
	if logDir := v.GetString("log_dir"); logDir != "" {
		c.Runner.LogDir = logDir
	}
}

// Validate checks a configuration for errors and fills in webhook defaults.
func Validate(cfg *Config) error {
	switch cfg.Output {
	case OutputText, OutputJSON, OutputPrometheus:
	default:
		return fmt.Errorf("output: invalid format %q (must be text, json, or prometheus)", cfg.Output)
	}

	if _, _, err := ParseFailOn(cfg.FailOn); err != nil {
		return fmt.Errorf("fail_on: %w", err)
	}

	if err := validateHealth(&cfg.Health); err != nil {
		return fmt.Errorf("health: %w", err)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			return fmt.Errorf("webhooks[%d] (%s): %w", i, cfg.Webhooks[i].DisplayName(), err)
		}
	}

	return nil
}

// ParseFailOn converts a fail_on value to a severity. enabled is false for
// "none".
func ParseFailOn(s string) (sev health.Severity, enabled bool, err error) {
	if strings.EqualFold(strings.TrimSpace(s), FailOnNone) {
		return 0, false, nil
	}
	sev, err = health.ParseSeverity(s)
	if err != nil {
		return 0, false, fmt.Errorf("invalid value %q (must be none, info, warn, or critical)", s)
	}
	return sev, true, nil
}

// FailOnSeverity returns the severity that fails an analysis.
func (c *Config) FailOnSeverity() (health.Severity, bool) {
	sev, enabled, err := ParseFailOn(c.FailOn)
	if err != nil {
		return 0, false
	}
	return sev, enabled
}

func validateHealth(h *HealthConfig) error {
	if h.TotalTimeInfo <= 0 {
		return errors.New("total_time_info must be positive")
	}
	if h.TotalTimeInfo >= h.TotalTimeWarn {
		return fmt.Errorf("total_time_info (%s) must be less than total_time_warn (%s)",
			h.TotalTimeInfo, h.TotalTimeWarn)
	}

	ratios := []struct {
		name       string
		info, warn float64
	}{
		{"overhead", h.OverheadInfo, h.OverheadWarn},
		{"hot_module", h.HotModuleInfo, h.HotModuleWarn},
		{"test_ratio", h.TestRatioInfo, h.TestRatioWarn},
	}
	for _, r := range ratios {
		if r.info <= 0 || r.warn > 1 {
			return fmt.Errorf("%s thresholds must be within (0, 1]", r.name)
		}
		if r.info >= r.warn {
			return fmt.Errorf("%s_info (%.2f) must be less than %s_warn (%.2f)", r.name, r.info, r.name, r.warn)
		}
	}

	if h.UntestedMainSourcesInfo <= 0 {
		return errors.New("untested_main_sources_info must be positive")
	}
	if h.UntestedMainSourcesInfo >= h.UntestedMainSourcesWarn {
		return fmt.Errorf("untested_main_sources_info (%d) must be less than untested_main_sources_warn (%d)",
			h.UntestedMainSourcesInfo, h.UntestedMainSourcesWarn)
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnIssues
	case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return os.ExpandEnv(s)
}
