// Package config provides configuration loading and validation for mvnlens.
package config

import (
	"time"

	"github.com/ccollicutt/mvnlens/pkg/health"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Output selects the report format: text, json or prometheus.
	Output string `yaml:"output"`

	// Pretty indents JSON output.
	Pretty bool `yaml:"pretty"`

	// FailOn is the lowest hint severity that makes a single-build analysis
	// exit with code 1. "none" disables it.
	FailOn string `yaml:"fail_on"`

	// PluginTimings enables the heuristic plugin timing section.
	PluginTimings bool `yaml:"plugin_timings"`

	Health   HealthConfig    `yaml:"health"`
	Runner   RunnerConfig    `yaml:"runner"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// HealthConfig overrides the health rule thresholds.
type HealthConfig struct {
	TotalTimeWarn time.Duration `yaml:"total_time_warn"`
	TotalTimeInfo time.Duration `yaml:"total_time_info"`

	OverheadWarn float64 `yaml:"overhead_warn"`
	OverheadInfo float64 `yaml:"overhead_info"`

	HotModuleWarn float64 `yaml:"hot_module_warn"`
	HotModuleInfo float64 `yaml:"hot_module_info"`

	TestRatioWarn float64 `yaml:"test_ratio_warn"`
	TestRatioInfo float64 `yaml:"test_ratio_info"`

	UntestedMainSourcesWarn int `yaml:"untested_main_sources_warn"`
	UntestedMainSourcesInfo int `yaml:"untested_main_sources_info"`
}

// Thresholds converts the configuration to health rule thresholds.
func (h HealthConfig) Thresholds() health.Thresholds {
	return health.Thresholds{
		TotalTimeWarn:           h.TotalTimeWarn,
		TotalTimeInfo:           h.TotalTimeInfo,
		OverheadWarn:            h.OverheadWarn,
		OverheadInfo:            h.OverheadInfo,
		HotModuleWarn:           h.HotModuleWarn,
		HotModuleInfo:           h.HotModuleInfo,
		TestRatioWarn:           h.TestRatioWarn,
		TestRatioInfo:           h.TestRatioInfo,
		UntestedMainSourcesWarn: h.UntestedMainSourcesWarn,
		UntestedMainSourcesInfo: h.UntestedMainSourcesInfo,
	}
}

// RunnerConfig configures the run command.
type RunnerConfig struct {
	// LogDir overrides where captured build logs are written. Empty means
	// <project>/.mvnlens/logs.
	LogDir string `yaml:"log_dir,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires when the report has a WARN or CRITICAL
	// hint, or skipped logs (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DisplayName returns the webhook name, or its URL when unnamed.
func (w *WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}
