package config

import (
	"time"

	"github.com/ccollicutt/mvnlens/pkg/health"
)

// Default values for configuration.
const (
	DefaultConfigFile     = ".mvnlens.yaml"
	DefaultEnvFile        = ".env"
	DefaultOutput         = OutputText
	DefaultFailOn         = FailOnCritical
	DefaultWebhookTimeout = 10 * time.Second
)

// Output formats.
const (
	OutputText       = "text"
	OutputJSON       = "json"
	OutputPrometheus = "prometheus"
)

// FailOn levels.
const (
	FailOnNone     = "none"
	FailOnInfo     = "info"
	FailOnWarn     = "warn"
	FailOnCritical = "critical"
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// MVNLENS_OUTPUT, MVNLENS_FAIL_ON and MVNLENS_LOG_DIR.
const EnvPrefix = "MVNLENS"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	t := health.DefaultThresholds()

	return &Config{
		Output:        DefaultOutput,
		FailOn:        DefaultFailOn,
		PluginTimings: true,
		Health: HealthConfig{
			TotalTimeWarn:           t.TotalTimeWarn,
			TotalTimeInfo:           t.TotalTimeInfo,
			OverheadWarn:            t.OverheadWarn,
			OverheadInfo:            t.OverheadInfo,
			HotModuleWarn:           t.HotModuleWarn,
			HotModuleInfo:           t.HotModuleInfo,
			TestRatioWarn:           t.TestRatioWarn,
			TestRatioInfo:           t.TestRatioInfo,
			UntestedMainSourcesWarn: t.UntestedMainSourcesWarn,
			UntestedMainSourcesInfo: t.UntestedMainSourcesInfo,
		},
	}
}
