package parser

import (
	"regexp"
	"strings"
)

// [INFO] --- compiler:3.13.0:compile (default-compile) @ core ---
// [INFO] --- maven-surefire-plugin:2.22.2:test (default-test) @ core ---
var pluginHeaderPattern = regexp.MustCompile(`\[INFO\] ---\s+([^: ]+):([^:]+):([^\s(]+).*@\s*(\S+)\s*---`)

// PluginStep identifies one plugin goal execution announced in the log.
type PluginStep struct {
	Plugin  string
	Version string
	Goal    string
	Module  string
}

// Key returns the plugin:goal identity used for grouping steps.
func (s PluginStep) Key() string {
	return s.Plugin + ":" + s.Goal
}

// MatchPluginHeader recognizes the dashed header Maven prints before each
// plugin goal execution.
func MatchPluginHeader(line string) (PluginStep, bool) {
	m := pluginHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		return PluginStep{}, false
	}

	return PluginStep{
		Plugin:  m[1],
		Version: m[2],
		Goal:    m[3],
		Module:  strings.TrimSpace(m[4]),
	}, true
}
