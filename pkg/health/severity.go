package health

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity ranks health hints. Values are ordered: Info < Warn < Critical.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityInfo:     "INFO",
	SeverityWarn:     "WARN",
	SeverityCritical: "CRITICAL",
}

// String returns the upper-case severity name.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// ParseSeverity parses a severity name, ignoring case. "warning" is accepted
// as an alias for WARN.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return SeverityInfo, nil
	case "WARN", "WARNING":
		return SeverityWarn, nil
	case "CRITICAL":
		return SeverityCritical, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (valid: info, warn, critical)", s)
	}
}

// MarshalJSON encodes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MaxSeverity returns the highest severity among hints. ok is false when
// hints is empty.
func MaxSeverity(hints []Hint) (highest Severity, ok bool) {
	for i, h := range hints {
		if i == 0 || h.Severity > highest {
			highest = h.Severity
		}
		ok = true
	}
	return highest, ok
}
