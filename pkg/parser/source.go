package parser

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
)

// maxLineSize bounds a single log line; Maven can print very long classpath
// and stack trace lines.
const maxLineSize = 1024 * 1024

// ansiPattern matches SGR color sequences emitted by Maven with --color=always.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// ReadLines reads a log file into memory, one entry per line, with ANSI color
// sequences stripped.
func ReadLines(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		if len(lines)%1024 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		lines = append(lines, ansiPattern.ReplaceAllString(scanner.Text(), ""))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return lines, nil
}

// ParseFile reads and parses a single log file.
func ParseFile(ctx context.Context, path string) (*BuildSummary, error) {
	lines, err := ReadLines(ctx, path)
	if err != nil {
		return nil, err
	}

	summary, err := Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return summary, nil
}
