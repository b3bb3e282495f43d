package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LogExtension is the suffix used to discover build logs in a directory.
const LogExtension = ".log"

// ExpandGlobs expands a list of file paths and glob patterns into a deduplicated
// list of matching file paths. Patterns that don't match any files are returned as-is
// (the caller should handle file-not-found errors).
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			if !seen[pattern] {
				seen[pattern] = true
				result = append(result, pattern)
			}
			continue
		}

		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	sort.Strings(result)

	return result, nil
}

// MatchPattern returns the regular files matching a glob pattern, sorted.
// Unlike ExpandGlobs, a pattern without matches yields an empty list.
func MatchPattern(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var result []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		result = append(result, match)
	}

	sort.Strings(result)
	return result, nil
}

// ListLogFiles returns the regular *.log files directly under dir, sorted.
func ListLogFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("log directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("log directory %s: not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var result []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), LogExtension) {
			continue
		}
		result = append(result, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(result)
	return result, nil
}
