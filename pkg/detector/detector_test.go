package detector

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestDetectParallel(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		wantPar     bool
		wantBuilder string
		wantThreads int
		wantLine    int
	}{
		{
			name: "multi threaded builder",
			lines: []string{
				"[INFO] Scanning for projects...",
				"[INFO] ",
				"[INFO] Using the MultiThreadedBuilder implementation with a thread count of 4",
			},
			wantPar:     true,
			wantBuilder: "MultiThreadedBuilder",
			wantThreads: 4,
			wantLine:    3,
		},
		{
			name: "smart builder",
			lines: []string{
				"[INFO] Using the SmartBuilder implementation with a thread count of 8",
			},
			wantPar:     true,
			wantBuilder: "SmartBuilder",
			wantThreads: 8,
			wantLine:    1,
		},
		{
			name: "marker without thread count",
			lines: []string{
				"[DEBUG] org.apache.maven.lifecycle.internal.builder.multithreaded.MultiThreadedBuilder",
			},
			wantPar:     true,
			wantBuilder: "MultiThreadedBuilder",
			wantLine:    1,
		},
		{
			name: "serial build",
			lines: []string{
				"[INFO] Building core 1.0-SNAPSHOT                                         [2/4]",
				"[INFO] --- compiler:3.13.0:compile (default-compile) @ core ---",
				"[INFO] BUILD SUCCESS",
			},
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectParallel(tt.lines)
			if got.Parallel != tt.wantPar {
				t.Fatalf("Parallel = %v, want %v", got.Parallel, tt.wantPar)
			}
			if got.Builder != tt.wantBuilder {
				t.Errorf("Builder = %q, want %q", got.Builder, tt.wantBuilder)
			}
			if got.Threads != tt.wantThreads {
				t.Errorf("Threads = %d, want %d", got.Threads, tt.wantThreads)
			}
			if got.LineNum != tt.wantLine {
				t.Errorf("LineNum = %d, want %d", got.LineNum, tt.wantLine)
			}
			if tt.wantPar && got.Evidence == "" {
				t.Error("Evidence should be set")
			}
		})
	}
}

func TestDetector_WithMarkers(t *testing.T) {
	custom := &Marker{
		Builder: "custom",
		Pattern: regexp.MustCompile(`\[T(\d+)\]`),
		Threads: 1,
	}

	d := New(WithMarkers(custom))
	got := d.Detect([]string{
		"[INFO] Using the MultiThreadedBuilder implementation with a thread count of 4",
		"[T3] [INFO] Building core",
	})

	if got.Builder != "custom" || got.Threads != 3 || got.LineNum != 2 {
		t.Errorf("Detect() = %+v, want custom builder with 3 threads on line 2", got)
	}
}

func TestDefaultMarkers_Examples(t *testing.T) {
	for _, m := range DefaultMarkers() {
		for _, example := range m.Examples {
			got := New(WithMarkers(m)).Detect([]string{example})
			if !got.Parallel || got.Builder != m.Builder {
				t.Errorf("marker %s did not match its example %q", m.Builder, example)
			}
		}
	}
}

func TestDetector_DetectFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parallel.log")
	content := "[INFO] Scanning for projects...\n" +
		"[INFO] Using the MultiThreadedBuilder implementation with a thread count of 2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := New().DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile() error = %v", err)
	}
	if !got.Parallel || got.Threads != 2 {
		t.Errorf("DetectFromFile() = %+v, want parallel with 2 threads", got)
	}

	if _, err := New().DetectFromFile(context.Background(), filepath.Join(dir, "missing.log")); err == nil {
		t.Error("DetectFromFile() expected error for missing file")
	}
}
