// Package runner executes `clean install` for a Maven project and captures
// the build log for analysis.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// DefaultLogDir is where logs are written, relative to the project directory.
const DefaultLogDir = ".mvnlens/logs"

const logTimeLayout = "20060102-150405"

var (
	// ErrParallelArgs is returned when the Maven arguments request a
	// parallel build.
	ErrParallelArgs = errors.New("parallel builds (-T/--threads) are not supported")

	// ErrProjectNotFound is returned when the project directory is missing.
	ErrProjectNotFound = errors.New("project directory not found")

	// ErrNoPOM is returned when the project directory has no pom.xml.
	ErrNoPOM = errors.New("no pom.xml in project directory")
)

// BuildError reports a Maven process that exited non-zero. The log is kept.
type BuildError struct {
	ExitCode int
	LogPath  string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("maven exited with code %d (log: %s)", e.ExitCode, e.LogPath)
}

// Options configures a build run.
type Options struct {
	// ProjectDir is the Maven project root. Defaults to the working directory.
	ProjectDir string

	// ExtraArgs are appended after `clean install`.
	ExtraArgs []string

	// LogDir overrides the log directory. Relative paths are resolved
	// against ProjectDir.
	LogDir string

	// Stdout receives the build output as it is produced. Nil discards it.
	Stdout io.Writer

	// Now is used to name the log file. Defaults to time.Now.
	Now func() time.Time
}

// Result describes a completed build.
type Result struct {
	LogPath  string
	Duration time.Duration
}

// CheckParallelArgs rejects Maven arguments that enable a parallel build.
func CheckParallelArgs(args []string) error {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-T") || arg == "--threads" || strings.HasPrefix(arg, "--threads=") {
			return fmt.Errorf("%w: %s", ErrParallelArgs, arg)
		}
	}
	return nil
}

// MavenCommand returns the executable and arguments for `clean install`,
// preferring the project's Maven wrapper over mvn on PATH.
func MavenCommand(projectDir string, extraArgs []string) (string, []string) {
	wrapper, mvn := "mvnw", "mvn"
	if runtime.GOOS == "windows" {
		wrapper, mvn = "mvnw.cmd", "mvn.cmd"
	}

	name := mvn
	if isFile(filepath.Join(projectDir, wrapper)) {
		name = filepath.Join(projectDir, wrapper)
	}

	args := append([]string{"clean", "install"}, extraArgs...)
	return name, args
}

// LogPath returns the log file path for a build started at t.
func LogPath(projectDir, logDir string, t time.Time) string {
	if logDir == "" {
		logDir = DefaultLogDir
	}
	if !filepath.IsAbs(logDir) {
		logDir = filepath.Join(projectDir, logDir)
	}
	return filepath.Join(logDir, "clean-install-"+t.Format(logTimeLayout)+".log")
}

// Run executes the build, streaming combined output to opts.Stdout and the
// log file. Cancelling ctx kills the Maven process.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := CheckParallelArgs(opts.ExtraArgs); err != nil {
		return nil, err
	}

	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	info, err := os.Stat(projectDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectDir)
	}
	if !isFile(filepath.Join(projectDir, "pom.xml")) {
		return nil, fmt.Errorf("%w: %s", ErrNoPOM, projectDir)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logPath := LogPath(projectDir, opts.LogDir, now())
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	logFile, err := os.Create(logPath) // #nosec G304 -- path built from project dir
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	var out io.Writer = logFile
	if opts.Stdout != nil {
		out = io.MultiWriter(opts.Stdout, logFile)
	}

	name, args := MavenCommand(projectDir, opts.ExtraArgs)
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- maven invocation
	cmd.Dir = projectDir
	cmd.Stdout = out
	cmd.Stderr = out

	start := time.Now()
	err = cmd.Run()
	result := &Result{LogPath: logPath, Duration: time.Since(start)}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("build cancelled: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, &BuildError{ExitCode: exitErr.ExitCode(), LogPath: logPath}
		}
		return result, fmt.Errorf("running %s: %w", name, err)
	}

	return result, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
