// Package logger provides verbose logging for the crp-aide CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr so users can follow the sampling and diagnostic
// pipeline (particle progress, weight normalization, prefix evaluation).
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf prints one prefixed line if verbose mode is enabled. All leveled
// helpers funnel through here so the read lock is taken exactly once per
// message.
func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}

// Section prints a header for a pipeline phase (sampling, estimation,
// diagnostic) if verbose mode is enabled.
func Section(name string) {
	logf("", "\n=== %s ===", name)
}

// Timing reports the elapsed wall time of a pipeline phase started at
// start, at debug level.
func Timing(phase string, start time.Time) {
	Debug("%s took %s", phase, time.Since(start).Round(time.Millisecond))
}
