// Package logging writes launcher output to the terminal and, optionally, a
// log file that receives a copy of every line.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	verbose atomic.Bool

	mu     sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	file   *os.File
)

// SetVerbose enables or disables debug logging for the current process.
func SetVerbose(enabled bool) {
	verbose.Store(enabled)
}

// Verbose reports whether debug logging is enabled.
func Verbose() bool {
	return verbose.Load()
}

// SetOutput replaces the terminal writer for info and debug lines. Nil
// restores os.Stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	mu.Lock()
	stdout = w
	mu.Unlock()
}

// SetErrorOutput replaces the terminal writer for warnings. Nil restores
// os.Stderr.
func SetErrorOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	mu.Lock()
	stderr = w
	mu.Unlock()
}

// SetOutputFile appends all output to path as well as the terminal. An empty
// path closes any open log file. Each opened file gets a session header.
func SetOutputFile(path string) error {
	path = strings.TrimSpace(path)

	mu.Lock()
	defer mu.Unlock()

	if file != nil && path != "" && file.Name() == path {
		return nil
	}
	if err := closeFileLocked(); err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	fmt.Fprintf(f, "=== neosplus-launcher %s ===\n", time.Now().Format(time.RFC3339))
	file = f
	return nil
}

// Close closes the log file if one is open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeFileLocked()
}

func closeFileLocked() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func writeLocked(term io.Writer, s string) {
	io.WriteString(term, s)
	if file != nil {
		io.WriteString(file, s)
	}
}

// Infof prints a formatted line regardless of verbosity.
func Infof(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	writeLocked(stdout, fmt.Sprintf(format, args...))
}

// Infoln prints its operands followed by a newline regardless of verbosity.
func Infoln(args ...any) {
	mu.Lock()
	defer mu.Unlock()
	writeLocked(stdout, fmt.Sprintln(args...))
}

// Warnf prints a "Warning: " prefixed line on the error stream.
func Warnf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	writeLocked(stderr, "Warning: "+fmt.Sprintf(format, args...))
}

// Debugf prints only when verbose logging is enabled.
func Debugf(format string, args ...any) {
	if !verbose.Load() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	writeLocked(stdout, fmt.Sprintf(format, args...))
}
