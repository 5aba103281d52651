package capture

import (
	"fmt"
	"os"
	"time"
)

// LogSink is the text log receiving the console output of the external
// capture commands of one run. Every entry is synced to disk as soon as it
// is written, so an interrupted run leaves a readable log of what was tried.
type LogSink struct {
	f    *os.File
	path string
	run  string
}

// OpenLog creates or truncates the log at path. Run is written on every
// marker line to tell runs apart in retained logs.
func OpenLog(path, run string) (*LogSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening capture log: %w", err)
	}
	return &LogSink{f: f, path: path, run: run}, nil
}

// Path returns the path of the log file.
func (l *LogSink) Path() string {
	return l.path
}

// Begin writes the marker preceding the output of a capture of what.
func (l *LogSink) Begin(what, out string) error {
	return l.Printf("--- begin capture %s -> %s.jpg [run %s] %s\n", what, out, l.run, time.Now().Format(time.RFC3339))
}

// End writes the marker following the output of a capture of what, with
// the error of the command if it failed.
func (l *LogSink) End(what string, err error) error {
	status := "ok"
	if err != nil {
		status = err.Error()
	}
	return l.Printf("--- end capture %s: %s [run %s]\n", what, status, l.run)
}

// Printf appends a line to the log.
func (l *LogSink) Printf(format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(l.f, format, args...); err != nil {
		return fmt.Errorf("writing capture log: %w", err)
	}
	return l.Sync()
}

// Sync flushes the log to disk.
func (l *LogSink) Sync() error {
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("syncing capture log: %w", err)
	}
	return nil
}

// Close closes the log file.
func (l *LogSink) Close() error {
	return l.f.Close()
}
