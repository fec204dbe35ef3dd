package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is the minimum severity a line must carry to be written
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// ParseLevel maps a configuration string to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Options controls where log lines go and which severities are kept
type Options struct {
	Enabled bool
	Level   Level
	Path    string // empty writes to stderr
}

// Logger writes timestamped leveled lines. Calls below the configured level
// are no-ops, so debug logging can stay in hot paths.
type Logger struct {
	std     *log.Logger
	level   Level
	enabled bool
	file    *os.File
}

// New creates a Logger from options. A disabled logger discards everything.
func New(opts Options) (*Logger, error) {
	if !opts.Enabled {
		return Discard(), nil
	}
	var w io.Writer = os.Stderr
	var f *os.File
	if opts.Path != "" {
		var err error
		f, err = os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", opts.Path, err)
		}
		w = f
	}
	return &Logger{
		std:     log.New(w, "", log.LstdFlags),
		level:   opts.Level,
		enabled: true,
		file:    f,
	}, nil
}

// Discard returns a logger that drops every line. Useful in tests.
func Discard() *Logger {
	return &Logger{std: log.New(io.Discard, "", 0)}
}

// Debugf logs a debug-level line
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.printf(LevelDebug, "DEBUG", format, args...)
}

// Infof logs an info-level line
func (l *Logger) Infof(format string, args ...interface{}) {
	l.printf(LevelInfo, "INFO", format, args...)
}

// Errorf logs an error-level line
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.printf(LevelError, "ERROR", format, args...)
}

func (l *Logger) printf(lv Level, tag string, format string, args ...interface{}) {
	if !l.enabled || lv < l.level {
		return
	}
	l.std.Printf("%s %s", tag, fmt.Sprintf(format, args...))
}

// Close releases the log file when one is open
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
