// Package logger writes structured logs to a file. The terminal belongs to
// the TUI, so nothing is ever logged to stdout or stderr.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// DefaultLogPath is used when Init is given an empty path.
const DefaultLogPath = "/tmp/chatprofile-debug.log"

var (
	mu       sync.Mutex
	base     *slog.Logger
	levelVar = new(slog.LevelVar)
	logFile  *os.File
	logPath  string
)

// Init opens the log file at path and installs the handler. Calling Init
// again with the logger open is a no-op.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return nil
	}
	if path == "" {
		path = DefaultLogPath
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFile = f
	logPath = path
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	base.Info("Logger initialized", "path", path)
	return nil
}

// SetDebug switches between debug and info level.
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Path returns the current log file path, or "" before Init.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Component returns a logger with the component attribute pre-attached.
// Before Init it returns a logger that discards everything.
//
//	log := logger.Component("collector")
//	log.Debug("count fetched", "category", c, "count", n)
func Component(name string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if base == nil {
		return Discard()
	}
	return base.With(slog.String("component", name))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Close closes the log file. Loggers handed out earlier keep working but
// their writes fail silently.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	base = nil
	logPath = ""
}
