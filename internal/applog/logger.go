// Package applog provides a small key/value file logger. The CLI prints its
// own summaries to the terminal, so diagnostic logging goes to a file that
// is only opened when --log is given.
package applog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes timestamped key/value lines. The zero value is disabled.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// Log is the process-wide logger.
var Log = &Logger{}

// Init points the global logger at a file, appending to it. An empty path
// disables logging.
func Init(path string) error {
	if path == "" {
		Log.SetOutput(nil)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	Log.mu.Lock()
	if Log.closer != nil {
		Log.closer.Close()
	}
	Log.w, Log.closer = f, f
	Log.mu.Unlock()
	Log.Info("logger initialized", "path", path)
	return nil
}

// New returns a logger writing to w. A nil writer disables it.
func New(w io.Writer) *Logger {
	return &Logger{w: w}
}

// SetOutput redirects the logger. A nil writer disables it.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer != nil {
		l.closer.Close()
		l.closer = nil
	}
	l.w = w
}

// Close closes the log file, if one is open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w = nil
	if l.closer != nil {
		err := l.closer.Close()
		l.closer = nil
		return err
	}
	return nil
}

// Enabled reports whether log lines are written anywhere.
func (l *Logger) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w != nil
}

// Writer returns the underlying writer, or io.Discard when disabled.
func (l *Logger) Writer() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return io.Discard
	}
	return l.w
}

func (l *Logger) log(level, msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", time.Now().Format("15:04:05.000"), level, msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	b.WriteByte('\n')
	io.WriteString(l.w, b.String())
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) { l.log("DEBUG", msg, keyvals...) }

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keyvals ...any) { l.log("INFO", msg, keyvals...) }

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) { l.log("WARN", msg, keyvals...) }

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, keyvals ...any) { l.log("ERROR", msg, keyvals...) }

// Timed logs the duration of an operation. Usage:
//
//	defer applog.Log.Timed("render", "scenario", name)()
func (l *Logger) Timed(operation string, keyvals ...any) func() {
	if !l.Enabled() {
		return func() {}
	}
	start := time.Now()
	l.Debug(operation, append([]any{"status", "started"}, keyvals...)...)
	return func() {
		l.Debug(operation, append([]any{"status", "completed", "duration", time.Since(start)}, keyvals...)...)
	}
}
