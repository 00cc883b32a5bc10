// Package logging is the leveled logger every reactor continuation and
// room handler calls through — the reactor goroutine is the only writer,
// so a room handler logging mid-relay never contends with anything else.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger wraps stdlib log with level support
type Logger struct {
	logger *log.Logger
	level  LogLevel
	mu     sync.Mutex
}

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// LogLevel represents the available log levels. There is no LevelWarn:
// nothing in this server's call sites distinguishes a warning from an
// info-level event or an outright error, so the three levels actually
// reached from a continuation are all this type carries.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelError
)

// Config holds logging configuration
type Config struct {
	Level  LogLevel
	Output io.Writer
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// NewLogger creates a new logger
func NewLogger(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		logger: log.New(output, "", log.LstdFlags),
		level:  config.Level,
	}
}

// Default returns the process-wide logger, creating it on first use.
// Server and its room Handlers use this instance unless a Config.Logger
// override is supplied to Server; internal/ring's New always logs here.
func Default() *Logger {
	mu.RLock()
	if defaultLogger != nil {
		defer mu.RUnlock()
		return defaultLogger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(nil)
	}
	return defaultLogger
}

// formatArgs converts key-value pairs to a string
func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	var result string
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			if result != "" {
				result += " "
			}
			result += fmt.Sprintf("%v=%v", args[i], args[i+1])
		}
	}
	if result != "" {
		return " " + result
	}
	return ""
}

func (l *Logger) log(level LogLevel, prefix, msg string, args ...any) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Printf("%s %s%s", prefix, msg, formatArgs(args))
}

// Debug logs a key-value event — the shape internal/ring uses to record
// ring setup ("creating minimal io_uring ring", "entries", n).
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, "[DEBUG]", msg, args...)
}

// Info logs a key-value event at info level, the other half of the same
// ring-setup call shape Debug serves.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, "[INFO]", msg, args...)
}

// Debugf is the printf-style counterpart to Debug.
func (l *Logger) Debugf(format string, args ...any) {
	l.log(LevelDebug, "[DEBUG]", fmt.Sprintf(format, args...))
}

// Infof is the call shape internal/room's Handlers use for every lifecycle
// line ("room %s created, creator fd=%d", ...).
func (l *Logger) Infof(format string, args ...any) {
	l.log(LevelInfo, "[INFO]", fmt.Sprintf(format, args...))
}

// Errorf is the call shape Server uses for accept/re-arm failures and
// cmd/sticks-server uses for a fatal ListenAndServe error.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(LevelError, "[ERROR]", fmt.Sprintf(format, args...))
}

// Printf satisfies interfaces.Logger's printf-style seam by logging at
// info level; nothing in this server calls it directly today, but the
// interface requires it for callers that only hold an interfaces.Logger.
func (l *Logger) Printf(format string, args ...any) {
	l.Infof(format, args...)
}
