package chunker

import (
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is used for every flush.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is used for start and shutdown of the background goroutine.
	LogLevelInfo
	// LogLevelWarn is used for oversized items and teardown with items pending.
	LogLevelWarn
	// LogLevelError is used for writer and sizer failures.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger receives log messages from a Chunker. Messages are formatted with
// fmt.Sprintf semantics. If no Logger is set, nothing is logged.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// NoOpLogger discards all log messages. It is the default Logger.
type NoOpLogger struct{}

// Debug implements the Logger interface.
func (NoOpLogger) Debug(format string, args ...interface{}) {}

// Info implements the Logger interface.
func (NoOpLogger) Info(format string, args ...interface{}) {}

// Warn implements the Logger interface.
func (NoOpLogger) Warn(format string, args ...interface{}) {}

// Error implements the Logger interface.
func (NoOpLogger) Error(format string, args ...interface{}) {}

// SimpleLogger writes Debug and Info messages to stdout and Warn and Error
// messages to stderr, each prefixed with its level.
type SimpleLogger struct {
	// MinLevel is the minimum log level to output.
	MinLevel LogLevel

	// StdoutLogger handles Debug and Info level messages.
	StdoutLogger *log.Logger

	// StderrLogger handles Warn and Error level messages.
	StderrLogger *log.Logger
}

// NewSimpleLogger creates a SimpleLogger using the standard log flags.
func NewSimpleLogger(minLevel LogLevel) *SimpleLogger {
	return &SimpleLogger{
		MinLevel:     minLevel,
		StdoutLogger: log.New(os.Stdout, "", log.LstdFlags),
		StderrLogger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (s *SimpleLogger) log(level LogLevel, format string, args ...interface{}) {
	if level < s.MinLevel {
		return
	}

	out := s.StdoutLogger
	if level >= LogLevelWarn {
		out = s.StderrLogger
	}
	out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

// Debug implements the Logger interface.
func (s *SimpleLogger) Debug(format string, args ...interface{}) {
	s.log(LogLevelDebug, format, args...)
}

// Info implements the Logger interface.
func (s *SimpleLogger) Info(format string, args ...interface{}) {
	s.log(LogLevelInfo, format, args...)
}

// Warn implements the Logger interface.
func (s *SimpleLogger) Warn(format string, args ...interface{}) {
	s.log(LogLevelWarn, format, args...)
}

// Error implements the Logger interface.
func (s *SimpleLogger) Error(format string, args ...interface{}) {
	s.log(LogLevelError, format, args...)
}

// LogrLogger routes Chunker logs to a logr.Logger. Debug messages are logged at
// verbosity 1, Info and Warn at verbosity 0, and Error through logr's Error
// with a nil error since the message already carries it.
type LogrLogger struct {
	log logr.Logger
}

// NewLogrLogger wraps l.
func NewLogrLogger(l logr.Logger) *LogrLogger {
	return &LogrLogger{log: l}
}

// Debug implements the Logger interface.
func (l *LogrLogger) Debug(format string, args ...interface{}) {
	l.log.V(1).Info(fmt.Sprintf(format, args...))
}

// Info implements the Logger interface.
func (l *LogrLogger) Info(format string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(format, args...))
}

// Warn implements the Logger interface.
func (l *LogrLogger) Warn(format string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(format, args...), "level", "warn")
}

// Error implements the Logger interface.
func (l *LogrLogger) Error(format string, args ...interface{}) {
	l.log.Error(nil, fmt.Sprintf(format, args...))
}
