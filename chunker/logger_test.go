package chunker_test

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"

	"github.com/MasterOfBinary/gochunk/chunker"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    chunker.LogLevel
		expected string
	}{
		{chunker.LogLevelDebug, "DEBUG"},
		{chunker.LogLevelInfo, "INFO"},
		{chunker.LogLevelWarn, "WARN"},
		{chunker.LogLevelError, "ERROR"},
		{chunker.LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNoOpLogger(t *testing.T) {
	var logger chunker.Logger = chunker.NoOpLogger{}

	// These should not panic
	logger.Debug("debug %d", 1)
	logger.Info("info %s", "test")
	logger.Warn("warn %v", true)
	logger.Error("error %f", 3.14)
}

func TestSimpleLogger(t *testing.T) {
	tests := []struct {
		name        string
		minLevel    chunker.LogLevel
		logFunc     func(logger chunker.Logger)
		stdout      []string
		stderr      []string
		notContains []string
	}{
		{
			name:     "debug level allows all",
			minLevel: chunker.LogLevelDebug,
			logFunc: func(logger chunker.Logger) {
				logger.Debug("debug message")
				logger.Info("info message")
				logger.Warn("warn message")
				logger.Error("error message")
			},
			stdout: []string{"[DEBUG] debug message", "[INFO] info message"},
			stderr: []string{"[WARN] warn message", "[ERROR] error message"},
		},
		{
			name:     "warn level filters debug and info",
			minLevel: chunker.LogLevelWarn,
			logFunc: func(logger chunker.Logger) {
				logger.Debug("debug")
				logger.Info("info")
				logger.Warn("warn message")
			},
			stderr:      []string{"[WARN] warn message"},
			notContains: []string{"[DEBUG]", "[INFO]"},
		},
		{
			name:     "formatting works",
			minLevel: chunker.LogLevelInfo,
			logFunc: func(logger chunker.Logger) {
				logger.Info("batch %d: %d item(s)", 3, 42)
			},
			stdout: []string{"[INFO] batch 3: 42 item(s)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			logger := &chunker.SimpleLogger{
				MinLevel:     tt.minLevel,
				StdoutLogger: log.New(&stdout, "", 0),
				StderrLogger: log.New(&stderr, "", 0),
			}

			tt.logFunc(logger)

			for _, want := range tt.stdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q\nGot: %s", want, stdout.String())
				}
			}
			for _, want := range tt.stderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr missing %q\nGot: %s", want, stderr.String())
				}
			}
			output := stdout.String() + stderr.String()
			for _, notWant := range tt.notContains {
				if strings.Contains(output, notWant) {
					t.Errorf("output contains unexpected string %q\nGot: %s", notWant, output)
				}
			}
		})
	}
}

func TestLogrLogger(t *testing.T) {
	var lines []string
	sink := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	logger := chunker.NewLogrLogger(sink)
	logger.Debug("debug %d", 1)
	logger.Info("info %s", "x")
	logger.Warn("warn")
	logger.Error("error %v", "boom")

	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %v", len(lines), lines)
	}
	checks := []string{`"msg"="debug 1"`, `"msg"="info x"`, `"level"="warn"`, `"msg"="error boom"`}
	for i, want := range checks {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d: expected %s in %s", i, want, lines[i])
		}
	}
}

func TestChunker_Logging(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := &chunker.SimpleLogger{
		MinLevel:     chunker.LogLevelDebug,
		StdoutLogger: log.New(&stdout, "", 0),
		StderrLogger: log.New(&stderr, "", 0),
	}

	w := &recordingWriter{}
	c, err := chunker.New(context.Background(), chunker.Limits{CountLimit: 2, SizeLimit: 10}, sizeOf, w.Write,
		chunker.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range records(1, 1, 20) {
		if err := c.Enqueue(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.OnIdle(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Chunker started", "reason count", "reason final", "Chunker idle: 3 item(s) in 2 batch(es)"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout missing %q\nGot: %s", want, stdout.String())
		}
	}
	if !strings.Contains(stderr.String(), "exceeds size limit") {
		t.Errorf("expected oversized warning, got: %s", stderr.String())
	}
}
