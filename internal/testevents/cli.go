package testevents

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/versus/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "session_test_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the session test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Versus Session Test Tool
========================

Drives concurrent comparison sessions against a running versus service and
checks every returned view: ordering by the active priority, default A/B
picks, result counts and summary availability.

Usage:
  go run cmd/test-events/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -sessions int
        Number of sessions to drive (default 100)
  -events int
        Events fired into each session (default 30)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -settle duration
        Wait before reading the final view of a session (default 500ms)
  -seed uint
        Random seed, 0 picks one (default 0)
  -output string
        Write per-session event logs as JSON to this file
  -log string
        Log file for test output (default: session_test_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-events/main.go

  # Replay a run
  go run cmd/test-events/main.go -seed 42 -sessions 10 -output run.json

  # Heavier load against another host
  go run cmd/test-events/main.go -sessions 2000 -workers 32 -url http://localhost:8080
`)
}
