package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/versus/internal/testevents"
)

// Default configuration constants.
const (
	defaultSessions         = 100
	defaultEventsPerSession = 30
	defaultWorkers          = 2 // multiplier for runtime.NumCPU()
	defaultTimeout          = 30 * time.Second
	defaultTestTimeout      = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		sessions   = flag.Int("sessions", defaultSessions, "Number of sessions to drive")
		events     = flag.Int("events", defaultEventsPerSession, "Events fired into each session")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle     = flag.Duration("settle", testevents.DefaultSettle, "Wait before reading the final view of a session")
		seed       = flag.Uint64("seed", 0, "Random seed, 0 picks one")
		outputFile = flag.String("output", "", "Write per-session event logs as JSON to this file")
		logFile    = flag.String("log", "", "Log file for test output (default: session_test_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testevents.ShowHelp()
		return
	}

	if err := testevents.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &testevents.Config{
		BaseURL:          *baseURL,
		Sessions:         *sessions,
		EventsPerSession: *events,
		Workers:          *workers,
		Timeout:          *timeout,
		Settle:           *settle,
		Seed:             *seed,
		OutputFile:       *outputFile,
		LogFile:          *logFile,
		Verbose:          *verbose,
	}

	if _, err := testevents.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
