package testevents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/okian/versus/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	outputPermission    = 0600
)

// ErrViolations is returned when any view broke an invariant.
var ErrViolations = errors.New("invariant violations found")

// Run executes the complete session test and returns the collected stats.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Seed == 0 {
		config.Seed = rand.Uint64()
	}

	logger.Get().Info(ctx, "starting versus session test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("sessions", config.Sessions),
		logger.Int("eventsPerSession", config.EventsPerSession),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("settle", config.Settle.String()),
		logger.Any("seed", config.Seed),
		logger.Any("verbose", config.Verbose))

	client := NewHTTPClient(config.BaseURL, config.Timeout)

	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}
	logger.Get().Info(ctx, "service is healthy")

	catalog, err := loadCatalog(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("catalog retrieval failed: %w", err)
	}

	logs := driveSessions(ctx, config, client, catalog, stats)

	if config.OutputFile != "" {
		if err := saveLogs(ctx, config.OutputFile, logs); err != nil {
			logger.Get().Warn(ctx, "failed to save session logs", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	switch {
	case stats.Violations > 0:
		return stats, fmt.Errorf("%w: %d", ErrViolations, stats.Violations)
	case config.Sessions > 0 && stats.SessionsCreated == 0:
		return stats, errors.New("no session could be created")
	}
	logger.Get().Info(ctx, "test completed successfully")
	return stats, nil
}

func loadCatalog(ctx context.Context, client *HTTPClient) (Catalog, error) {
	facets, err := client.Facets(ctx)
	if err != nil {
		return Catalog{}, err
	}
	vehicles, err := client.Vehicles(ctx)
	if err != nil {
		return Catalog{}, err
	}
	c := Catalog{Facets: facets}
	for i := range vehicles {
		c.IDs = append(c.IDs, vehicles[i].ID)
		c.Names = append(c.Names, vehicles[i].Name)
	}
	logger.Get().Info(ctx, "catalog loaded", logger.Int("vehicles", len(c.IDs)))
	return c, nil
}

// driveSessions runs config.Sessions sessions on a worker pool.
func driveSessions(ctx context.Context, config *Config, client *HTTPClient, catalog Catalog, stats *Stats) []SessionLog {
	jobs := make(chan int, config.Workers*WorkerChannelMultiplier)
	logs := make([]SessionLog, config.Sessions)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			gen := NewGenerator(catalog, config.Seed+uint64(worker))
			for i := range jobs {
				log, local := driveSession(ctx, config, client, gen)
				logs[i] = log

				mu.Lock()
				stats.add(local)
				mu.Unlock()
			}
		}(w)
	}

	go func() {
		defer close(jobs)
		for i := 0; i < config.Sessions; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()
	return logs
}

// driveSession opens one session, fires events at it and checks every view
// it gets back.
func driveSession(ctx context.Context, config *Config, client *HTTPClient, gen *Generator) (SessionLog, Stats) {
	var (
		st  Stats
		log SessionLog
	)
	check := func(problems []string) {
		st.ViewsVerified++
		st.Violations += len(problems)
		log.Problems = append(log.Problems, problems...)
	}

	view, err := client.CreateSession(ctx)
	if err != nil {
		st.SessionsFailed++
		logger.Get().Warn(ctx, "failed to create session", logger.Error(err))
		return log, st
	}
	st.SessionsCreated++
	log.SessionID = view.SessionID
	check(VerifyView(&view))

	firstAccepted := -1
	for len(log.Events) < config.EventsPerSession && ctx.Err() == nil {
		for _, ev := range gen.Next() {
			if len(log.Events) == config.EventsPerSession {
				break
			}
			log.Events = append(log.Events, ev)
			st.EventsSubmitted++

			resp, err := client.Submit(ctx, view.SessionID, ev)
			switch {
			case errors.Is(err, ErrRateLimited):
				st.EventsRateLimited++
				continue
			case err != nil:
				st.EventsFailed++
				if config.Verbose {
					logger.Get().Warn(ctx, "event rejected", logger.String("kind", ev.Kind), logger.Error(err))
				}
				continue
			case resp.Duplicate:
				st.EventsDuplicate++
			default:
				st.EventsAccepted++
				if firstAccepted < 0 {
					firstAccepted = len(log.Events) - 1
				}
			}
			check(VerifyView(&resp.View))
		}
	}

	// Replaying an accepted event id must be acknowledged as a duplicate.
	if firstAccepted >= 0 {
		resp, err := client.Submit(ctx, view.SessionID, log.Events[firstAccepted])
		if err == nil {
			st.EventsSubmitted++
			if resp.Duplicate {
				st.EventsDuplicate++
			} else {
				check([]string{"replayed event " + log.Events[firstAccepted].EventID + " was not reported as duplicate"})
			}
		}
	}

	select {
	case <-ctx.Done():
	case <-time.After(config.Settle):
	}

	final, err := client.Session(ctx, view.SessionID)
	if err != nil {
		st.SessionsFailed++
		logger.Get().Warn(ctx, "failed to read session", logger.String("session", view.SessionID), logger.Error(err))
		return log, st
	}
	log.Final = &final
	check(VerifySettled(&final))

	if err := client.CloseSession(ctx, view.SessionID); err != nil {
		logger.Get().Warn(ctx, "failed to close session", logger.String("session", view.SessionID), logger.Error(err))
	}

	if len(log.Problems) > 0 {
		logger.Get().Error(ctx, "session broke invariants",
			logger.String("session", view.SessionID),
			logger.String("problems", strings.Join(log.Problems, "; ")))
	} else if config.Verbose {
		logger.Get().Info(ctx, "session verified",
			logger.String("session", view.SessionID),
			logger.Int("events", len(log.Events)),
			logger.Int("results", final.Count))
	}
	return log, st
}

// saveLogs writes the per-session event logs as a JSON array.
func saveLogs(ctx context.Context, filename string, logs []SessionLog) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session logs: %w", err)
	}
	if err := os.WriteFile(filename, data, outputPermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "session logs saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var acceptRate, eventsPerSecond float64

	if stats.EventsSubmitted > 0 {
		acceptRate = float64(stats.EventsAccepted) / float64(stats.EventsSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("sessionsCreated", stats.SessionsCreated),
		logger.Int("sessionsFailed", stats.SessionsFailed),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsAccepted", stats.EventsAccepted),
		logger.Int("eventsDuplicate", stats.EventsDuplicate),
		logger.Int("eventsRateLimited", stats.EventsRateLimited),
		logger.Int("eventsFailed", stats.EventsFailed),
		logger.Int("viewsVerified", stats.ViewsVerified),
		logger.Int("violations", stats.Violations),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
