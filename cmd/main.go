package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/versus/internal/adapters/http/api"
	"github.com/okian/versus/internal/adapters/http/site"
	"github.com/okian/versus/internal/adapters/http/swagger"
	app "github.com/okian/versus/internal/app"
	"github.com/okian/versus/internal/config"
	"github.com/okian/versus/pkg/logger"
	"github.com/okian/versus/pkg/metrics"
	"github.com/okian/versus/pkg/money"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants. WriteTimeout is zero because websocket
// connections are long-lived; handlers bound their own writes.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "versus exited with error", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, log logger.Logger) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	handler, err := newHandler(ctx, cfg, svc, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the comparison service from configuration.
func newService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	conv, err := money.New(
		money.WithExchangeRate(cfg.ExchangeRate),
		money.WithLocale(cfg.CurrencyLocale),
		money.WithCurrency(cfg.CurrencyCode),
		money.WithMonthlyPaymentFactor(cfg.MonthlyPaymentFactor),
	)
	if err != nil {
		return nil, fmt.Errorf("money: %w", err)
	}
	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithCatalogPath(cfg.CatalogPath),
		app.WithMoney(conv),
		app.WithDebounce(cfg.SearchDebounce()),
		app.WithSessionTTL(cfg.SessionTTL()),
		app.WithMaxSessions(cfg.MaxSessions),
		app.WithInboxSize(cfg.InboxSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithEventRate(cfg.EventsPerSecond, cfg.EventsBurst),
	), nil
}

// newHandler registers every route and wraps the mux in the shared
// middleware.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) (http.Handler, error) {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc, log.Named("api"))
	apiServer.Register(ctx, mux)

	if err := site.Register(ctx, mux, svc); err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	return api.Chain(mux,
		api.OTel(cfg.OTelServiceName),
		api.Recover(log.Named("http")),
	), nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes the session and catalog gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats updates the gauges as a side effect.
			_ = svc.GetStats()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
