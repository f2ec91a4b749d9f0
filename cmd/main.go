package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/ratingscope/internal/adapters/http/api"
	"github.com/okian/ratingscope/internal/adapters/http/swagger"
	"github.com/okian/ratingscope/internal/adapters/mq/queue"
	"github.com/okian/ratingscope/internal/adapters/mq/worker"
	app "github.com/okian/ratingscope/internal/app"
	"github.com/okian/ratingscope/internal/config"
	"github.com/okian/ratingscope/pkg/logger"
	"github.com/okian/ratingscope/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 15 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
	)

	svc := app.NewFromConfig(cfg, log.Named("service"))

	go startServiceMetricsUpdater(ctx, svc)

	warmQueue := queue.NewInMemoryQueue(queue.WithCapacity(cfg.WarmQueueCapacity))
	pool := worker.NewPool(cfg.WarmWorkers, warmQueue, svc, log.Named("warm"),
		worker.WithJobTimeout(2*cfg.FetchTimeout()))
	pool.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, warmQueue, log.Named("http")),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "warm-up pool shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newMux registers the docs and the business API.
func newMux(ctx context.Context, svc *app.Service, warmer api.Warmer, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, log, api.WithWarmer(warmer)).Register(ctx, mux)
	return mux
}

// startServiceMetricsUpdater keeps the cache gauge current between lookups,
// since stale entries only leave the cache when touched.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *app.Service) {
	if n, ok := svc.GetStats()["cacheEntries"].(int64); ok {
		metrics.UpdateCacheEntries(n)
	}
}
