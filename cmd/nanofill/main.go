package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/abdoElHodaky/nanofill/internal/cache"
	"github.com/abdoElHodaky/nanofill/internal/config"
	"github.com/abdoElHodaky/nanofill/internal/events"
	"github.com/abdoElHodaky/nanofill/internal/httpapi"
	"github.com/abdoElHodaky/nanofill/internal/logging"
	"github.com/abdoElHodaky/nanofill/internal/metrics"
	"github.com/abdoElHodaky/nanofill/internal/mitigation"
	"github.com/abdoElHodaky/nanofill/internal/pipeline"
	"github.com/abdoElHodaky/nanofill/internal/report"
	"github.com/abdoElHodaky/nanofill/internal/resilience"
	"github.com/abdoElHodaky/nanofill/internal/workerpool"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "directory to search for config.yaml")
	csvPath    = flag.String("csv", "", "path to the LOBSTER-format message CSV to replay")
)

func main() {
	flag.Parse()
	if *csvPath == "" && flag.NArg() > 0 {
		*csvPath = flag.Arg(0)
	}
	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "usage: nanofill [-config <dir>] <message_file.csv>")
		os.Exit(2)
	}

	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			metrics.New,
			newSnapshotCache,
			newWorkerPool,
			resilience.NewPushgatewayBreaker,
			httpapi.New,
		),
		fx.Invoke(run),
	)

	app.Run()
}

func newConfig() (*config.Config, error) {
	return config.Load(*configPath)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging.Level, cfg.Logging.Development)
}

func newSnapshotCache(cfg *config.Config, logger *zap.Logger) *cache.SnapshotCache {
	ttl := time.Duration(cfg.Snapshot.TTLSeconds) * time.Second
	cleanup := ttl
	return cache.New(ttl, cleanup, logger)
}

func newWorkerPool(logger *zap.Logger) (*workerpool.Pool, error) {
	return workerpool.New(4, logger)
}

// run drives the whole replay: ingest the CSV, execute the pipeline,
// render the latency report, and optionally keep the introspection HTTP
// server alive until interrupted.
func run(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	logger *zap.Logger,
	reg *metrics.Registry,
	snap *cache.SnapshotCache,
	pool *workerpool.Pool,
	breaker *resilience.PushgatewayBreaker,
	server *httpapi.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := replay(cfg, logger, reg, snap, pool, breaker, server); err != nil {
					logger.Error("replay failed", zap.Error(err))
				}
				if !cfg.HTTP.Enabled {
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			pool.Release()
			if cfg.HTTP.Enabled {
				return server.Shutdown(ctx)
			}
			return nil
		},
	})
}

func replay(
	cfg *config.Config,
	logger *zap.Logger,
	reg *metrics.Registry,
	snap *cache.SnapshotCache,
	pool *workerpool.Pool,
	breaker *resilience.PushgatewayBreaker,
	server *httpapi.Server,
) error {
	seq, err := events.FromCSVFile(*csvPath, logger)
	if err != nil {
		return fmt.Errorf("ingest csv: %w", err)
	}
	logger.Info("loaded replay file", zap.Int("events", len(seq)), zap.String("path", *csvPath))

	var throttle *mitigation.ReplayThrottle
	if cfg.ReplayThrottle.RowsPerSecond > 0 {
		throttle = mitigation.NewReplayThrottle(mitigation.ThrottleConfig{
			RowsPerSecond: cfg.ReplayThrottle.RowsPerSecond,
			Burst:         cfg.ReplayThrottle.Burst,
		}, logger)
	}

	if cfg.HTTP.Enabled {
		server.Start()
	}

	result, err := pipeline.Run(seq, pipeline.Options{
		RingBufferCapacity: cfg.RingBufferCapacity,
		PriceSpread:        cfg.PriceSpread,
		Throttle:           throttle,
		Metrics:            reg,
	})
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	snap.Publish(cache.BuildSnapshot(result.Book, time.Now().UnixNano()))

	if cfg.Metrics.PushgatewayURL != "" {
		if err := breaker.Push(func() error {
			return pushMetrics(cfg.Metrics.PushgatewayURL, reg)
		}); err != nil {
			logger.Warn("pushgateway push failed", zap.Error(err))
		}
	}

	if cfg.LatencyDump.Path != "" {
		dumpDone := make(chan struct{})
		err := pool.Submit(func() {
			defer close(dumpDone)
			if _, err := report.WriteCompressedDump(cfg.LatencyDump.Path, result.LatencyNanos); err != nil {
				logger.Warn("failed to write latency dump", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("failed to schedule latency dump", zap.Error(err))
		} else {
			<-dumpDone
		}
	}

	return report.Render(os.Stdout, result.LatencyNanos, result.PriceSeries)
}

// pushMetrics pushes the run's final collector state to a Prometheus
// Pushgateway. Called only through breaker, never directly.
func pushMetrics(url string, reg *metrics.Registry) error {
	pusher := push.New(url, "nanofill").Gatherer(reg.Gatherer)
	return pusher.Push()
}
