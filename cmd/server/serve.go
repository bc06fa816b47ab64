package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/cache"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/events"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/handler"
	bbmetrics "github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/metrics"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/service"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	httpapi "github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/http"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/config"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/httpserver"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/kafka"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/logger"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/metrics"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/postgres"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/redis"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/tracing"
)

const tracerName = "github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/service"

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

// runServer wires the engine to its infrastructure and serves until SIGINT
// or SIGTERM.
func runServer(parent context.Context, cfg *config.Server) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	engineMetrics := bbmetrics.New(reg)
	checks := map[string]httpapi.Check{}

	st, db, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		checks["postgres"] = db.PingContext
	}

	tp, err := tracing.New(cfg.Tracing, os.Stdout)
	if err != nil {
		return err
	}
	otel.SetTracerProvider(tp)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(flushCtx); err != nil {
			log.Error("failed to flush traces", "error", err)
		}
	}()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithTracer(tp.Tracer(tracerName)),
		service.WithMetrics(engineMetrics),
		service.WithTxRetries(cfg.Engine.TxMaxRetries),
		service.WithTxTimeout(cfg.Engine.TxTimeout),
		service.WithLowStockThreshold(cfg.Engine.DefaultLowStockThreshold),
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
		checks["redis"] = rc.Health
		opts = append(opts, service.WithCache(
			cache.NewRedisInventory(rc.Client, cfg.Engine.InventoryCacheTTL, cache.WithLogger(log)),
		))
		log.Info("inventory cache enabled", "ttl", cfg.Engine.InventoryCacheTTL.String())
	}

	bus := events.NewBus()
	opts = append(opts, service.WithBus(bus))

	var worker *events.Worker
	kc, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		return err
	}
	if kc != nil {
		defer kc.Close()
		if err := kc.EnsureTopic(ctx, cfg.Kafka.Partitions); err != nil {
			return err
		}
		checks["kafka"] = kc.Health
		worker = events.NewWorker(events.NewKafkaSink(kc, kc.Topic(), log), cfg.Engine.EventBuffer, log, engineMetrics)
		worker.Attach(bus)
		log.Info("lifecycle events streaming to kafka", "topic", kc.Topic())
	}

	svc := service.New(st, opts...)
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:      log,
		Gatherer:    reg,
		HTTPMetrics: metrics.New(reg),
		BloodBank:   handler.New(svc, log),
		Checks:      checks,
	})
	srv := httpserver.New(cfg.Addr, router, log)
	log.Info("starting bloodlink", "addr", cfg.Addr)

	return serve(ctx, srv, worker, cfg.ShutdownTimeout, log)
}

// httpServer is the part of *http.Server that serve drives.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// serve runs srv and the optional event worker until ctx is done. The worker
// keeps its own context and is stopped only once Shutdown has returned, so
// events committed by in-flight requests are still forwarded.
func serve(ctx context.Context, srv httpServer, worker *events.Worker, shutdownTimeout time.Duration, log *slog.Logger) error {
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if worker != nil {
		g.Go(func() error {
			if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		defer stopWorker()
		log.Info("shutting down", "timeout", shutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openStore returns the Postgres store when DATABASE_URL is set and the
// in-memory store otherwise. db is nil for the in-memory store.
func openStore(ctx context.Context, cfg *config.Server, log *slog.Logger) (service.Store, *sql.DB, error) {
	if !cfg.Database.Enabled() {
		log.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
		return store.NewMemory(), nil, nil
	}
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	log.Info("connected to postgres")
	return store.NewPostgres(db), db, nil
}
