package main

import (
	"context"
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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/letsssgooo/wolfpedia/internal/app"
	"github.com/letsssgooo/wolfpedia/internal/catalog"
	"github.com/letsssgooo/wolfpedia/internal/config"
	"github.com/letsssgooo/wolfpedia/internal/console"
	"github.com/letsssgooo/wolfpedia/internal/lib/slogcustom"
	"github.com/letsssgooo/wolfpedia/internal/metrics"
	"github.com/letsssgooo/wolfpedia/internal/persist"
	"github.com/letsssgooo/wolfpedia/internal/storage"
	"github.com/letsssgooo/wolfpedia/internal/storage/postgres"
	"github.com/letsssgooo/wolfpedia/internal/storage/redis"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := setupLogger(cfg.LogLevel)
	slog.SetDefault(log)

	if err = run(cfg, log); err != nil {
		log.Error("wolfpedia stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting wolfpedia...", "storage", cfg.Storage)

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	st, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	store, err := app.New(ctx, cat, persist.NewRepository(st), log, m)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- console.New(store, os.Stdout, log).Run(ctx, os.Stdin)
	}()

	select {
	case err = <-done:
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	case <-ctx.Done():
		log.Info("interrupted, shutting down")
		return nil
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Load()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrCatalogLoad, err)
	}

	return catalog.Parse(data)
}

func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Storage, func(), error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemoryStorage(), func() {}, nil
	case config.StorageFile:
		st, err := storage.NewFileStorage(cfg.DataFile, log)
		if err != nil {
			return nil, nil, err
		}

		return st, func() {}, nil
	case config.StoragePostgres:
		st, err := postgres.NewStorage(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		return st, st.Close, nil
	case config.StorageRedis:
		st, err := redis.NewStorage(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}

		return st, func() {
			if err := st.Close(); err != nil {
				log.Warn("failed to close redis", "err", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown storage %q", config.ErrInvalidConfig, cfg.Storage)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "err", err)
		}
	}()

	return srv
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	// stdout занят консолью
	return slog.New(slogcustom.NewCustomHandler(os.Stderr, lvl))
}
