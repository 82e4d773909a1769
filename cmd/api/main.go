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

	"github.com/geocoder89/bookapi/internal/auth"
	"github.com/geocoder89/bookapi/internal/config"
	httpx "github.com/geocoder89/bookapi/internal/http"
	"github.com/geocoder89/bookapi/internal/http/handlers"
	"github.com/geocoder89/bookapi/internal/http/middlewares"
	"github.com/geocoder89/bookapi/internal/observability"
	"github.com/geocoder89/bookapi/internal/redisclient"
	"github.com/geocoder89/bookapi/internal/repo"
	"github.com/geocoder89/bookapi/internal/repo/memory"
	"github.com/geocoder89/bookapi/internal/repo/mongodb"
	"github.com/geocoder89/bookapi/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTelEnabled, "bookapi", cfg.OTelEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	repos, err := openStore(ctx, cfg, prom)
	if err != nil {
		log.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}

	// shared counters when redis is configured, per-process otherwise
	var limiter middlewares.Limiter = middlewares.NewMemoryLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	ready := map[string]handlers.Pinger{}

	var rdb *redisclient.Client
	if cfg.RedisAddr != "" {
		rdb = redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		limiter = middlewares.NewRedisLimiter(rdb, cfg.AuthRateLimit, cfg.AuthRateWindow, "bookapi:ratelimit:auth:")
		ready["redis"] = rdb.Ping
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	router := httpx.NewRouter(httpx.Deps{
		Config:      cfg,
		Repos:       repos,
		JWT:         jwtManager,
		AuthLimiter: limiter,
		Prom:        prom,
		Gatherer:    reg,
		Ready:       ready,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := repos.Close(ctx); err != nil {
			log.Error("store close failed", "err", err)
		}

		if rdb != nil {
			if err := rdb.Close(); err != nil {
				log.Error("redis close failed", "err", err)
			}
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

func openStore(ctx context.Context, cfg config.Config, prom *observability.Prom) (repo.Repositories, error) {
	ctx, cancel := config.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return repo.Repositories{}, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return repo.Repositories{}, err
		}
		return postgres.NewStore(pool, prom).Repositories(), nil

	case config.DriverMemory:
		return memory.NewStore().Repositories(), nil

	default:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB, prom)
		if err != nil {
			return repo.Repositories{}, err
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			_ = client.Close(context.Background())
			return repo.Repositories{}, err
		}
		return client.Repositories(), nil
	}
}
