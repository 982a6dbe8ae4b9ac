// Copyright (c) 2026 Danmu. All rights reserved.

// Command server is the composition root: it wires every platform and
// domain package together, starts the HTTP listener, and shuts down
// gracefully on SIGINT/SIGTERM.
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

	metadataproviders "github.com/sorahq/danmu/internal/metadata/providers"

	"github.com/sorahq/danmu/internal/adminapi"
	"github.com/sorahq/danmu/internal/api"
	"github.com/sorahq/danmu/internal/cache"
	"github.com/sorahq/danmu/internal/compatapi"
	"github.com/sorahq/danmu/internal/core/apitoken"
	"github.com/sorahq/danmu/internal/core/episode"
	"github.com/sorahq/danmu/internal/core/source"
	"github.com/sorahq/danmu/internal/core/tmdbmap"
	"github.com/sorahq/danmu/internal/core/uarule"
	"github.com/sorahq/danmu/internal/core/work"
	"github.com/sorahq/danmu/internal/maintenance"
	"github.com/sorahq/danmu/internal/metadata"
	"github.com/sorahq/danmu/internal/platform/config"
	"github.com/sorahq/danmu/internal/platform/constants"
	"github.com/sorahq/danmu/internal/platform/migration"
	"github.com/sorahq/danmu/internal/platform/postgres"
	redisstore "github.com/sorahq/danmu/internal/platform/redis"
	"github.com/sorahq/danmu/internal/platform/runtimeconfig"
	"github.com/sorahq/danmu/internal/scheduler"
	"github.com/sorahq/danmu/internal/scraper"
	scraperproviders "github.com/sorahq/danmu/internal/scraper/providers"
	"github.com/sorahq/danmu/internal/search"
	"github.com/sorahq/danmu/internal/task"
	"github.com/sorahq/danmu/internal/webhook"
)

const startupTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Default().Error("startup_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	pool, err := postgres.NewPool(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	configStore := runtimeconfig.New(pool)
	if err := seedBootstrapConfig(startupCtx, configStore, cfg); err != nil {
		return fmt.Errorf("seed bootstrap config: %w", err)
	}

	// Core domain repositories and services.
	workSvc := work.NewService(work.NewRepository(pool), log)
	sourceSvc := source.NewService(source.NewRepository(pool), log, constants.DefaultIncrementalFailureCap)
	episodeSvc := episode.NewService(episode.NewRepository(pool), log)
	tmdbmapSvc := tmdbmap.NewService(tmdbmap.NewRepository(pool), log)
	uaruleSvc := uarule.NewService(uarule.NewRepository(pool), log)
	if err := uaruleSvc.Refresh(startupCtx); err != nil {
		return fmt.Errorf("load ua rules: %w", err)
	}
	tokenSvc := apitoken.NewService(apitoken.NewRepository(pool), log)

	minInterval := configStore.GetDurationSecondsOr(startupCtx, "min_request_interval_seconds", constants.DefaultMinRequestInterval)
	rateLimited := scraper.NewRateLimitedClient(nil, minInterval, rdb)

	registry := scraper.NewRegistry(pool, []scraper.Provider{
		scraperproviders.NewTencent(rateLimited),
		scraperproviders.NewIQiyi(rateLimited),
		scraperproviders.NewBilibili(rateLimited),
		scraperproviders.NewGamer(rateLimited),
		scraperproviders.NewRenren(rateLimited),
	})

	metadataHTTP := &http.Client{Timeout: constants.DefaultScraperRequestTimeout}
	tmdbProvider := metadataproviders.NewTMDB(metadataHTTP)
	metadataMgr := metadata.NewManager(pool, log, []metadata.Provider{
		tmdbProvider,
		metadataproviders.NewBangumi(metadataHTTP),
		metadataproviders.NewDouban(metadataHTTP),
		metadataproviders.NewIMDb(metadataHTTP),
		metadataproviders.NewTVDB(metadataHTTP),
	})
	if err := metadataMgr.Initialize(startupCtx); err != nil {
		log.WarnContext(startupCtx, "metadata_manager_initialize_failed", "error", err)
	}
	if err := registry.Sync(startupCtx, []string{"tencent", "iqiyi", "bilibili", "gamer", "renren"}); err != nil {
		log.WarnContext(startupCtx, "scraper_registry_sync_failed", "error", err)
	}

	cacheStore := cache.New(pool, log)

	taskEngine := task.NewEngine(task.NewRepository(pool), log, 64)

	schedulerRepo := scheduler.NewRepository(pool)
	jobs := []scheduler.Job{
		scheduler.NewIncrementalRefreshJob(sourceSvc, episodeSvc, registry, log),
		scheduler.NewTMDBMappingRefreshJob(workSvc, tmdbmapSvc, tmdbProvider, log),
	}
	sched := scheduler.New(taskEngine, schedulerRepo, log, jobs)
	if err := sched.Start(startupCtx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	pipeline := search.NewPipeline(registry, metadataMgr, log)
	matcher := search.NewMatcher(workSvc, sourceSvc, episodeSvc, tmdbmapSvc, log)

	webhookDispatcher := webhook.NewDispatcher(configStore)

	adminHandler := adminapi.NewHandler(
		workSvc, sourceSvc, episodeSvc, taskEngine, schedulerRepo, sched,
		registry, metadataMgr, pipeline, uaruleSvc, tokenSvc, cacheStore, configStore, pool, log,
	)
	compatHandler := compatapi.NewHandler(workSvc, episodeSvc, matcher)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error { return postgres.Ping(startupCtx, pool) },
		CheckCache:    func() error { return redisstore.Ping(startupCtx, rdb) },
	}, log)

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	server := api.NewServer(appCtx, cfg, cfg.ServerPort, log, tokenSvc, uaruleSvc, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Admin:     adminHandler,
		Compat:    compatHandler,
		Webhook:   webhookDispatcher,
	})

	runner := maintenance.New(cacheStore, taskEngine, pool, log)
	go runner.Start(appCtx)

	shutdownErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownErr <- err
			return
		}
		shutdownErr <- nil
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		log.Info("shutdown_signal_received")
	case err := <-shutdownErr:
		if err != nil {
			return fmt.Errorf("listen and serve: %w", err)
		}
	}

	appCancel()
	return server.Shutdown(constants.ShutdownTimeout)
}

// seedBootstrapConfig writes the env-sourced bootstrap values into
// platform.config on first boot, without overwriting rows an operator has
// already changed through the admin config endpoint.
func seedBootstrapConfig(ctx context.Context, store *runtimeconfig.Store, cfg *config.Config) error {
	seed := map[string]string{
		"webhook_api_key": cfg.WebhookAPIKey,
		"tmdb_api_key":    cfg.TMDBAPIKey,
		"proxy_url":       cfg.ProxyURL,
		"proxy_enabled":   fmt.Sprintf("%t", cfg.ProxyEnabled),
	}
	for key, value := range seed {
		if value == "" {
			continue
		}
		if _, found, err := store.Get(ctx, key); err != nil {
			return err
		} else if found {
			continue
		}
		if err := store.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
