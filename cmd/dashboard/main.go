package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	server "bookinsight/internal/adapters/http_server"
	"bookinsight/internal/adapters/observability"
	redisad "bookinsight/internal/adapters/redis"
	"bookinsight/internal/app"
	"bookinsight/internal/dataset"
	"bookinsight/internal/domain"
	"bookinsight/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// dataset: one load at startup, read-only afterwards
	snap, err := dataset.Load(cfg.DataPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DataPath).Msg("dataset load failed")
	}
	observability.DatasetRows.Set(float64(snap.Rows()))
	log.Info().
		Str("path", cfg.DataPath).
		Str("version", snap.Version()).
		Int("rows", snap.Rows()).
		Msg("dataset loaded")

	store := dataset.NewStore(snap)
	if cfg.WatchData {
		watcher, err := dataset.NewWatcher(cfg.DataPath, store)
		if err != nil {
			log.Fatal().Err(err).Msg("dataset watcher failed")
		}
		go func() {
			if err := watcher.Run(context.Background()); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("dataset watcher stopped")
			}
		}()
		log.Info().Str("path", cfg.DataPath).Msg("watching dataset for changes")
	}

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}
	q := app.NewDashboardService(store, cache, cfg.CacheTTL)
	if cfg.WarmWorkers > 0 {
		q.Warmup(context.Background(), cfg.WarmWorkers)
		log.Info().Int("workers", cfg.WarmWorkers).Msg("chart cache warmed")
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(server.NewHandlers(q, cfg.ExportRPS))

	log.Info().Str("addr", cfg.HTTPAddr).Msg("dashboard listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
