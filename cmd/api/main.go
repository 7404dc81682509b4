package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	server "github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/http_server"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/observability"
	redisad "github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/redis"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/supabase"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/app"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/shared"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/storage/postgres"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/storage/rest"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	store := newStore(cfg)

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, serving uncached")
	}
	q := app.NewQueryService(store, cache, cfg.CacheTTL)
	c := app.NewCommandService(store, cache)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// newStore picks the database access path: direct SQL when a DSN is
// configured, the REST surface otherwise.
func newStore(cfg shared.Config) domain.Store {
	if cfg.SupabaseDSN != "" {
		db, err := sql.Open("pgx", cfg.SupabaseDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok (direct SQL)")
		return postgres.New(db)
	}

	client, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database REST client")
	}
	log.Info().Str("base", cfg.SupabaseURL).Msg("using database REST surface")
	return rest.New(client)
}
