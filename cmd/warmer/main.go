package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/observability"
	redisad "github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/redis"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/supabase"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/app"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/shared"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/storage/postgres"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/storage/rest"
)

// The warmer walks the whole catalog once so the first wave of real traffic
// after a deploy hits redis instead of the hosted database.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("workers", cfg.WarmWorkers).
		Int("page_size", cfg.WarmPageSize).
		Msg("cache warmer starting")

	store := newStore(cfg)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	q := app.NewQueryService(store, cache, cfg.CacheTTL)

	if _, err := q.ListCategories(ctx); err != nil {
		log.Warn().Err(err).Msg("warm categories failed")
	}
	if _, err := q.ListInstructions(ctx, domain.PageQuery{Limit: cfg.WarmPageSize}); err != nil {
		log.Warn().Err(err).Msg("warm instructions failed")
	}
	if _, err := q.ListGallery(ctx, domain.PageQuery{Limit: cfg.WarmPageSize}); err != nil {
		log.Warn().Err(err).Msg("warm gallery failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.WarmWorkers))
	var wg sync.WaitGroup
	var warmed int

	for offset := 0; ; offset += cfg.WarmPageSize {
		page, err := q.ListSites(ctx, domain.PageQuery{Limit: cfg.WarmPageSize, Offset: offset})
		if err != nil {
			log.Fatal().Err(err).Int("offset", offset).Msg("list sites failed")
		}
		if len(page) == 0 {
			break
		}

		for _, site := range page {
			id := site.ID

			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, int64(1)); err != nil {
				log.Fatal().Err(err).Msg("semaphore acquire failed")
			}

			wg.Add(1)
			go func(siteID int64) {
				defer wg.Done()
				defer sem.Release(int64(1))

				if _, err := q.GetSite(ctx, siteID); err != nil {
					log.Warn().Int64("id", siteID).Err(err).Msg("warm site failed")
					return
				}
			}(id)
		}
		warmed += len(page)

		if len(page) < cfg.WarmPageSize {
			break
		}
	}

	wg.Wait()
	log.Info().Int("sites", warmed).Msg("cache warm completed")
}

func newStore(cfg shared.Config) domain.Store {
	if cfg.SupabaseDSN != "" {
		db, err := sql.Open("pgx", cfg.SupabaseDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		return postgres.New(db)
	}
	client, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database REST client")
	}
	return rest.New(client)
}
