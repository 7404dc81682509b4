package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	// Hosted database: REST surface by default, direct SQL when a DSN is set.
	SupabaseURL string
	SupabaseKey string
	SupabaseDSN string
	SupabaseRPS int

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	WarmWorkers  int
	WarmPageSize int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		SupabaseURL:  env("SUPABASE_URL", ""),
		SupabaseKey:  env("SUPABASE_KEY", ""),
		SupabaseDSN:  env("SUPABASE_DB_DSN", ""),
		SupabaseRPS:  atoi("SUPABASE_RPS", 10),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		WarmWorkers:  atoi("WARM_WORKERS", 8),
		WarmPageSize: atoi("WARM_PAGE_SIZE", 50),
	}
	if c.SupabaseDSN == "" && c.SupabaseKey == "" {
		log.Warn().Msg("SUPABASE_KEY is empty and no SUPABASE_DB_DSN set")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
