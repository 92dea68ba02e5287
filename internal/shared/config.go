package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	DataPath    string
	WatchData   bool
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	WarmWorkers int
	ExportRPS   int
}

func Load() Config {
	// best effort; a missing .env is the normal case
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		DataPath:    env("DATA_PATH", "Hotelbookings.csv"),
		WatchData:   env("DATA_WATCH", "") == "1",
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		WarmWorkers: atoi("WARM_WORKERS", 0),
		ExportRPS:   atoi("EXPORT_RPS", 2),
	}
	if c.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is empty; chart cache disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
