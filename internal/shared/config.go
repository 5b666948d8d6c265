package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPAddr       string
	MetricsAddr    string // empty serves /metrics on the API listener
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string

	DBDriver       string
	DatabaseDSN    string
	DBMaxOpenConns int

	OTLPEndpoint string
	ServiceName  string

	SeedFile    string
	SeedWorkers int
}

const defaultMySQLDSN = "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4&loc=UTC"

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer env value")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric env value")
		}
		return def
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		RateLimitRPS:   atof("RATE_LIMIT_RPS", 0),
		RateLimitBurst: atoi("RATE_LIMIT_BURST", 20),
		CORSOrigins:    splitList(env("CORS_ALLOWED_ORIGINS", "*")),
		DBDriver:       strings.ToLower(env("DB_DRIVER", "mysql")),
		DBMaxOpenConns: atoi("DB_MAX_OPEN_CONNS", 10),
		OTLPEndpoint:   env("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:    env("OTEL_SERVICE_NAME", "hotel-inventory"),
		SeedFile:       env("SEED_FILE", "seeds/hotels.json"),
		SeedWorkers:    atoi("SEED_WORKERS", 4),
	}

	defDSN := defaultMySQLDSN
	if c.DBDriver == "sqlite" {
		defDSN = "file:hotels.db"
	}
	c.DatabaseDSN = env("DATABASE_DSN", defDSN)

	if c.SeedWorkers < 1 {
		c.SeedWorkers = 1
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 15 * time.Second
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
