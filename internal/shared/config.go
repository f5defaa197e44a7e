package shared

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	StoreDriver     string
	MongoURL        string
	MongoDB         string
	MongoCollection string
	MySQLDSN        string
	StoreTimeout    time.Duration

	AdminSecret string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	UploadDir      string
	MaxUploadBytes int64
	EncodeWorkers  int

	RequestTimeout time.Duration
	CORSOrigins    []string
}

// Load reads the process configuration once. A .env file in the working
// directory is applied first; real environment variables win over it.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric value")
		}
		return def
	}
	seconds := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Second
	}

	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":"+env("PORT", "5000")),
		MetricsAddr:     env("METRICS_ADDR", ""),
		StoreDriver:     strings.ToLower(env("STORE_DRIVER", "mongo")),
		MongoURL:        env("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDB:         env("MONGODB_DB", "quivato"),
		MongoCollection: env("MONGODB_COLLECTION", "reviews"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/quivato?parseTime=true"),
		StoreTimeout:    seconds("STORE_TIMEOUT_SECONDS", 10),
		AdminSecret:     os.Getenv("ADMIN_PASSWORD"),
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        seconds("CACHE_TTL_SECONDS", 300),
		UploadDir:       env("UPLOAD_DIR", filepath.Join(os.TempDir(), "reviews-uploads")),
		MaxUploadBytes:  int64(atoi("MAX_UPLOAD_BYTES", 10<<20)),
		EncodeWorkers:   atoi("ENCODE_WORKERS", 8),
		RequestTimeout:  seconds("REQUEST_TIMEOUT_SECONDS", 30),
		CORSOrigins:     splitList(env("CORS_ORIGINS", "*")),
	}
	if c.AdminSecret == "" {
		log.Warn().Msg("ADMIN_PASSWORD is empty; all write operations will be rejected")
	}
	if c.EncodeWorkers <= 0 {
		c.EncodeWorkers = 1
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
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
