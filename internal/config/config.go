package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName    string
	AppEnv     string
	AppURL     string
	Port       string
	AppTagline string

	// Content
	ContentPath string
	CachePath   string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Observability (optional)
	SentryDSN string

	// Asset storage (optional, S3-compatible: MinIO, AWS S3, R2, Spaces)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PathStyle     bool
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// MinIO and friends want path-style addressing, so a custom endpoint
	// flips the default.
	s3Endpoint := envString("S3_ENDPOINT", "")

	cfg := &Config{
		AppName:    envString("APP_NAME", "Inkpost"),
		AppEnv:     envString("APP_ENV", "development"),
		AppURL:     envString("APP_URL", "http://localhost:8090"),
		Port:       envString("PORT", "8090"),
		AppTagline: envString("APP_TAGLINE", "Long-form posts on building software"),

		ContentPath: envString("CONTENT_PATH", "content"),
		CachePath:   envString("CACHE_PATH", "./data/render-cache"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/inkpost.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		SentryDSN: envString("SENTRY_DSN", ""),

		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      s3Endpoint,
		S3PathStyle:     envBool("S3_PATH_STYLE", s3Endpoint != ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 168*time.Hour),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures fields with development-only defaults are set
// explicitly for production deployments.
func validateProduction(cfg *Config) {
	if strings.HasPrefix(cfg.AppURL, "http://localhost") {
		slog.Error("production deployment requires APP_URL",
			"hint", "canonical URLs in the sitemap and feed are built from it")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
