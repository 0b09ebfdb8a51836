package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/mdenrich/internal/images"
	"github.com/dgallion1/mdenrich/internal/logging"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer auth on /api.
	APIKey string

	// Taxonomy
	Locale       string
	TaxonomyPath string

	// Image localization
	ImageDir         string // link directory name in rewritten references
	CacheDir         string // server-side image cache
	FetchTimeout     time.Duration
	FetchConcurrency int
	FetchRatePerSec  float64
	FetchBurst       int
	MaxImageBytes    int64
	UserAgent        string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("MDENRICH_API_KEY"),

		Locale:       envOr("MDENRICH_LOCALE", taxonomy.DefaultLocale),
		TaxonomyPath: os.Getenv("MDENRICH_TAXONOMY"),

		ImageDir:         envOr("IMAGE_DIR", images.DefaultLinkDir),
		CacheDir:         envOr("CACHE_DIR", "./data/img"),
		FetchTimeout:     envDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchConcurrency: envInt("FETCH_CONCURRENCY", 4),
		FetchRatePerSec:  envFloat("FETCH_RATE_PER_SEC", 10),
		FetchBurst:       envInt("FETCH_BURST", 5),
		MaxImageBytes:    envInt64("MAX_IMAGE_BYTES", 20971520), // 20MB
		UserAgent:        envOr("USER_AGENT", images.DefaultUserAgent),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", string(logging.FormatText)),
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate rejects settings that would fail later at runtime.
func (c Config) Validate() error {
	if c.TaxonomyPath == "" && !slices.Contains(taxonomy.Locales(), c.Locale) {
		return fmt.Errorf("MDENRICH_LOCALE %q is not one of %v", c.Locale, taxonomy.Locales())
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive, got %d", c.FetchConcurrency)
	}
	if c.FetchRatePerSec < 0 {
		return fmt.Errorf("FETCH_RATE_PER_SEC must not be negative")
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("LOG_FORMAT: %w", err)
	}
	return nil
}

// FetcherConfig maps the fetch settings onto an images.FetcherConfig.
func (c Config) FetcherConfig() images.FetcherConfig {
	return images.FetcherConfig{
		Timeout:    c.FetchTimeout,
		UserAgent:  c.UserAgent,
		RatePerSec: c.FetchRatePerSec,
		Burst:      c.FetchBurst,
		MaxBytes:   c.MaxImageBytes,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
