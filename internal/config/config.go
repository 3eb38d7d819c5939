package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/recall/internal/logger"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	WorkerCount          int
	QueueSize            int
	RetryMaxAttempts     int
	RetryInitialInterval time.Duration
	ChapterPaceDays      float64
	ReviewLimit          int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:recall.db"),
		LogLevel:             strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		WorkerCount:          envIntOr("WORKER_COUNT", 2),
		QueueSize:            envIntOr("QUEUE_SIZE", 32),
		RetryMaxAttempts:     envIntOr("RETRY_MAX_ATTEMPTS", 5),
		RetryInitialInterval: time.Duration(envIntOr("RETRY_INITIAL_INTERVAL_MS", 25)) * time.Millisecond,
		ChapterPaceDays:      envFloatOr("CHAPTER_PACE_DAYS", 3),
		ReviewLimit:          envIntOr("REVIEW_LIMIT", 20),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}
	if c.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("QUEUE_SIZE must be positive, got %d", c.QueueSize))
	}
	if c.RetryMaxAttempts < 1 || c.RetryMaxAttempts > 20 {
		errs = append(errs, fmt.Errorf("RETRY_MAX_ATTEMPTS must be between 1 and 20, got %d", c.RetryMaxAttempts))
	}
	if c.RetryInitialInterval <= 0 {
		errs = append(errs, fmt.Errorf("RETRY_INITIAL_INTERVAL_MS must be positive, got %v", c.RetryInitialInterval))
	}
	if c.ChapterPaceDays < 0 {
		errs = append(errs, fmt.Errorf("CHAPTER_PACE_DAYS cannot be negative, got %v", c.ChapterPaceDays))
	}
	if c.ReviewLimit <= 0 {
		errs = append(errs, fmt.Errorf("REVIEW_LIMIT must be positive, got %d", c.ReviewLimit))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
