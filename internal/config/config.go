package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API and seeder need at startup.
type Config struct {
	HTTPAddr        string
	PrimaryDSN      string
	ReadOnlyDSN     string // optional, dashboard reads fall back to the primary pool
	AutoMigrate     bool
	CORSOrigin      string
	RedisAddr       string // optional, enables Idempotency-Key handling when set
	IdempotencyTTL  time.Duration
	RestockOnCancel bool
	LogLevel        slog.Level
}

// Load reads a .env file if one exists and then the process environment.
func Load() (Config, error) {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		PrimaryDSN:  os.Getenv("DB_DSN_PRIMARY"),
		ReadOnlyDSN: os.Getenv("DB_DSN_READONLY"),
		CORSOrigin:  env("CORS_ORIGIN", "http://localhost:5173"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
	}
	if cfg.PrimaryDSN == "" {
		return Config{}, errors.New("DB_DSN_PRIMARY is not set")
	}

	var err error
	if cfg.AutoMigrate, err = envBool("DB_AUTO_MIGRATE", true); err != nil {
		return Config{}, err
	}
	if cfg.RestockOnCancel, err = envBool("RESTOCK_ON_CANCEL", false); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = envDuration("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
