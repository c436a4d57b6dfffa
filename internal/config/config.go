package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig aggregates runtime configuration, injected via environment
// variables with sensible local defaults.
type AppConfig struct {
	HTTPAddr string
	DBPath   string

	RedisAddr string
	RedisDB   int

	// BroadcastPrefix namespaces the per-auction ranking channels
	BroadcastPrefix string

	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads and validates configuration, falling back to defaults where
// a variable is unset.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DBPath:          getEnv("DB_PATH", "reverse_auction.db"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         0,
		BroadcastPrefix: getEnv("BROADCAST_PREFIX", "auction"),
		JWTSecret:       getEnv("JWT_SECRET", "changeme"),
		TokenTTL:        7 * 24 * time.Hour,
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	ttlHours, err := getEnvInt("TOKEN_TTL_HOUR", int(cfg.TokenTTL.Hours()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid TOKEN_TTL_HOUR: %w", err)
	}
	if ttlHours <= 0 {
		return AppConfig{}, fmt.Errorf("TOKEN_TTL_HOUR must be > 0")
	}
	cfg.TokenTTL = time.Duration(ttlHours) * time.Hour

	if cfg.DBPath == "" {
		return AppConfig{}, fmt.Errorf("DB_PATH must not be empty")
	}
	if cfg.BroadcastPrefix == "" {
		return AppConfig{}, fmt.Errorf("BROADCAST_PREFIX must not be empty")
	}
	if cfg.JWTSecret == "" {
		return AppConfig{}, fmt.Errorf("JWT_SECRET must not be empty")
	}

	return cfg, nil
}

// getEnv reads a string variable, returning fallback when unset or blank
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt reads an integer variable, returning fallback when unset
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
