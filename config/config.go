// Package config handles loading application configuration from environment
// variables. A .env file is honored in development via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port        int
	Environment string // "development" | "production"

	MongoURI  string
	MongoDB   string
	RedisAddr string
	RedisPass string

	JWTSecret      string
	AllowedOrigins []string

	// Per-user cap on issue reports per 24h window.
	IssueRateLimit int

	// Object storage (Supabase-style bucket API).
	StorageURL    string
	StorageKey    string
	StorageBucket string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("GO_ENV", "development"),

		MongoURI:  getEnv("MONGODB_URI", ""),
		MongoDB:   getEnv("MONGODB_DB", "civiclens"),
		RedisAddr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASSWORD", ""),

		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),

		IssueRateLimit: getEnvInt("ISSUE_RATE_LIMIT", 10),

		StorageURL:    getEnv("STORAGE_URL", ""),
		StorageKey:    getEnv("STORAGE_KEY", ""),
		StorageBucket: getEnv("STORAGE_BUCKET", "issue-images"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.Environment == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
