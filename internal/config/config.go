package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL   string
	RunMigrations bool

	// Auth0 (optional; without it only API tokens authenticate)
	Auth0Domain   string
	Auth0Audience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// API token rate limiting
	APIRateLimit int
	APIRateBurst int

	// Report cache
	RedisURL       string
	ReportCacheTTL time.Duration

	// S3 Storage for report archives
	S3 S3Config
}

// S3Config locates the report archive bucket. Endpoint is only set for MinIO or LocalStack.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

// Enabled reports whether a bucket is configured. Archiving is off without one.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from the environment, after merging a local .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Auth0Domain:   os.Getenv("AUTH0_DOMAIN"),
		Auth0Audience: os.Getenv("AUTH0_AUDIENCE"),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:           getEnv("ENV", "development"),
		RedisURL:      os.Getenv("REDIS_URL"),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          os.Getenv("S3_BUCKET"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
		},
	}

	var err error
	if cfg.RunMigrations, err = parseEnv("RUN_MIGRATIONS", "true", strconv.ParseBool); err != nil {
		return nil, err
	}
	if cfg.APIRateLimit, err = parseEnv("API_RATE_LIMIT", "100", strconv.Atoi); err != nil {
		return nil, err
	}
	if cfg.APIRateBurst, err = parseEnv("API_RATE_BURST", "10", strconv.Atoi); err != nil {
		return nil, err
	}
	if cfg.ReportCacheTTL, err = parseEnv("REPORT_CACHE_TTL", "5m", time.ParseDuration); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Auth0Enabled reports whether JWT authentication is configured
func (c *Config) Auth0Enabled() bool {
	return c.Auth0Domain != ""
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if (c.Auth0Domain == "") != (c.Auth0Audience == "") {
		return fmt.Errorf("AUTH0_DOMAIN and AUTH0_AUDIENCE must be set together")
	}
	if c.APIRateLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT must be positive")
	}
	if c.APIRateBurst <= 0 {
		return fmt.Errorf("API_RATE_BURST must be positive")
	}
	if c.ReportCacheTTL <= 0 {
		return fmt.Errorf("REPORT_CACHE_TTL must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseEnv[T any](key, defaultValue string, parse func(string) (T, error)) (T, error) {
	raw := getEnv(key, defaultValue)
	v, err := parse(raw)
	if err != nil {
		return v, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// splitList splits a comma separated value, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
