package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Generation API
	GenerateAPIBaseURL string
	GenerateAPIKey     string

	// Generation lifecycle
	PollInterval      time.Duration
	GenerationTimeout time.Duration

	// Auth
	JWTSecret string

	// Persistence
	DatabaseURL string
	StateDir    string
	CacheDir    string

	// Supabase
	SupabaseURL           string
	SupabaseAnonKey       string
	SupabaseStorageBucket string

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		GenerateAPIBaseURL: getEnv("GENERATE_API_BASE_URL", ""),
		GenerateAPIKey:     getEnv("GENERATE_API_KEY", ""),

		PollInterval:      getDurationEnv("POLL_INTERVAL", 2*time.Second),
		GenerationTimeout: getDurationEnv("GENERATION_TIMEOUT", 5*time.Minute),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		StateDir:    getEnv("STATE_DIR", "data/state"),
		CacheDir:    getEnv("CACHE_DIR", "data/cache"),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:       getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "avatars"),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.GenerateAPIBaseURL == "" {
		return fmt.Errorf("GENERATE_API_BASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
