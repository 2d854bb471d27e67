/**
 * @description
 * Configuration loader for the Stock League backend.
 * Responsible for reading environment variables, setting defaults, and performing strict validation.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - standard "os": For reading env vars
 *
 * @notes
 * - Fails fast if critical variables (Database URL, Finnhub key) are missing.
 */

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Finnhub FinnhubConfig
	Auth    AuthConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string // "development", "test" or "production"
}

// DBConfig holds PostgreSQL settings
type DBConfig struct {
	URL string
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	URL string
}

// FinnhubConfig holds the market data provider settings
type FinnhubConfig struct {
	BaseURL string
	APIKey  string
}

// AuthConfig holds identity provider settings (Clerk)
type AuthConfig struct {
	JWKSURL string // URL to fetch JSON Web Key Set for JWT validation
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Attempt to load .env, but don't crash if it fails (prod might inject env vars directly)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		DB: DBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Finnhub: FinnhubConfig{
			BaseURL: getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
			APIKey:  sanitizeCredential(getEnv("FINNHUB_API_KEY", "")),
		},
		Auth: AuthConfig{
			JWKSURL: getEnv("CLERK_JWKS_URL", ""),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks for required variables
func validate(cfg *Config) error {
	if cfg.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Finnhub.APIKey == "" && cfg.Server.Env != "test" {
		// Quotes, search and news all go through Finnhub; without a key every
		// market data call fails with a 401.
		fmt.Println("Warning: FINNHUB_API_KEY is missing. Market data calls will fail.")
	}
	return nil
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func sanitizeCredential(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.Trim(trimmed, "\"")
}
