package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Routing provider configuration
	Maps MapsConfig

	// Geocode cache configuration
	Cache CacheConfig

	// Redis configuration (used when the cache backend is "redis")
	Redis RedisConfig

	// Auth configuration
	Auth AuthConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// CORS configuration
	CORS CORSConfig

	// Retention cleanup configuration
	Cleanup CleanupConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// MapsConfig holds routing provider configuration
type MapsConfig struct {
	Provider string // "azure" or "fallback" - fallback estimates routes without a provider
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// CacheConfig holds geocode cache configuration
type CacheConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds API authentication configuration
type AuthConfig struct {
	Enabled     bool   // when false every endpoint is open
	JWTSecret   string
	APIKeyHash  string // bcrypt hash of the API key accepted by the token endpoint
	TokenExpiry time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled       bool
	Requests      int
	WindowSeconds int
	Burst         int
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// CleanupConfig holds trip retention configuration
type CleanupConfig struct {
	Enabled       bool
	Schedule      string // cron spec with seconds field
	RetentionDays int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Maps: MapsConfig{
			Provider: getEnv("MAPS_PROVIDER", "azure"), // "azure" or "fallback"
			APIKey:   getEnv("AZURE_MAPS_KEY", ""),
			BaseURL:  getEnv("AZURE_MAPS_BASE_URL", "https://atlas.microsoft.com"),
			Timeout:  time.Duration(getEnvAsInt("MAPS_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Cache: CacheConfig{
			Backend: getEnv("CACHE_BACKEND", "memory"), // "memory" or "redis"
			TTL:     time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 86400)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Enabled:     getEnvAsBool("AUTH_ENABLED", false),
			JWTSecret:   getEnv("JWT_SECRET", ""),
			APIKeyHash:  getEnv("API_KEY_HASH", ""),
			TokenExpiry: time.Duration(getEnvAsInt("JWT_TOKEN_EXPIRY", 3600)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Requests:      getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			Burst:         getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Cleanup: CleanupConfig{
			Enabled:       getEnvAsBool("CLEANUP_ENABLED", true),
			Schedule:      getEnv("CLEANUP_SCHEDULE", "0 0 4 * * *"), // 4 AM daily
			RetentionDays: getEnvAsInt("CLEANUP_RETENTION_DAYS", 90),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Maps.Provider != "azure" && c.Maps.Provider != "fallback" {
		return fmt.Errorf("invalid maps provider: %s (must be 'azure' or 'fallback')", c.Maps.Provider)
	}

	if c.Maps.Provider == "azure" && c.Maps.APIKey == "" {
		return fmt.Errorf("AZURE_MAPS_KEY is required when MAPS_PROVIDER is 'azure'")
	}

	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("invalid cache backend: %s (must be 'memory' or 'redis')", c.Cache.Backend)
	}

	if c.Cache.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND is 'redis'")
	}

	// Validate auth configuration only when enabled
	if c.Auth.Enabled {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is true")
		}

		if c.Auth.APIKeyHash == "" {
			return fmt.Errorf("API_KEY_HASH is required when AUTH_ENABLED is true")
		}
	}

	if c.Cleanup.Enabled && c.Cleanup.RetentionDays <= 0 {
		return fmt.Errorf("CLEANUP_RETENTION_DAYS must be positive")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
