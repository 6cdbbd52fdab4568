package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	DatabaseURL string
	RedisURL    string

	JWTSecret string

	// SessionTTL bounds how long an anonymous voter session stays valid.
	SessionTTL time.Duration

	// Fixed-window throttles, per client address.
	VoteRateLimit    int
	VoteRateWindow   time.Duration
	CreateRateLimit  int
	CreateRateWindow time.Duration
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Environment:    getEnv("ENVIRONMENT", "production"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		SessionTTL: getDurationEnv("SESSION_TTL", 24*time.Hour),

		VoteRateLimit:    getIntEnv("VOTE_RATE_LIMIT", 10),
		VoteRateWindow:   getDurationEnv("VOTE_RATE_WINDOW", time.Hour),
		CreateRateLimit:  getIntEnv("CREATE_POLL_RATE_LIMIT", 20),
		CreateRateWindow: getDurationEnv("CREATE_POLL_RATE_WINDOW", time.Hour),
		RequestTimeout:   getDurationEnv("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:  getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
