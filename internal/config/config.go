package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	TokenIssuer    string

	FeedbackDuration      time.Duration
	CelebrationDuration   time.Duration
	StreakPolicy          string
	DeterministicOrder    bool
	DeterministicMessages bool
	SessionIdleTimeout    time.Duration
	HistoryLimit          int
	LenientAnswers        bool
	RateLimit             int

	LogLevel  string
	LogFormat string
}

// Load reads a .env file if one exists, then environment variables with
// sensible defaults
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DatabasePath:   getEnv("DB_PATH", "./glossify.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenIssuer:    getEnv("TOKEN_ISSUER", "glossify"),

		FeedbackDuration:      getEnvDuration("FEEDBACK_DURATION", 1200*time.Millisecond),
		CelebrationDuration:   getEnvDuration("CELEBRATION_DURATION", 3200*time.Millisecond),
		StreakPolicy:          getEnv("STREAK_POLICY", "milestone"),
		DeterministicOrder:    getEnvBool("DETERMINISTIC_ORDER", false),
		DeterministicMessages: getEnvBool("DETERMINISTIC_MESSAGES", false),
		SessionIdleTimeout:    getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		HistoryLimit:          getEnvInt("HISTORY_LIMIT", 20),
		LenientAnswers:        getEnvBool("LENIENT_ANSWERS", false),
		RateLimit:             getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}
}

// SingleUser reports whether requests run as one local user without tokens
func (c *Config) SingleUser() bool {
	return c.JWTSecret == ""
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid boolean for %s: %q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid number for %s: %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvDuration accepts Go durations ("1.5s") or plain milliseconds ("1500")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(value); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid duration for %s: %q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return d
}
