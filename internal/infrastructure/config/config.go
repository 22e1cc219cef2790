// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL
	PostgresDSN string

	// Gmail
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	GmailRedirectURL  string

	// Scan
	ScanQuery         string
	ScanLookbackYears int
	ScanMaxResults    int
	ScanConcurrency   int
	AttachmentTimeout time.Duration

	// Gemini
	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string
	GeminiTimeout  time.Duration

	// Metrics
	MetricsEnabled   bool
	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 120)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "flightlog"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailRedirectURL:  getEnv("GMAIL_REDIRECT_URL", "http://localhost:8090/oauth2callback"),

		ScanQuery:         getEnv("GMAIL_QUERY", "(flight OR booking OR confirmation OR itinerary)"),
		ScanLookbackYears: getEnvAsInt("SCAN_LOOKBACK_YEARS", 2),
		ScanMaxResults:    getEnvAsInt("SCAN_MAX_RESULTS", 100),
		ScanConcurrency:   getEnvAsInt("SCAN_CONCURRENCY", 4),
		AttachmentTimeout: getEnvAsDuration("ATTACHMENT_TIMEOUT", 15*time.Second),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiEndpoint: getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout:  getEnvAsDuration("GEMINI_TIMEOUT", 20*time.Second),

		MetricsEnabled:   getEnvAsBool("METRICS_ENABLED", true),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "flightlog"),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("15s") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
