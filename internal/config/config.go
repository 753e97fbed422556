package config

import (
	"os"
	"strconv"
	"time"

	"eventbook/internal/cache"
	"eventbook/internal/database"
	"eventbook/internal/external"
	"eventbook/internal/messaging"
	"eventbook/internal/search"
)

// Config holds the full application configuration, loaded from environment
// variables with sensible local-development defaults.
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// Base URL of the frontend; the payment gateway redirects back here.
	ClientURL string

	Database      database.Config
	Redis         cache.Config
	NATS          messaging.Config
	Elasticsearch search.Config
	PayPal        external.PayPalConfig
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		ClientURL: getEnv("CLIENT_URL", "http://localhost:3000"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "eventbook"),
			Password:           getEnv("DB_PASSWORD", "eventbook123"),
			DBName:             getEnv("DB_NAME", "eventbook"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Redis: cache.Config{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			EventsTTL: time.Duration(
				getEnvInt("REDIS_EVENTS_TTL_SEC", 30)) * time.Second,
			TokensTTL: time.Duration(
				getEnvInt("REDIS_TOKENS_TTL_SEC", 300)) * time.Second,
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "eventbook"),
			ClientID:  getEnv("NATS_CLIENT_ID", "eventbook-api"),
		},

		Elasticsearch: search.Config{
			Enabled:    getEnv("ELASTICSEARCH_ENABLED", "false") == "true",
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Index:      getEnv("ELASTICSEARCH_INDEX", "events"),
			Username:   os.Getenv("ELASTICSEARCH_USERNAME"),
			Password:   os.Getenv("ELASTICSEARCH_PASSWORD"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		PayPal: external.PayPalConfig{
			BaseURL:      getEnv("PAYPAL_BASE_URL", paypalBaseURL(getEnv("PAYPAL_MODE", "sandbox"))),
			ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			ClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
			Currency:     getEnv("PAYPAL_CURRENCY", "USD"),
			BrandName:    getEnv("PAYPAL_BRAND_NAME", "Event Booking System"),
			Timeout:      time.Duration(getEnvInt("PAYPAL_TIMEOUT_SEC", 30)) * time.Second,
		},
	}
}

func paypalBaseURL(mode string) string {
	if mode == "live" {
		return "https://api-m.paypal.com"
	}
	return "https://api-m.sandbox.paypal.com"
}

// getEnv returns the value of an environment variable or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
