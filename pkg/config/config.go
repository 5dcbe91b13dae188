package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Providers ProvidersConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Twilio    TwilioConfig
	Sentry    SentryConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ServiceName     string
	ReadTimeout     int
	WriteTimeout    int
	CORSOrigins     string // Comma-separated list of allowed origins
	WebhookTimeout  int    // per-request timeout for webhook routes, seconds
	WebhookSecret   string // optional shared secret checked on webhook routes
	DefaultLanguage string // receiver fallback language
}

// ProvidersConfig holds translation provider credentials and tuning
type ProvidersConfig struct {
	GoogleAPIKey    string
	DeepLAPIKey     string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	TimeoutSeconds  int // per-provider attempt timeout
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// NATSConfig holds NATS event bus configuration
type NATSConfig struct {
	Enabled bool
	URL     string
}

// TwilioConfig holds Twilio SMS delivery configuration
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	AutoSend   bool
}

// SentryConfig holds Sentry error reporting configuration
type SentryConfig struct {
	DSN string
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			ServiceName:     serviceName,
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 10),
			CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
			WebhookTimeout:  getEnvAsInt("WEBHOOK_TIMEOUT", 30),
			WebhookSecret:   getEnv("WEBHOOK_SECRET", ""),
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		},
		Providers: ProvidersConfig{
			GoogleAPIKey:    getEnv("GOOGLE_TRANSLATE_API_KEY", ""),
			DeepLAPIKey:     getEnv("DEEPL_API_KEY", ""),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			TimeoutSeconds:  getEnvAsInt("PROVIDER_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "bablit"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		NATS: NATSConfig{
			Enabled: getEnvAsBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
			AutoSend:   getEnvAsBool("SMS_AUTO_SEND", false),
		},
		Sentry: SentryConfig{
			DSN: getEnv("SENTRY_DSN", ""),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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
