package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	Database DatabaseConfig
	RedisURL string
	JWT      JWTConfig
	Kafka    KafkaConfig

	// Base URL of the web frontend, used to build password-reset links.
	FrontendURL string

	// When set, a parent requesting a specific child's dashboard must own
	// that child. Off by default to match the legacy behavior.
	StrictChildOwnership bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type KafkaConfig struct {
	// Empty means events stay on the in-process bus.
	Brokers []string
}

// LoadConfig reads configuration from the environment. A .env file is
// loaded when present; real environment variables win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	jwtHours, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "school"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		RedisURL: getEnv("REDIS_URL", ""),
		JWT: JWTConfig{
			Secret:     jwtSecret,
			Issuer:     getEnv("JWT_ISSUER", "school-service"),
			Expiration: time.Duration(jwtHours) * time.Hour,
		},
		Kafka:                KafkaConfig{Brokers: brokers},
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:4200"),
		StrictChildOwnership: getEnv("STRICT_CHILD_OWNERSHIP", "false") == "true",
	}, nil
}

// DSN builds the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
