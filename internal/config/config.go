// Package config loads runtime configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration for the papertrade server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Chat     ChatConfig
	Scenario ScenarioConfig
	LogLevel string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	AdminKey        string // guards /admin and /sessions endpoints when set
	MetricsEnabled  bool
}

// DatabaseConfig holds the store connection string.
// URLs starting with postgres:// (or a key=value DSN) select the Postgres
// driver; anything else is treated as a SQLite path.
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds JWT and account settings.
type AuthConfig struct {
	Secret         string
	TokenTTL       time.Duration
	InitialBalance float64
}

// RedisConfig holds the optional session/cache backend address.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds the optional tick pipeline settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ChatConfig holds the LLM relay upstream settings.
type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// ScenarioConfig selects the startup scenario and data directories.
type ScenarioConfig struct {
	ID           string
	ScenariosDir string
	DataDir      string
}

// Load reads configuration from the environment, loading .env first if present.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("No .env file found, using system environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port:            envOr("PORT", "8080"),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			AdminKey:        os.Getenv("ADMIN_KEY"),
			MetricsEnabled:  envBool("METRICS_ENABLED", true),
		},
		Database: DatabaseConfig{
			URL: envOr("DATABASE_URL", "papertrade.db"),
		},
		Auth: AuthConfig{
			Secret:         envOr("SECRET_KEY", "your-secret-key-change-in-production"),
			TokenTTL:       envDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
			InitialBalance: envFloat("INITIAL_BALANCE", 10000.00),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_TOPIC", "market_ticks"),
		},
		Chat: ChatConfig{
			BaseURL: os.Getenv("CHAT_BASE_URL"),
			APIKey:  os.Getenv("CHAT_API_KEY"),
			Model:   envOr("CHAT_MODEL", "gpt-4o-mini"),
		},
		Scenario: ScenarioConfig{
			ID:           envOr("SCENARIO", "default"),
			ScenariosDir: envOr("SCENARIOS_DIR", "scenarios"),
			DataDir:      envOr("DATA_DIR", "data"),
		},
		LogLevel: envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", v)
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("Invalid float in environment, using default", "key", key, "value", v)
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", v)
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
