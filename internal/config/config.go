package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Log      LogConfig
	S3       S3Config
	Sentry   SentryConfig
	Travel   TravelConfig
	Circuit  CircuitConfig
	Queue    QueueConfig
	Webhook  WebhookConfig
	Match    MatchConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig holds the bearer-token guard configuration
type AuthConfig struct {
	Secret string
	Expiry time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// S3Config holds S3 storage configuration (C10 blob tier)
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// SentryConfig holds error-reporting configuration
type SentryConfig struct {
	DSN         string
	Environment string
}

// TravelConfig holds Travel-Time Provider (C2) configuration
type TravelConfig struct {
	Mode        string // "real", "simulated", "hybrid"
	APIBaseURL  string
	APIKey      string
	CacheTTL    time.Duration
	CacheMaxLen int
	Timeout     time.Duration
	Concurrency int
}

// CircuitConfig holds the circuit breaker (C8) configuration
type CircuitConfig struct {
	FailMax    int
	ResetAfter time.Duration
	MaxRetries int
}

// QueueConfig holds the job queue (C9) configuration
type QueueConfig struct {
	JobTimeout  time.Duration
	ResultTTL   time.Duration
	MaxRetries  int
	WorkerCount int
}

// WebhookConfig holds webhook delivery configuration
type WebhookConfig struct {
	MaxRetries int
	Timeout    time.Duration
	Secret     string
}

// MatchConfig holds Match Orchestrator (C7) defaults
type MatchConfig struct {
	DefaultMinScore          float64
	DefaultLimit             int
	LimitCap                 int
	LargeResultThresholdByte int
	ComparisonVariants       []string
	RulesPath                string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "jobmatch"),
			Password:        getEnv("DB_PASSWORD", "jobmatch"),
			DBName:          getEnv("DB_NAME", "jobmatch"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Secret: getEnv("AUTH_SECRET", ""),
			Expiry: getEnvAsDuration("AUTH_TOKEN_EXPIRY", 24*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "eu-central"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Environment: getEnv("SERVER_ENV", "development"),
		},
		Travel: TravelConfig{
			Mode:        getEnv("TRAVEL_PROVIDER_MODE", "hybrid"),
			APIBaseURL:  getEnv("TRAVEL_API_BASE_URL", ""),
			APIKey:      getEnv("TRAVEL_API_KEY", ""),
			CacheTTL:    getEnvAsDuration("TRAVEL_CACHE_TTL", 3600*time.Second),
			CacheMaxLen: getEnvAsInt("TRAVEL_CACHE_MAX_LEN", 5000),
			Timeout:     getEnvAsDuration("TRAVEL_TIMEOUT", 5*time.Second),
			Concurrency: getEnvAsInt("TRAVEL_CONCURRENCY", 16),
		},
		Circuit: CircuitConfig{
			FailMax:    getEnvAsInt("CIRCUIT_FAIL_MAX", 5),
			ResetAfter: getEnvAsDuration("CIRCUIT_RESET_S", 30*time.Second),
			MaxRetries: getEnvAsInt("MAX_RETRIES", 3),
		},
		Queue: QueueConfig{
			JobTimeout:  getEnvAsDuration("QUEUE_JOB_TIMEOUT_S", 3600*time.Second),
			ResultTTL:   getEnvAsDuration("QUEUE_RESULT_TTL_S", 86400*time.Second),
			MaxRetries:  getEnvAsInt("QUEUE_MAX_RETRIES", 3),
			WorkerCount: getEnvAsInt("QUEUE_WORKER_COUNT", 8),
		},
		Webhook: WebhookConfig{
			MaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
			Timeout:    getEnvAsDuration("WEBHOOK_TIMEOUT_S", 10*time.Second),
			Secret:     getEnv("WEBHOOK_SECRET", ""),
		},
		Match: MatchConfig{
			DefaultMinScore:          getEnvAsFloat("DEFAULT_MIN_SCORE", 0.6),
			DefaultLimit:             getEnvAsInt("DEFAULT_LIMIT", 10),
			LimitCap:                 getEnvAsInt("LIMIT_CAP", 50),
			LargeResultThresholdByte: getEnvAsInt("LARGE_RESULT_THRESHOLD_BYTES", 102400),
			ComparisonVariants:       getEnvAsList("COMPARISON_VARIANTS", []string{"enhanced", "geo", "comprehensive"}),
			RulesPath:                getEnv("MATCH_RULES_PATH", "internal/matching/scoring/rules.yaml"),
		},
	}

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
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

// Addr returns the Redis address
func (c *RedisConfig) Addr() string {
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
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
