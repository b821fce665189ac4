package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Политики слияния снимков в наблюдателе
const (
	ReconcileOverlay   = "overlay"
	ReconcileVersioned = "versioned"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	HTTPPort  string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Пустой DATABASE_URL включает хранилище в памяти
	DatabaseURL      string        `env:"DATABASE_URL"`
	DBMaxConns       int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMaxIdleTime    time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"5m"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`

	// Redis Config
	RedisEnabled bool          `env:"REDIS_ENABLED" envDefault:"true"`
	RedisAddr    string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass    string        `env:"REDIS_PASSWORD"`
	RedisDB      int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// External classifier
	AIAPIKey  string        `env:"AI_API_KEY"`
	AIModel   string        `env:"AI_MODEL" envDefault:"gemini-1.5-flash"`
	AIBaseURL string        `env:"AI_BASE_URL"`
	AITimeout time.Duration `env:"AI_TIMEOUT" envDefault:"4s"`

	// Dispatch
	ETATickInterval          time.Duration `env:"ETA_TICK_INTERVAL" envDefault:"1s"`
	ETAStep                  float64       `env:"ETA_STEP" envDefault:"0.15"`
	IncidentListDefaultLimit int           `env:"INCIDENT_LIST_DEFAULT_LIMIT" envDefault:"30"`

	// Observer
	ObserverRole    string        `env:"OBSERVER_ROLE" envDefault:"ops"`
	ObserverBaseURL string        `env:"OBSERVER_BASE_URL" envDefault:"http://localhost:8080/api/v1"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"3s"`
	ReconcilePolicy string        `env:"RECONCILE_POLICY" envDefault:"overlay"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		HTTPPort:                 getEnv("HTTP_PORT", "8080"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		LogFormat:                getEnv("LOG_FORMAT", "json"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		DBMaxConns:               getEnvAsInt("DB_MAX_CONNS", 10),
		DBMaxIdleTime:            getEnvAsDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
		DBConnectTimeout:         getEnvAsDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		RedisEnabled:             getEnvAsBool("REDIS_ENABLED", true),
		RedisAddr:                getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:                os.Getenv("REDIS_PASSWORD"),
		RedisDB:                  getEnvAsInt("REDIS_DB", 0),
		CacheTTL:                 getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		WebhookURL:               os.Getenv("WEBHOOK_URL"),
		WebhookSecret:            os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:           getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:        getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:         getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		AIAPIKey:                 os.Getenv("AI_API_KEY"),
		AIModel:                  getEnv("AI_MODEL", "gemini-1.5-flash"),
		AIBaseURL:                os.Getenv("AI_BASE_URL"),
		AITimeout:                getEnvAsDuration("AI_TIMEOUT", 4*time.Second),
		ETATickInterval:          getEnvAsDuration("ETA_TICK_INTERVAL", time.Second),
		ETAStep:                  getEnvAsFloat("ETA_STEP", 0.15),
		IncidentListDefaultLimit: getEnvAsInt("INCIDENT_LIST_DEFAULT_LIMIT", 30),
		ObserverRole:             getEnv("OBSERVER_ROLE", "ops"),
		ObserverBaseURL:          getEnv("OBSERVER_BASE_URL", "http://localhost:8080/api/v1"),
		PollInterval:             getEnvAsDuration("POLL_INTERVAL", 3*time.Second),
		ReconcilePolicy:          strings.ToLower(getEnv("RECONCILE_POLICY", ReconcileOverlay)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, без которых сервис работать не может
func (c *Config) Validate() error {
	if c.ETAStep <= 0 {
		return fmt.Errorf("ETA_STEP must be positive, got %v", c.ETAStep)
	}
	if c.ETATickInterval < time.Second {
		return fmt.Errorf("ETA_TICK_INTERVAL must be at least 1s, got %v", c.ETATickInterval)
	}
	if c.IncidentListDefaultLimit < 1 {
		return fmt.Errorf("INCIDENT_LIST_DEFAULT_LIMIT must be positive, got %d", c.IncidentListDefaultLimit)
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	if c.ReconcilePolicy != ReconcileOverlay && c.ReconcilePolicy != ReconcileVersioned {
		return fmt.Errorf("unknown RECONCILE_POLICY %q", c.ReconcilePolicy)
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
