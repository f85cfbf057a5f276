package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	BackendMQTT  = "mqtt"
	BackendRedis = "redis"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8786"`

	FeedBackend string `env:"FEED_BACKEND" default:"mqtt"`
	BrokerURL   string `env:"BROKER_URL" default:"tcp://localhost:1883"`
	RedisURL    string `env:"REDIS_URL" default:"redis://localhost:6379"`
	FeedTopic   string `env:"FEED_TOPIC" default:"health_metrics"`

	WindowCapacity int `env:"WINDOW_CAPACITY" default:"60"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	MaxConnections       int     `env:"MAX_CONNECTIONS" default:"10000"`
	MaxConnectionsPerIP  int     `env:"MAX_CONNECTIONS_PER_IP" default:"50"`
	ConnectRatePerSecond float64 `env:"CONNECT_RATE_PER_SECOND" default:"10"`
	ConnectBurst         int     `env:"CONNECT_BURST" default:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.FeedBackend {
	case BackendMQTT, BackendRedis:
	default:
		return fmt.Errorf("FEED_BACKEND must be %q or %q, got %q", BackendMQTT, BackendRedis, cfg.FeedBackend)
	}

	if cfg.FeedTopic == "" {
		return fmt.Errorf("FEED_TOPIC is required")
	}

	if cfg.WindowCapacity < 1 {
		return fmt.Errorf("WINDOW_CAPACITY must be at least 1, got %d", cfg.WindowCapacity)
	}

	if cfg.MaxConnections < 1 {
		return fmt.Errorf("MAX_CONNECTIONS must be at least 1, got %d", cfg.MaxConnections)
	}

	return nil
}
