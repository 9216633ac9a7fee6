package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
// Components receive it at construction and never read process state
// themselves.
type Config struct {
	// KMA API access.
	KMABaseURL   string
	KMAAuthKey   string
	KMAStationID string
	KMATimeout   time.Duration

	// Artifact store (S3-compatible; LocalStack and MinIO both work).
	S3Endpoint  string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3UseSSL    bool

	// Optional downstream feature publisher.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration
	PipelineInterval time.Duration
}

// Load reads configuration from the environment (and a .env file when
// present), applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load() // best effort; absence of .env is fine

	kmaTimeout, err := envDuration("KMA_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	interval, err := envDuration("PIPELINE_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	brokers := splitBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		KMABaseURL:   envOrDefault("KMA_BASE_URL", "https://apihub.kma.go.kr/api/typ01/url"),
		KMAAuthKey:   os.Getenv("KMA_AUTH_KEY"),
		KMAStationID: envOrDefault("KMA_STATION_ID", "0"),
		KMATimeout:   kmaTimeout,

		S3Endpoint:  envOrDefault("S3_ENDPOINT", "localhost:4566"),
		S3Bucket:    envOrDefault("S3_BUCKET_NAME", "weather-mlops-team-data"),
		S3AccessKey: envOrDefault("AWS_ACCESS_KEY_ID", "test"),
		S3SecretKey: envOrDefault("AWS_SECRET_ACCESS_KEY", "test"),
		S3Region:    envOrDefault("AWS_REGION", "us-east-1"),
		S3UseSSL:    os.Getenv("S3_USE_SSL") == "true",

		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "weather-feature-records"),
		KafkaEnabled: kafkaEnabled,

		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		PipelineInterval: interval,
	}

	if cfg.KMAAuthKey == "" {
		return nil, errors.New("KMA_AUTH_KEY is required")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET_NAME is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func splitBrokers(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
