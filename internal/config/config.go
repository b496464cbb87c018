package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64

	// Model artifacts.
	ModelPath        string
	ModelFormat      string
	PreprocessorPath string
	InferenceThreads int

	// Prediction event stream. Disabled when KafkaBrokers is empty.
	KafkaBrokers          []string
	KafkaPredictionsTopic string
}

// KafkaEnabled reports whether prediction events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first if present; real
// environment variables take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	threads, err := parsePositiveInt("INFERENCE_THREADS", 1)
	if err != nil {
		return nil, err
	}

	maxUpload, err := parsePositiveInt("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		MaxUploadBytes:  int64(maxUpload),

		ModelPath:        sharedcfg.EnvOrDefault("MODEL_PATH", "champion_xgboost.model"),
		ModelFormat:      sharedcfg.EnvOrDefault("MODEL_FORMAT", "xgboost"),
		PreprocessorPath: sharedcfg.EnvOrDefault("PREPROCESSOR_PATH", "spatial_preprocessor.json"),
		InferenceThreads: threads,

		KafkaBrokers:          brokers,
		KafkaPredictionsTopic: sharedcfg.EnvOrDefault("KAFKA_PREDICTIONS_TOPIC", "forest-cover-predictions"),
	}

	if cfg.ModelFormat != "xgboost" && cfg.ModelFormat != "lightgbm" {
		return nil, fmt.Errorf("invalid MODEL_FORMAT %q: want xgboost or lightgbm", cfg.ModelFormat)
	}
	if cfg.KafkaEnabled() && cfg.KafkaPredictionsTopic == "" {
		return nil, errors.New("KAFKA_PREDICTIONS_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, s)
	}
	return n, nil
}
