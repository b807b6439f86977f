package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	JSONDir string `envconfig:"SCL_JSON_DIR" default:"./Json"`
	Port int `envconfig:"SCL_PORT" default:"8080"`
	LogLevel string `envconfig:"SCL_LOG_LEVEL" default:"info"`
	LogDir string `envconfig:"SCL_LOG_DIR" default:"./logs"`
	Network string `envconfig:"SCL_NETWORK" default:"mainnet"`

	EsploraURL string `envconfig:"SCL_ESPLORA_URL" default:"https://blockstream.info/api"`

	RelayKey string `envconfig:"SCL_RELAY_KEY"`
	RelayHosts string `envconfig:"SCL_RELAY_HOSTS"`
	MyIP string `envconfig:"SCL_MY_IP"`

	SweepIntervalMS int `envconfig:"SCL_SWEEP_INTERVAL_MS" default:"4000"`
}

// Load reads configuration from .env file (if present) then from environment variables.
// Environment variables override .env values.
func Load() (*Config, error) {
	// Load .env file if it exists. godotenv does NOT override already-set env vars,
	// so real environment variables take precedence over .env values.
	envFiles := []string{".env"}
	for _, f := range envFiles {
 if _, err := os.Stat(f); err == nil {
 if err := godotenv.Load(f); err != nil {
 slog.Warn("failed to load .env file", "file", f, "error", err)
 } else {
 slog.Info("loaded .env file", "file", f)
 }
 }
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
 return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
 return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.Network != "mainnet" && c.Network != "testnet" {
 return fmt.Errorf("%w: network must be \"mainnet\" or \"testnet\", got %q", ErrInvalidConfig, c.Network)
	}
	if c.Port < 1 || c.Port > 65535 {
 return fmt.Errorf("%w: port must be 1-65535, got %d", ErrInvalidConfig, c.Port)
	}
	if c.JSONDir == "" {
 return fmt.Errorf("%w: json dir must not be empty", ErrInvalidConfig)
	}
	return nil
}
