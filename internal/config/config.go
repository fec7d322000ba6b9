// Package config reads settings from the environment, an optional .env file
// and command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/mauv0809/statement-glance/internal/ingest"
	"github.com/spf13/viper"
)

const (
	KeyAPIKey       = "FMP_API_KEY"
	KeyEndpoint     = "FMP_ENDPOINT"
	KeyTitle        = "REPORT_TITLE"
	KeyPort         = "PORT"
	KeyAddr         = "ADDR"
	KeyDarkMode     = "DARK_MODE"
	KeyFetchTimeout = "FETCH_TIMEOUT"
	KeyDatabaseURL  = "DATABASE_URL"
	KeyLogLevel     = "LOG_LEVEL"
)

const DefaultTitle = "Apple Inc. Income Statement"

var ErrMissingAPIKey = errors.New(KeyAPIKey + " is required")

type Config struct {
	APIKey       string        `mapstructure:"FMP_API_KEY"`
	Endpoint     string        `mapstructure:"FMP_ENDPOINT"`
	Title        string        `mapstructure:"REPORT_TITLE"`
	Port         string        `mapstructure:"PORT"`
	Addr         string        `mapstructure:"ADDR"`
	DarkMode     bool          `mapstructure:"DARK_MODE"`
	FetchTimeout time.Duration `mapstructure:"FETCH_TIMEOUT"`
	DatabaseURL  string        `mapstructure:"DATABASE_URL"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
}

// Address is the listen address. An explicit Addr wins over Port.
func (c Config) Address() string {
	if c.Addr != "" {
		return c.Addr
	}
	return ":" + c.Port
}

// New returns a viper instance with defaults and environment bindings in place.
// Callers may bind flags on it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyEndpoint, ingest.DefaultEndpoint)
	v.SetDefault(KeyTitle, DefaultTitle)
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyDarkMode, false)
	v.SetDefault(KeyFetchTimeout, 30*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	for _, key := range []string{KeyAPIKey, KeyAddr, KeyDatabaseURL} {
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()
	return v
}

// Load reads envFile into the process environment and decodes v.
// A missing .env is ignored when envFile is empty.
func Load(v *viper.Viper, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", KeyFetchTimeout, cfg.FetchTimeout)
	}
	return &cfg, nil
}
