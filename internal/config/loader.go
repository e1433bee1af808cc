package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables that steer loading.
const (
	EnvPrefix = "CAMPUSBITES_"
	EnvConfig = EnvPrefix + "CONFIG"
	EnvDotenv = EnvPrefix + "DOTENV"

	defaultDotenv = ".env"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CAMPUSBITES_CONFIG is set
//  3. env (prefix CAMPUSBITES_), after a dotenv file has been merged into
//     the process environment without overriding it
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	// CAMPUSBITES_CACHE_PATH -> cache_path (flat keys, underscores kept).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotenv merges the dotenv file into the environment. A missing file
// is not an error.
func loadDotenv() error {
	path := os.Getenv(EnvDotenv)
	if path == "" {
		path = defaultDotenv
	}
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, path, err)
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.CachePath == "" {
		return fmt.Errorf("%w: cache_path must not be empty", ErrInvalidConfig)
	}
	if c.ParksPerVenue < 0 || c.ParksPerVenue > 3 {
		return fmt.Errorf("%w: parks_per_venue must be between 0 and 3", ErrInvalidConfig)
	}
	if c.RequestTimeoutMS <= 0 {
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.MetricsRefreshMS <= 0 {
		return fmt.Errorf("%w: metrics_refresh_ms must be positive", ErrInvalidConfig)
	}
	return nil
}

// ValidateIngest checks the fields the ingestion tool needs on top of Validate.
func (c *Config) ValidateIngest() error {
	if c.YelpAPIKey == "" {
		return fmt.Errorf("%w: yelp_api_key must not be empty", ErrInvalidConfig)
	}
	if c.PlacesAPIKey == "" {
		return fmt.Errorf("%w: places_api_key must not be empty", ErrInvalidConfig)
	}
	return nil
}
