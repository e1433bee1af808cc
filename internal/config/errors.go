package config

import (
	"errors"
)

// Sentinel error kinds for this package. ErrLoadConfig wraps failures to
// read a source (YAML file, dotenv file, environment); ErrInvalidConfig
// wraps values that fail Validate or ValidateIngest.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
