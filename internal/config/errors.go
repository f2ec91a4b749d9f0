package config

import "errors"

// Sentinel errors returned by Load and Validate.
var (
	// ErrInvalidConfig marks a setting that cannot be used.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a provider (file or env) that could not be read.
	ErrLoadConfig = errors.New("load config failed")
)
