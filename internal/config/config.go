// Package config loads the function configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/pricofy/lambda-warmer/internal/warmer"
)

// Config is the complete environment configuration of the function.
type Config struct {
	// FunctionName is the name fanned-out pings are sent to. The Lambda
	// runtime always sets it.
	FunctionName string `env:"AWS_LAMBDA_FUNCTION_NAME"`

	// LogLevel is the minimum zap level written to stdout.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Warmer warmer.Config
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration read from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
