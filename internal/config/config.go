// Package config loads server configuration from an optional YAML file
// with environment-variable overrides. All deployment switches, including
// the identity-provider selection, are explicit values here.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ProviderLocal selects the built-in identity provider backed by the
// application's own store. A managed-service adapter would register its
// own name here.
const ProviderLocal = "local"

// Config holds all server configuration.
type Config struct {
	Addr         string `yaml:"addr"`
	DatabasePath string `yaml:"database_path"`
	Auth         Auth   `yaml:"auth"`
}

// Auth holds identity-provider configuration.
type Auth struct {
	Provider   string `yaml:"provider"`
	JWTSecret  string `yaml:"jwt_secret"`
	BcryptCost int    `yaml:"bcrypt_cost"`
}

// Default returns the baseline configuration before file and environment
// overrides.
func Default() *Config {
	return &Config{
		Addr:         ":8080",
		DatabasePath: "taskdeck.db",
		Auth: Auth{
			Provider:   ProviderLocal,
			BcryptCost: 12,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in that order of precedence. An empty path skips
// the file step.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("AUTH_PROVIDER"); v != "" {
		cfg.Auth.Provider = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		cfg.Auth.BcryptCost = cost
	}

	return cfg, nil
}

// Validate checks the configuration is complete enough to serve requests.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.DatabasePath == "" {
		return errors.New("database path is required")
	}
	if c.Auth.Provider != ProviderLocal {
		return fmt.Errorf("unknown auth provider %q", c.Auth.Provider)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT secret is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("JWT secret must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost must be between 4 and 14, got %d", c.Auth.BcryptCost)
	}
	return nil
}
