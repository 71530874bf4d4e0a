// Package config handles configuration for the vault backend: defaults, an
// optional JSON file, a .env file with the process environment, and finally
// command-line flags. Each layer overrides the one before it.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

const DefaultDSN = "file:snippet-vault.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Config holds runtime settings for the vault backend.
//
// Fields:
//   - DatabaseDriver: "sqlite" or "postgres".
//   - DatabaseDSN: driver-specific data source name.
//   - SecretKey: HMAC secret for signing tokens (HS256). Required.
//   - RetiredSecretKeys: older secrets still accepted for verification.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - BcryptCost: cost for new password hashes.
//   - MaxInFlight: commands served concurrently by the bridge.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DatabaseDriver               string        `env:"VAULT_DATABASE_DRIVER"`
	DatabaseDSN                  string        `env:"VAULT_DATABASE_DSN"`
	SecretKey                    string        `env:"VAULT_SECRET_KEY"`
	RetiredSecretKeys            []string      `env:"VAULT_RETIRED_SECRET_KEYS" envSeparator:","`
	AccessTokenValidityDuration  time.Duration `env:"VAULT_ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"VAULT_REFRESH_TOKEN_TTL"`
	BcryptCost                   int           `env:"VAULT_BCRYPT_COST"`
	MaxInFlight                  int           `env:"VAULT_MAX_IN_FLIGHT"`
	LogLevel                     string        `env:"VAULT_LOG_LEVEL"`
}

// LoadDefaults populates Config with local development defaults. SecretKey
// stays empty and must be supplied.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = string(dbx.SQLite)
	c.DatabaseDSN = DefaultDSN
	c.SecretKey = ""
	c.RetiredSecretKeys = nil
	c.AccessTokenValidityDuration = 12 * time.Hour
	c.RefreshTokenValidityDuration = 168 * time.Hour
	c.BcryptCost = bcrypt.DefaultCost
	c.MaxInFlight = 64
	c.LogLevel = "info"
}

// LoadConfig builds a validated Config from defaults, the JSON file named by
// -c/-config, dotenvPath (skipped when missing), the environment and flags.
func LoadConfig(args []string, dotenvPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, dotenvPath); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting the backend cannot start with.
func (c *Config) Validate() error {
	if _, err := dbx.ParseDialect(c.DatabaseDriver); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.DatabaseDSN == "" {
		return errors.New("config: database DSN is empty")
	}
	if c.SecretKey == "" {
		return errors.New("config: secret key is required")
	}
	if c.AccessTokenValidityDuration <= 0 || c.RefreshTokenValidityDuration <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	if c.AccessTokenValidityDuration >= c.RefreshTokenValidityDuration {
		return errors.New("config: access token lifetime must be shorter than refresh token lifetime")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.MaxInFlight < 1 {
		return errors.New("config: max in flight must be at least 1")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Dialect is the parsed DatabaseDriver. Call it after Validate.
func (c *Config) Dialect() dbx.Dialect {
	d, _ := dbx.ParseDialect(c.DatabaseDriver)
	return d
}
