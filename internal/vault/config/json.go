package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sabry-awad97/snippet-vault/internal/flagx"
	"github.com/sabry-awad97/snippet-vault/internal/timex"
)

// JsonConfig is the file form of Config. Durations accept "12h" strings or
// integer nanoseconds. Absent keys leave the current value alone.
type JsonConfig struct {
	DatabaseDriver               *string         `json:"database_driver"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	RetiredSecretKeys            []string        `json:"retired_secret_keys"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   *int            `json:"bcrypt_cost"`
	MaxInFlight                  *int            `json:"max_in_flight"`
	LogLevel                     *string         `json:"log_level"`
}

// parseJson overlays the file given with -c or -config. Without either flag
// nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setIf(&config.DatabaseDriver, c.DatabaseDriver)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	if c.RetiredSecretKeys != nil {
		config.RetiredSecretKeys = c.RetiredSecretKeys
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.MaxInFlight, c.MaxInFlight)
	setIf(&config.LogLevel, c.LogLevel)
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
