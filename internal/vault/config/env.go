package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv overlays VAULT_* variables. Values from dotenvPath are used only
// where the process environment does not set the same key; the process
// environment itself is not modified.
func parseEnv(config *Config, dotenvPath string) error {
	vars := map[string]string{}

	if dotenvPath != "" {
		fileVars, err := godotenv.Read(dotenvPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("config: read %s: %w", dotenvPath, err)
		default:
			vars = fileVars
		}
	}

	for k, v := range env.ToMap(os.Environ()) {
		vars[k] = v
	}

	if err := env.ParseWithOptions(config, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}
