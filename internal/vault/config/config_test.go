package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	want := &Config{
		DatabaseDriver:               "sqlite",
		DatabaseDSN:                  DefaultDSN,
		AccessTokenValidityDuration:  12 * time.Hour,
		RefreshTokenValidityDuration: 168 * time.Hour,
		BcryptCost:                   bcrypt.DefaultCost,
		MaxInFlight:                  64,
		LogLevel:                     "info",
	}
	assert.Empty(t, cmp.Diff(want, defaults()))
}

func TestParseJson(t *testing.T) {
	path := writeFile(t, "vault.json", `{
		"database_driver": "postgres",
		"database_dsn": "postgres://localhost/vault",
		"secret_key": "from-json",
		"retired_secret_keys": ["old"],
		"access_token_validity_duration": "30m",
		"refresh_token_validity_duration": 7200000000000,
		"max_in_flight": 8
	}`)

	cfg := defaults()
	require.NoError(t, parseJson(cfg, []string{"-config", path}))

	want := defaults()
	want.DatabaseDriver = "postgres"
	want.DatabaseDSN = "postgres://localhost/vault"
	want.SecretKey = "from-json"
	want.RetiredSecretKeys = []string{"old"}
	want.AccessTokenValidityDuration = 30 * time.Minute
	want.RefreshTokenValidityDuration = 2 * time.Hour
	want.MaxInFlight = 8
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseJson_Errors(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseJson(cfg, nil))

	assert.Error(t, parseJson(cfg, []string{"-c", filepath.Join(t.TempDir(), "missing.json")}))
	assert.Error(t, parseJson(cfg, []string{"-c", writeFile(t, "bad.json", "{")}))
}

func TestParseEnv_DotenvYieldsToEnvironment(t *testing.T) {
	dotenv := writeFile(t, ".env", "VAULT_SECRET_KEY=from-file\nVAULT_LOG_LEVEL=debug\nVAULT_RETIRED_SECRET_KEYS=a,b\n")
	t.Setenv("VAULT_LOG_LEVEL", "warn")
	t.Setenv("VAULT_ACCESS_TOKEN_TTL", "1h")

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, dotenv))

	assert.Equal(t, "from-file", cfg.SecretKey)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"a", "b"}, cfg.RetiredSecretKeys)
	assert.Equal(t, time.Hour, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenValidityDuration)

	_, set := os.LookupEnv("VAULT_SECRET_KEY")
	assert.False(t, set)
}

func TestParseEnv_MissingDotenv(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseEnv(cfg, filepath.Join(t.TempDir(), ".env")))
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(c *Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-b", "postgres", "-d", "db", "-s", "secret", "-t", "5", "-r", "60", "-k", "4", "-m", "2", "-l", "debug"},
			want: func(c *Config) {
				c.DatabaseDriver = "postgres"
				c.DatabaseDSN = "db"
				c.SecretKey = "secret"
				c.AccessTokenValidityDuration = 5 * time.Minute
				c.RefreshTokenValidityDuration = time.Hour
				c.BcryptCost = 4
				c.MaxInFlight = 2
				c.LogLevel = "debug"
			},
		},
		{
			name: "unknown flags are ignored",
			args: []string{"-config", "x.json", "-z", "1", "-s", "secret"},
			want: func(c *Config) { c.SecretKey = "secret" },
		},
		{
			name:    "bad number",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(want)
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"no secret", func(c *Config) { c.SecretKey = "" }, false},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, false},
		{"empty dsn", func(c *Config) { c.DatabaseDSN = "" }, false},
		{"access not shorter", func(c *Config) { c.AccessTokenValidityDuration = c.RefreshTokenValidityDuration }, false},
		{"zero lifetime", func(c *Config) { c.AccessTokenValidityDuration = 0 }, false},
		{"cost too low", func(c *Config) { c.BcryptCost = 1 }, false},
		{"no in flight", func(c *Config) { c.MaxInFlight = 0 }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			cfg.SecretKey = "secret"
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestLoadConfig_Layering(t *testing.T) {
	path := writeFile(t, "vault.json", `{"secret_key": "from-json", "log_level": "debug"}`)
	t.Setenv("VAULT_LOG_LEVEL", "warn")

	cfg, err := LoadConfig([]string{"-c", path, "-m", "3"}, "")
	require.NoError(t, err)

	assert.Equal(t, "from-json", cfg.SecretKey)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3, cfg.MaxInFlight)
	assert.Equal(t, "sqlite", string(cfg.Dialect()))

	_, err = LoadConfig(nil, "")
	assert.ErrorContains(t, err, "secret key is required")
}
