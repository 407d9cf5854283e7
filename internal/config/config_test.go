package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def, cfg)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.Equal(t, 0, cfg.UTCOffsetMinutes)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
database_path: /tmp/tally-test.db
log_level: debug
log_format: json
utc_offset_minutes: 120
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tally-test.db", cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 120, cfg.UTCOffsetMinutes)
	assert.Equal(t, "EUR", cfg.DefaultCurrency, "unset keys keep their default")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log_level: debug\nutc_offset_minutes: 60\n")
	t.Setenv("TALLY_DB", "/tmp/env.db")
	t.Setenv("TALLY_LOG_LEVEL", "error")
	t.Setenv("TALLY_UTC_OFFSET", "-300")
	t.Setenv("TALLY_CURRENCY", "usd")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DatabasePath)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, -300, cfg.UTCOffsetMinutes)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
}

func TestLoad_InvalidOffsetEnvIgnored(t *testing.T) {
	t.Setenv("TALLY_UTC_OFFSET", "two hours")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.UTCOffsetMinutes)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed yaml", "log_level: [", "parsing config"},
		{"bad level", "log_level: loud", "log_level: invalid value"},
		{"bad format", "log_format: xml", "log_format: invalid value"},
		{"offset out of range", "utc_offset_minutes: 900", "outside -840..840"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestPath_HonoursEnv(t *testing.T) {
	t.Setenv("TALLY_CONFIG", "/etc/tally.yaml")
	assert.Equal(t, "/etc/tally.yaml", Path())
}
