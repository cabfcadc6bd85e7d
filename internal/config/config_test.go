package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, key := range []string{"TELEGRAM_TOKEN", "DB_DSN", "ENV", "STORAGE", "TIMEZONE", "MIGRATIONS", "ADMIN_TELEGRAM_ID"} {
		t.Setenv(key, vars[key])
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"TELEGRAM_TOKEN": "token",
		"DB_DSN":         "postgres://localhost/schedulr",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.True(t, cfg.RunMigrations)
	assert.Zero(t, cfg.AdminTelegramID)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MemoryStorage(t *testing.T) {
	setEnv(t, map[string]string{
		"TELEGRAM_TOKEN":    "token",
		"STORAGE":           "Memory",
		"TIMEZONE":          "Europe/Berlin",
		"MIGRATIONS":        "false",
		"ADMIN_TELEGRAM_ID": "42",
		"ENV":               "production",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Empty(t, cfg.DBDSN)
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.False(t, cfg.RunMigrations)
	assert.EqualValues(t, 42, cfg.AdminTelegramID)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"missing dsn", map[string]string{"TELEGRAM_TOKEN": "token"}, "DB_DSN"},
		{"missing token", map[string]string{"STORAGE": "memory"}, "TELEGRAM_TOKEN"},
		{"unknown storage", map[string]string{"TELEGRAM_TOKEN": "token", "STORAGE": "redis"}, "STORAGE"},
		{"bad timezone", map[string]string{"TELEGRAM_TOKEN": "token", "STORAGE": "memory", "TIMEZONE": "Mars/Olympus"}, "TIMEZONE"},
		{"bad migrations flag", map[string]string{"TELEGRAM_TOKEN": "token", "STORAGE": "memory", "MIGRATIONS": "sometimes"}, "MIGRATIONS"},
		{"bad admin id", map[string]string{"TELEGRAM_TOKEN": "token", "STORAGE": "memory", "ADMIN_TELEGRAM_ID": "alice"}, "ADMIN_TELEGRAM_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.vars)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
