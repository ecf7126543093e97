package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "daylog.db", cfg.Database.DSN)
	assert.Equal(t, 10, cfg.Database.MaxIdle)
	assert.Equal(t, 20, cfg.Database.MaxOpen)
	assert.Empty(t, cfg.Cache.RedisURL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DAYLOG_ENV", "prod")
	t.Setenv("DAYLOG_DB_DRIVER", "pgx")
	t.Setenv("DAYLOG_DB_DSN", "postgres://u:p@db:5432/daylog")
	t.Setenv("DAYLOG_REDIS_URL", "redis://cache:6379/0")
	t.Setenv("DAYLOG_CACHE_TTL", "90s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/daylog", cfg.Database.DSN)
	assert.Equal(t, "redis://cache:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
}

func TestLoadPostgresFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DAYLOG_DB_DRIVER", "pgx")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "daylog")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "daylog")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=daylog password=secret dbname=daylog sslmode=disable", cfg.Database.DSN)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DAYLOG_DB_DSN=from-file.db\nDAYLOG_ENV=test\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("DAYLOG_DB_DSN")
		_ = os.Unsetenv("DAYLOG_ENV")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.Database.DSN)
	assert.Equal(t, "test", cfg.Env)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad env", env: map[string]string{"DAYLOG_ENV": "staging"}},
		{name: "bad driver", env: map[string]string{"DAYLOG_DB_DRIVER": "mysql"}},
		{name: "pgx without dsn", env: map[string]string{"DAYLOG_DB_DRIVER": "pgx"}},
		{name: "zero max open", env: map[string]string{"DAYLOG_DB_MAX_OPEN": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
		})
	}
}
