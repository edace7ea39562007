package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-sim-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearPostgresSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_PASSWORD", "")
	t.Setenv("APP_POSTGRES_DB", "")
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	// Minimal YAML; secrets come from ENV
	yaml := `
app:
  name: football-sim-service
  version: 0.1.0
  env: test
  port: 18080

logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5
  min_conns: 1

engine:
  seed: 2024
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, config.DriverPostgres, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.AutoMigrate)
	assert.Equal(t, uint64(2024), cfg.Engine.Seed)
	assert.Equal(t, "rfc3339", cfg.Logger.TimeFormat)
}

func TestConfigLoad_MissingRequiredEnvFails(t *testing.T) {
	yaml := `
app:
  name: abc
  env: test
  port: 18080

postgres:
  host: localhost
  port: 5432
`
	path := writeTempConfig(t, yaml)
	clearPostgresSecrets(t)

	_, err := config.Load(path)
	assert.ErrorIs(t, err, config.ErrMissingPostgresCredentials)
}

func TestConfigLoad_SQLiteNeedsNoCredentials(t *testing.T) {
	yaml := `
app:
  env: dev
storage:
  driver: sqlite
  sqlite_path: ":memory:"
`
	path := writeTempConfig(t, yaml)
	clearPostgresSecrets(t)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, ":memory:", cfg.Storage.SQLitePath)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Zero(t, cfg.Engine.Seed)
}

func TestConfigLoad_EnvOverridesSeed(t *testing.T) {
	path := writeTempConfig(t, "storage:\n  driver: sqlite\n  sqlite_path: sim.db\n")
	clearPostgresSecrets(t)
	t.Setenv("APP_ENGINE_SEED", "99")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cfg.Engine.Seed)
}

func TestConfigLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown driver", "storage:\n  driver: mongo\n"},
		{"sqlite without path", "storage:\n  driver: sqlite\n"},
		{"bad env", "app:\n  env: qa\nstorage:\n  driver: sqlite\n  sqlite_path: x.db\n"},
		{"port out of range", "app:\n  port: 70000\nstorage:\n  driver: sqlite\n  sqlite_path: x.db\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearPostgresSecrets(t)
			_, err := config.Load(writeTempConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestConfigLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
