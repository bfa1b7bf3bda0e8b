package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "logging:\n  format: console\n"))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, ":8000", cfg.Server.Addr())
	assert.Equal(t, "./web", cfg.Server.StaticDir)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, AuditDriverNone, cfg.Audit.Driver)
	assert.Equal(t, 2*time.Second, cfg.Audit.Timeout())
	assert.Equal(t, "activities:audit", cfg.Audit.Stream)
	assert.Empty(t, cfg.Registry.SeedFile)
}

func TestLoadFromFile_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
  write_timeout: 5s
logging:
  level: DEBUG
registry:
  seed_file: ./activities.yaml
audit:
  driver: redis
  stream: school:audit
database:
  redis:
    address: redis:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "./activities.yaml", cfg.Registry.SeedFile)
	assert.Equal(t, AuditDriverRedis, cfg.Audit.Driver)
	assert.Equal(t, "school:audit", cfg.Audit.Stream)
	assert.Equal(t, "redis:6379", cfg.Database.Redis.Address)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Run("derived names win over file", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "7070")
		t.Setenv("LOGGING_LEVEL", "warn")
		t.Setenv("AUDIT_DRIVER", "postgres")

		cfg, err := LoadFromFile(writeConfig(t, "server:\n  port: \"9000\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, AuditDriverPostgres, cfg.Audit.Driver)
	})

	t.Run("legacy names are honoured", func(t *testing.T) {
		t.Setenv("PORT", "8181")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_NAME", "school")

		cfg, err := LoadFromFile(writeConfig(t, "logging:\n  level: info\n"))
		require.NoError(t, err)
		assert.Equal(t, "8181", cfg.Server.Port)
		assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
		assert.Equal(t, "school", cfg.Database.Postgres.DBName)
		assert.Contains(t, cfg.Database.Postgres.DSN(), "host=db.internal")
		assert.Contains(t, cfg.Database.Postgres.DSN(), "dbname=school")
	})
}

func TestLoadFromFile_LegacyEnvNames(t *testing.T) {
	for key, env := range legacyEnv {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, "legacy-"+env)

			v := newViper()
			assert.Equal(t, "legacy-"+env, v.GetString(key))
		})
	}

	t.Run("derived name wins over legacy name", func(t *testing.T) {
		t.Setenv("PORT", "8181")
		t.Setenv("SERVER_PORT", "9191")
		t.Setenv("DB_PASSWORD", "from-legacy")
		t.Setenv("DB_USER", "registrar")
		t.Setenv("DB_SSLMODE", "require")

		cfg, err := LoadFromFile(writeConfig(t, "logging:\n  level: info\n"))
		require.NoError(t, err)
		assert.Equal(t, "9191", cfg.Server.Port)
		assert.Equal(t, "from-legacy", cfg.Database.Postgres.Password)
		assert.Equal(t, "registrar", cfg.Database.Postgres.User)
		assert.Contains(t, cfg.Database.Postgres.DSN(), "sslmode=require")
	})
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "unknown log level", content: "logging:\n  level: loud\n", errMsg: "logging.level"},
		{name: "unknown audit driver", content: "audit:\n  driver: kafka\n", errMsg: "audit.driver"},
		{name: "redis without stream", content: "audit:\n  driver: redis\n  stream: \"\"\n", errMsg: "audit.stream"},
		{name: "non-positive audit timeout", content: "audit:\n  timeout_ms: 0\n", errMsg: "audit.timeout_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
