package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  host: 0.0.0.0
database:
  host: localhost
  port: 5432
  user: samaj
  password: from-file
  dbname: samaj
jwt:
  secret: file-secret
admin:
  mobiles: ["+91 98765 43210"]
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t))
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 1, cfg.PhonePe.SaltIndex)
		assert.Equal(t, []string{"+91 98765 43210"}, cfg.Admin.Mobiles)
	})

	t.Run("environment overrides secrets", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "env-secret")
		t.Setenv("DATABASE_PASSWORD", "env-password")
		t.Setenv("PORT", "9000")

		cfg, err := Load(writeConfig(t))
		require.NoError(t, err)

		assert.Equal(t, "env-secret", cfg.JWT.Secret)
		assert.Equal(t, "env-password", cfg.Database.Password)
		assert.Equal(t, 9000, cfg.Server.Port)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_MigrateURL(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "samaj", SSLMode: "disable"}
	assert.Equal(t, "pgx5://u:p%40ss@db:5432/samaj?sslmode=disable", c.MigrateURL())
}
