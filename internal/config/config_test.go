// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/db.json", cfg.Storage.FilePath)
	assert.False(t, cfg.Storage.UsesMongo())
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "session_id", cfg.Session.CookieName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadEnvSelectsMongo(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DB", "kitchen_test")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Storage.UsesMongo())
	assert.Equal(t, "kitchen_test", cfg.Storage.MongoDatabase)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("storage:\n  file_path: /tmp/kitchen.json\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/kitchen.json", cfg.Storage.FilePath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateRejectsShortAdminPassword(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@indiankitchen.com")
	t.Setenv("ADMIN_PASSWORD", "short")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}
