package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "", cfg.RecordStore.URL)
	assert.Equal(t, 30*time.Second, cfg.RecordStore.Timeout)
	assert.Equal(t, "admin123", cfg.Auth.AdminPassword)
	assert.Equal(t, "guru123", cfg.Auth.TeacherPassword)
	assert.Equal(t, "ketua123", cfg.Auth.ClassRepPassword)
	assert.Equal(t, "@every 5m", cfg.Sync.CronSchedule)
	assert.False(t, cfg.Sync.CronEnabled)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Cleanup(func() {
		for _, key := range []string{"RECORD_STORE_URL", "DASHBOARD_CACHE_TTL", "ALLOWED_ORIGINS"} {
			_ = os.Unsetenv(key)
		}
	})
	content := "RECORD_STORE_URL=https://script.example.com/exec\nDASHBOARD_CACHE_TTL=90s\nALLOWED_ORIGINS=http://a.test, http://b.test\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://script.example.com/exec", cfg.RecordStore.URL)
	assert.Equal(t, 90*time.Second, cfg.Dashboard.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{School: SchoolConfig{Timezone: "Nowhere/Unknown"}}
	assert.Equal(t, time.UTC, cfg.Location())
	var nilCfg *Config
	assert.Equal(t, time.UTC, nilCfg.Location())
}
