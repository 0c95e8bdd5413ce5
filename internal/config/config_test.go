package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("GITHUB_API_TOKEN", "secret")
	t.Setenv("CORS_ORIGIN", "https://example.org")
	t.Setenv("REFRESH_INTERVAL_SEC", "60")
	t.Setenv("READ_TIMEOUT_SEC", "")
	t.Setenv("MONGODB_URI", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "secret", cfg.GitHubToken)
	assert.Equal(t, "https://example.org", cfg.CORSOrigin)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "help_wanted", cfg.DBName)
	assert.False(t, cfg.HistoryEnabled())
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 7 * time.Second},
		{"30", 30 * time.Second},
		{"0", 0},
		{"-5", 7 * time.Second},
		{"soon", 7 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_DURATION_SEC", tt.value)
			assert.Equal(t, tt.want, getDuration("TEST_DURATION_SEC", 7))
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_GET_ENV", "")
	assert.Equal(t, "fallback", getEnv("TEST_GET_ENV", "fallback"))

	t.Setenv("TEST_GET_ENV", "set")
	assert.Equal(t, "set", getEnv("TEST_GET_ENV", "fallback"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOTENV_ONLY=from-file\nDOTENV_BOTH=from-file\n"), 0o644))

	t.Chdir(dir)

	t.Setenv("DOTENV_BOTH", "from-env")
	// Setenv registers the restore; the variable itself must start unset.
	t.Setenv("DOTENV_ONLY", "")
	os.Unsetenv("DOTENV_ONLY")

	LoadDotEnv()

	assert.Equal(t, "from-file", os.Getenv("DOTENV_ONLY"))
	assert.Equal(t, "from-env", os.Getenv("DOTENV_BOTH"))
}
