package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE",
	"TFL_STOP_ID",
	"TFL_APP_ID",
	"TFL_APP_KEY",
	"TFL_API_BASE_URL",
	"TFL_RESULTS_LIMIT",
	"CACHE_TTL_SECONDS",
	"UPSTREAM_TIMEOUT_SECONDS",
	"PORT",
	"CORS_ALLOWED_ORIGINS",
}

// clearEnv blanks every variable Load reads; empty values count as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TFL_STOP_ID", "490000077E")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "490000077E", cfg.StopID)
	assert.Equal(t, "https://api.tfl.gov.uk", cfg.BaseURL)
	assert.Equal(t, 5, cfg.ResultsLimit)
	assert.Equal(t, 20*time.Second, cfg.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TFL_STOP_ID", "490000077E")
	t.Setenv("TFL_APP_ID", "my-app")
	t.Setenv("TFL_APP_KEY", "my-key")
	t.Setenv("TFL_RESULTS_LIMIT", "3")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://buses.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "my-app", cfg.AppID)
	assert.Equal(t, "my-key", cfg.AppKey)
	assert.Equal(t, 3, cfg.ResultsLimit)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173", "https://buses.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidResultsLimitFallsBack(t *testing.T) {
	for _, value := range []string{"abc", "2.5", "0", "-4"} {
		t.Run(value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TFL_STOP_ID", "490000077E")
			t.Setenv("TFL_RESULTS_LIMIT", value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, 5, cfg.ResultsLimit)
		})
	}
}

func TestLoad_MissingStopID(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "StopID")
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
stop_id: 490000077E
app_id: file-app
results_limit: 7
cache_ttl: 45s
port: 8181
allowed_origins:
  - http://localhost:5173
`), 0644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TFL_APP_ID", "env-app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "490000077E", cfg.StopID)
	assert.Equal(t, "env-app", cfg.AppID, "environment overrides the file")
	assert.Equal(t, 7, cfg.ResultsLimit)
	assert.Equal(t, 45*time.Second, cfg.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoad_BadYAMLFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("stop_id: [unterminated"), 0644))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)

	t.Setenv("CONFIG_FILE", filepath.Join(dir, "missing.yml"))
	_, err = Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.StopID = "490000077E"
	require.NoError(t, cfg.Validate())

	cfg.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.StopID = "490000077E"
	cfg.BaseURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.StopID = "490000077E"
	cfg.CacheTTL = 0
	assert.Error(t, cfg.Validate())
}
