package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":   "127.0.0.1:9000",
		"database_dsn":         "dsn",
		"access_token_secret":  "a-secret",
		"access_token_expiry":  "1h",
		"refresh_token_secret": "r-secret",
		"refresh_token_expiry": "72h",
		"cookie_secure":        false,
		"cookie_same_site":     "lax",
		"cors_allowed_origins": "https://x.example,https://y.example",
		"s3_bucket":            "bkt",
	})

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "127.0.0.1:9000", cfg.EndpointAddrHTTP)
	assert.Equal(t, "dsn", cfg.DatabaseDSN)
	assert.Equal(t, "a-secret", cfg.AccessTokenSecret)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, "r-secret", cfg.RefreshTokenSecret)
	assert.Equal(t, 72*time.Hour, cfg.RefreshTokenExpiry)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "lax", cfg.CookieSameSite)
	assert.Equal(t, []string{"https://x.example", "https://y.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "bkt", cfg.S3Bucket)
}

func Test_parseJson_NoFlagLeavesDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":3000", cfg.EndpointAddrHTTP)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenExpiry)
}

func Test_parseJson_MissingFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", "/nonexistent/cfg.json"}

	cfg := &Config{}
	cfg.LoadDefaults()
	require.Panics(t, func() { parseJson(cfg) })
}
