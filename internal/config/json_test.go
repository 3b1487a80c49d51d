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

func writeRawJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_AllSections(t *testing.T) {
	path := writeRawJSON(t, `{
		"app": {
			"access_token_secret": "a",
			"access_token_ttl": "20m",
			"refresh_token_secret": "r",
			"refresh_token_ttl": "48h",
			"token_issuer": "json-issuer",
			"bcrypt_cost": 11,
			"version": "0.9.0"
		},
		"storage": {
			"db": {"dsn": "postgres://localhost/todos"},
			"cache": {"address": "localhost:6379", "ttl": "2m"},
			"avatars": {"endpoint": "localhost:9000", "bucket": "avatars", "max_size": 1024}
		},
		"server": {
			"http_address": ":8080",
			"request_timeout": 1000000000,
			"login_rate_limit": 5,
			"login_rate_window": "30s"
		},
		"observability": {"sentry_dsn": "dsn"},
		"adapter": {"http_address": "localhost:8080", "request_timeout": "5s"},
		"client": {"state_dsn": "state.db", "auto_refresh": true}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "a", cfg.App.AccessTokenSecret)
	assert.Equal(t, 20*time.Minute, cfg.App.AccessTokenTTL)
	assert.Equal(t, 48*time.Hour, cfg.App.RefreshTokenTTL)
	assert.Equal(t, "json-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 11, cfg.App.BcryptCost)
	assert.Equal(t, "0.9.0", cfg.App.Version)

	assert.Equal(t, "postgres://localhost/todos", cfg.Storage.DB.DSN)
	assert.Equal(t, 2*time.Minute, cfg.Storage.Cache.TTL)
	assert.Equal(t, "avatars", cfg.Storage.Avatars.Bucket)
	assert.Equal(t, int64(1024), cfg.Storage.Avatars.MaxSize)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddress)
	assert.Equal(t, time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5, cfg.Server.LoginRateLimit)
	assert.Equal(t, 30*time.Second, cfg.Server.LoginRateWindow)

	assert.Equal(t, "dsn", cfg.Observability.SentryDSN)
	assert.Equal(t, 5*time.Second, cfg.Adapter.RequestTimeout)
	assert.True(t, cfg.Client.AutoRefresh)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := parseJSON(writeRawJSON(t, `{"app": `))
	assert.Error(t, err)
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	_, err := parseJSON(writeRawJSON(t, `{"app": {"access_token_ttl": "forever"}}`))
	assert.Error(t, err)
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1h30m"`), &d))
	assert.Equal(t, 90*time.Minute, time.Duration(d))

	require.NoError(t, json.Unmarshal([]byte(`5000`), &d))
	assert.Equal(t, 5*time.Microsecond, time.Duration(d))

	assert.Error(t, json.Unmarshal([]byte(`true`), &d))

	out, err := json.Marshal(Duration(2 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"2s"`, string(out))
}
