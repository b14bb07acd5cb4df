package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetEnv(t *testing.T) {
	t.Helper()
	Env = GetDefaultConfig()
	t.Cleanup(func() { Env = GetDefaultConfig() })
	for _, key := range []string{
		"MODE", "PORT", "WEBHOOK_URL", "DB_HOST", "FETCH_TIMEOUT",
		"API_TIMEOUT", "REPORT_API_FALLBACK", "MESSAGE_CHUNK_SIZE",
		"REDGIFS_STRATEGIES", "WHITELIST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadEnvRequiresToken(t *testing.T) {
	resetEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")

	err := LoadEnv()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestLoadEnvDefaults(t *testing.T) {
	resetEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	require.NoError(t, LoadEnv())
	assert.Equal(t, "123:abc", Env.BotToken)
	assert.Equal(t, ModeWebhook, Env.Mode)
	assert.Equal(t, 5000, Env.Port)
	assert.Equal(t, 15*time.Second, Env.FetchTimeout)
	assert.Equal(t, 10*time.Second, Env.APITimeout)
	assert.Equal(t, 3500, Env.MessageChunkSize)
	assert.True(t, Env.ReportAPIFallback)
	assert.False(t, Env.DatabaseEnabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	resetEnv(t)
	t.Setenv("BOT_TOKEN", "42:xyz")
	t.Setenv("MODE", "polling")
	t.Setenv("PORT", "8080")
	t.Setenv("WEBHOOK_URL", "https://bot.example.com/")
	t.Setenv("REDGIFS_STRATEGIES", "jsonld, browser ,")
	t.Setenv("WHITELIST", "1, -100200")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("REPORT_API_FALLBACK", "false")
	t.Setenv("DB_HOST", "db")

	require.NoError(t, LoadEnv())
	assert.Equal(t, "42:xyz", Env.BotToken)
	assert.Equal(t, ModePolling, Env.Mode)
	assert.Equal(t, 8080, Env.Port)
	assert.Equal(t, "https://bot.example.com", Env.WebhookURL)
	assert.Equal(t, []string{"jsonld", "browser"}, Env.RedGIFsStrategies)
	assert.Equal(t, []int64{1, -100200}, Env.Whitelist)
	assert.Equal(t, 3*time.Second, Env.FetchTimeout)
	assert.False(t, Env.ReportAPIFallback)
	assert.True(t, Env.DatabaseEnabled())
}

func TestLoadEnvInvalidValues(t *testing.T) {
	cases := map[string]string{
		"MODE":               "carrier-pigeon",
		"PORT":               "http",
		"FETCH_TIMEOUT":      "soon",
		"MESSAGE_CHUNK_SIZE": "0",
		"WHITELIST":          "1,two",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			resetEnv(t)
			t.Setenv("TELEGRAM_TOKEN", "123:abc")
			t.Setenv(key, value)
			assert.Error(t, LoadEnv())
		})
	}
}

func TestLoadExtractorConfigs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ext-cfg.yaml")
	data := []byte("pixeldrain:\n  cookies: pixeldrain.txt\n  https_proxy: http://proxy:3128\nredgifs:\n  disabled: true\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	oldPath := ExtractorConfigPath
	ExtractorConfigPath = path
	t.Cleanup(func() {
		ExtractorConfigPath = oldPath
		extractorConfigs = nil
	})

	require.NoError(t, LoadExtractorConfigs())

	cfg := GetExtractorConfig("pixeldrain")
	require.NotNil(t, cfg)
	assert.Equal(t, "pixeldrain.txt", cfg.Cookies)
	assert.Equal(t, "http://proxy:3128", cfg.HTTPSProxy)
	assert.False(t, IsExtractorDisabled("pixeldrain"))
	assert.True(t, IsExtractorDisabled("redgifs"))
	assert.Nil(t, GetExtractorConfig("unknown"))
}

func TestLoadExtractorConfigsMissingFile(t *testing.T) {
	oldPath := ExtractorConfigPath
	ExtractorConfigPath = filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(func() { ExtractorConfigPath = oldPath })

	require.NoError(t, LoadExtractorConfigs())
	assert.Nil(t, GetExtractorConfig("pixeldrain"))
}
