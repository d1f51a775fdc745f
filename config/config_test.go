package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv 确保测试不会读取工作目录下的 .env 文件
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("CONFIG_FILE", "")
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, "tribe-ai-app", cfg.AppName)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.False(t, cfg.AppDebug)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "gpt-4", cfg.DefaultModel)
	assert.Equal(t, 2000, cfg.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.Equal(t, time.Minute, cfg.VendorTimeout)
	assert.Equal(t, "sqlite:///./tribe_ai.db", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8000"}, cfg.AllowedOrigins)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 1000, cfg.RateLimitPerHour)
	assert.Equal(t, PolicyLegacy, cfg.ErrorStatusPolicy)
	assert.Empty(t, cfg.DatabaseReplicaURLs)
}

func TestLoadConfigFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	t.Setenv("APP_PORT", "9001")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("TEMPERATURE", "1.5")
	t.Setenv("MAX_TOKENS", "512")
	t.Setenv("DEFAULT_MODEL", "claude-3-opus")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("DATABASE_REPLICA_URLS", "postgres://r1/db,postgres://r2/db")
	t.Setenv("VENDOR_TIMEOUT", "15s")
	t.Setenv("ERROR_STATUS_POLICY", "STRICT")

	cfg, err := LoadConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "ak-test", cfg.AnthropicAPIKey)
	assert.Equal(t, 9001, cfg.Port)
	assert.True(t, cfg.AppDebug)
	assert.InDelta(t, 1.5, cfg.Temperature, 1e-9)
	assert.Equal(t, 512, cfg.MaxTokens)
	assert.Equal(t, "claude-3-opus", cfg.DefaultModel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"postgres://r1/db", "postgres://r2/db"}, cfg.DatabaseReplicaURLs)
	assert.Equal(t, 15*time.Second, cfg.VendorTimeout)
	assert.Equal(t, PolicyStrict, cfg.ErrorStatusPolicy)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_PORT", "9001")
	t.Setenv("DEFAULT_MODEL", "gpt-4")

	cfg, err := LoadConfig([]string{"-port", "9100", "-default-model", "claude-3-sonnet", "-database-url", ""})

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "claude-3-sonnet", cfg.DefaultModel)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := isolateEnv(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("TRIBEAI_TEST_ONLY_KEY=from-dotenv\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	t.Cleanup(func() { os.Unsetenv("TRIBEAI_TEST_ONLY_KEY") })

	_, err := LoadConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", os.Getenv("TRIBEAI_TEST_ONLY_KEY"))
}

func TestLoadConfigReadsConfigFile(t *testing.T) {
	dir := isolateEnv(t)
	file := filepath.Join(dir, "tribeai.yaml")
	content := "app_name: from-file\nallowed_origins:\n  - https://x.example\n  - https://y.example\nmax_tokens: 128\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", file)

	cfg, err := LoadConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.AppName)
	assert.Equal(t, []string{"https://x.example", "https://y.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 128, cfg.MaxTokens)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"temperature too high", "TEMPERATURE", "2.5"},
		{"negative temperature", "TEMPERATURE", "-0.1"},
		{"zero max tokens", "MAX_TOKENS", "0"},
		{"unknown policy", "ERROR_STATUS_POLICY", "whatever"},
		{"bad port", "APP_PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig(nil)

			assert.Error(t, err)
		})
	}
}
