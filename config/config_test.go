// ABOUTME: Tests for configuration loading
// ABOUTME: Validates env parsing, defaults, legacy key fallback, and .env precedence
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY", "MARKETMIND_CHAT_MODEL", "MARKETMIND_EMAIL_DOMAIN", "MARKETMIND_HTTP_ADDR"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "gemini-3-pro-preview", cfg.Models.Chat)
	assert.Equal(t, "gemini-3-pro-preview", cfg.Models.Pitch)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Models.Campaign)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Models.Market)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Models.Leads)
	assert.Equal(t, "gemini-flash-lite-latest", cfg.Models.Insight)
	assert.Equal(t, "gmail.com", cfg.EmailDomain)
	assert.Equal(t, int32(2000), cfg.ChatThinkingBudget)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("MARKETMIND_CHAT_MODEL", "gemini-2.5-pro")
	t.Setenv("MARKETMIND_EMAIL_DOMAIN", "example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Models.Chat)
	assert.Equal(t, "example.com", cfg.EmailDomain)
	assert.NoError(t, cfg.Validate())
}

func TestLegacyAPIKeyFallback(t *testing.T) {
	t.Run("API_KEY used when GEMINI_API_KEY empty", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "legacy")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "legacy", cfg.APIKey)
	})

	t.Run("GEMINI_API_KEY wins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "legacy")
		t.Setenv("GEMINI_API_KEY", "primary")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "primary", cfg.APIKey)
	})
}

func TestValidateMissingKey(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	content := "GEMINI_API_KEY=from-file\nMARKETMIND_HTTP_ADDR=:9999\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0600))
	t.Setenv("MARKETMIND_HTTP_ADDR", ":7000")

	cfg, err := Load()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Unsetenv("GEMINI_API_KEY") })

	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
}

func TestDefaultModelsIgnoresEnvironment(t *testing.T) {
	t.Setenv("MARKETMIND_CHAT_MODEL", "custom-chat")

	m := DefaultModels()
	assert.Equal(t, "gemini-3-pro-preview", m.Chat)
	assert.Equal(t, "gemini-flash-lite-latest", m.Insight)
}
