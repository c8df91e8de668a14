package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-5-chat-latest", cfg.Model)
	assert.Equal(t, "cn", cfg.Language)
	assert.Equal(t, 3, cfg.ControlNum)
	assert.Equal(t, 2*time.Second, cfg.Delay)
	assert.Equal(t, int64(8192), cfg.MaxTokens)
	assert.True(t, cfg.Shuffle)
	assert.False(t, cfg.StrictRepair)
	assert.Equal(t, "input/dataset_cn.xlsx", cfg.DatasetPath())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-test")
	t.Setenv("LANGUAGE", "en")
	t.Setenv("CONTROL_NUM", "10")
	t.Setenv("ENABLE_SHUFFLE", "false")
	t.Setenv("STRICT_REPAIR", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "g-test", cfg.APIKey)
	assert.Equal(t, 10, cfg.ControlNum)
	assert.False(t, cfg.Shuffle)
	assert.True(t, cfg.StrictRepair)
	assert.Equal(t, "input/dataset_en.xlsx", cfg.DatasetPath())
}

func TestFromEnvRejectsUnknownProvider(t *testing.T) {
	t.Setenv("PROVIDER", "llama-at-home")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvRejectsUnknownLanguage(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LANGUAGE", "fr")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONTROL_NUM", "lots")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.ControlNum)
}
