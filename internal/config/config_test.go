package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// unsetEnv clears variables for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	unsetEnv(t, "SERVER_PORT", "DATABASE_TYPE", "DEFAULT_AI", "AI_TIMEOUT_SECONDS",
		"AI_TEMPERATURE", "EMAIL_WATERMARK", "MICROSOFT_TENANT")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "workersai", cfg.DefaultAI)
	assert.Equal(t, 45*time.Second, cfg.AITimeout)
	assert.InDelta(t, 0.6, cfg.AITemperature, 0.0001)
	assert.True(t, cfg.EmailWatermark)
	assert.Equal(t, "common", cfg.MicrosoftTenant)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DATABASE_TYPE", "Postgres")
	t.Setenv("AI_TIMEOUT_SECONDS", "30")
	t.Setenv("AI_TEMPERATURE", "0.2")
	t.Setenv("EMAIL_WATERMARK", "false")
	t.Setenv("DEFAULT_AI", "openai")

	cfg := Load()

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.InDelta(t, 0.2, cfg.AITemperature, 0.0001)
	assert.False(t, cfg.EmailWatermark)
	assert.Equal(t, "openai", cfg.DefaultAI)
}

func TestLoadFallsBackOnUnparsableNumbers(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("AI_TIMEOUT_SECONDS", "soon")
	t.Setenv("AI_TEMPERATURE", "warm")
	t.Setenv("EMAIL_WATERMARK", "maybe")

	cfg := Load()

	assert.Equal(t, 45*time.Second, cfg.AITimeout)
	assert.InDelta(t, 0.6, cfg.AITemperature, 0.0001)
	assert.True(t, cfg.EmailWatermark)
}

func TestMissingProductionKeys(t *testing.T) {
	cfg := &Config{Environment: "production", DatabaseType: "postgres"}
	assert.True(t, cfg.IsProduction())
	assert.ElementsMatch(t, []string{
		"JWT_SECRET_KEY",
		"ENCRYPTION_KEY",
		"DATABASE_URL",
		"OPENAI_API_KEY or WORKERS_AI_URL",
	}, cfg.MissingProductionKeys())

	cfg = &Config{
		DatabaseType:  "sqlite",
		JWTSecretKey:  "secret",
		EncryptionKey: "key",
		WorkersAIURL:  "https://gateway.example",
	}
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.MissingProductionKeys())
}

func TestAIConfigMapping(t *testing.T) {
	cfg := &Config{
		DefaultAI:     "openai",
		OpenAIAPIKey:  "sk-test",
		OpenAIModel:   "gpt-4o-mini",
		AITimeout:     30 * time.Second,
		AITemperature: 0.3,
	}

	aiConfig := cfg.AI()
	assert.Equal(t, "openai", aiConfig.DefaultProvider)
	assert.Equal(t, "sk-test", aiConfig.OpenAIKey)
	assert.Equal(t, 30*time.Second, aiConfig.Timeout)
	assert.True(t, aiConfig.OpenAIEnabled())
	assert.False(t, aiConfig.WorkersEnabled())
	assert.NoError(t, aiConfig.Validate())
}
