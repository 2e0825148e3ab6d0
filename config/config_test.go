package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultsToMockProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_ENDPOINT", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("PORT", "")

	cfg := Load()
	assert.Equal(t, "mock", cfg.LLMProvider)
	assert.Equal(t, "8001", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30, cfg.JWTTTLMinutes)
}

func TestLoad_PicksGeminiWhenKeyPresent(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "k")

	cfg := Load()
	assert.Equal(t, "gemini", cfg.LLMProvider)
}

func TestLoad_ParsesLists(t *testing.T) {
	t.Setenv("KB_ALLOWED_DOMAINS", " extension.org, , fao.org ")
	t.Setenv("JWT_TTL_MINUTES", "nope")

	cfg := Load()
	assert.Equal(t, []string{"extension.org", "fao.org"}, cfg.KBAllowedDomains)
	assert.Equal(t, 30, cfg.JWTTTLMinutes)
}

func TestRedacted_MasksSecrets(t *testing.T) {
	cfg := AppConfig{JWTSecret: "s", LLMAPIKey: "k", Port: "1"}
	r := cfg.Redacted()
	assert.Equal(t, "***", r.JWTSecret)
	assert.Equal(t, "***", r.LLMAPIKey)
	assert.Equal(t, "", r.GeminiAPIKey)
	assert.Equal(t, "1", r.Port)
	assert.Equal(t, "s", cfg.JWTSecret)
}
