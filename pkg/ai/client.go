// pkg/ai/client.go

package ai

import (
	"context"
	"errors"
	"strings"

	"agriverse/config"
	"agriverse/pkg/logger"
)

// ErrNotConfigured is returned by the offline client so every caller takes its fallback branch.
var ErrNotConfigured = errors.New("ai: no provider configured")

const DefaultSystem = "You are an agronomist assistant for smallholder farmers. You give practical, " +
	"field-ready advice on crop planning, disease management and yield improvement."

// Client is the AI text service. Implementations may be slow, may fail and may return
// text that is not the JSON the prompt asked for; callers own the fallback.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	AnalyzeImage(ctx context.Context, prompt string, img Image) (string, error)
}

// New picks the provider named in cfg. A provider that cannot be initialised degrades to the offline client.
func New(ctx context.Context, cfg config.AppConfig, log *logger.Logger) Client {
	switch strings.ToLower(cfg.LLMProvider) {
	case "gemini":
		c, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err == nil {
			log.Info("ai provider ready", "provider", "gemini", "model", cfg.GeminiModel)
			return c
		}
		log.Warn("gemini init failed, ai features will use fallbacks", "error", err)
	case "openai":
		if cfg.LLMEndpoint != "" && cfg.LLMAPIKey != "" {
			log.Info("ai provider ready", "provider", "openai", "model", cfg.LLMModel)
			return NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
		}
		log.Warn("openai provider selected without endpoint or key")
	}
	log.Info("ai provider offline, deterministic fallbacks only")
	return NewMock()
}
