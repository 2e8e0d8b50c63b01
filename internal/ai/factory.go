package ai

import (
	"context"
	"fmt"
	"strings"

	"uploadai/internal/config"
	"uploadai/internal/logging"
)

// CreateProvider creates a completion provider based on configuration
func CreateProvider(ctx context.Context, cfg *config.Config, logger logging.Logger) (Provider, error) {
	if logger == nil {
		logger = logging.NopLogger
	}

	providerName := strings.ToLower(cfg.AI.Provider)
	if providerName == "" {
		providerName = "openai"
	}

	switch providerName {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		logger.Info("Creating OpenAI completion provider", "model", cfg.AI.Model)
		return NewOpenAIProvider(OpenAIOptions{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
		}, logger), nil
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		logger.Info("Creating Gemini completion provider", "model", cfg.AI.Model)
		return NewGeminiProvider(ctx, GeminiOptions{
			APIKey:      cfg.Gemini.APIKey,
			BaseURL:     cfg.Gemini.BaseURL,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s. Supported: openai, gemini", providerName)
	}
}
