package stt

import (
	"fmt"
	"strings"

	"uploadai/internal/config"
	"uploadai/internal/logging"
)

// CreateProvider creates an STT provider based on configuration
func CreateProvider(cfg *config.Config, logger logging.Logger) (Provider, error) {
	if logger == nil {
		logger = logging.NopLogger
	}

	providerName := strings.ToLower(cfg.STT.Provider)
	if providerName == "" {
		providerName = "openai"
		logger.Info("STT provider not set, defaulting to openai")
	}

	switch providerName {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		logger.Info("Creating OpenAI STT provider", "model", cfg.STT.Model, "language", cfg.STT.Language)
		return NewOpenAIProvider(OpenAIOptions{
			APIKey:   cfg.OpenAI.APIKey,
			BaseURL:  cfg.OpenAI.BaseURL,
			Model:    cfg.STT.Model,
			Language: cfg.STT.Language,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported STT provider: %s. Supported: openai", providerName)
	}
}
