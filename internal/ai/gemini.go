package ai

import (
	"context"
	"fmt"

	"uploadai/internal/apperr"
	"uploadai/internal/logging"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider completes prompts with the Gemini API.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      logging.Logger
}

type GeminiOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// NewGeminiProvider creates a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, opts GeminiOptions, logger logging.Logger) (*GeminiProvider, error) {
	if logger == nil {
		logger = logging.NopLogger
	}

	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiProvider{
		client:      client,
		model:       model,
		temperature: opts.Temperature,
		logger:      logger,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.temperature),
	}

	p.logger.Debug("Calling Gemini", "model", p.model, "prompt_length", len(prompt))

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		p.logger.Error("Gemini API error", "error", err)
		return "", apperr.NewExternalServiceError(p.Name(), fmt.Errorf("generate content: %w", err))
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}

	return "", apperr.NewExternalServiceError(p.Name(), fmt.Errorf("empty response from Gemini"))
}
