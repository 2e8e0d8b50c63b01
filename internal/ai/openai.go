package ai

import (
	"context"
	"fmt"
	"math"

	"uploadai/internal/apperr"
	"uploadai/internal/logging"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT3Dot5Turbo16K

// OpenAIProvider completes prompts with the chat completions API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      logging.Logger
}

type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// NewOpenAIProvider creates a chat-completion provider.
func NewOpenAIProvider(opts OpenAIOptions, logger logging.Logger) *OpenAIProvider {
	if logger == nil {
		logger = logging.NopLogger
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: opts.Temperature,
		logger:      logger,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	// A zero temperature is dropped from the request body by omitempty.
	temperature := p.temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: temperature,
	}

	p.logger.Debug("Calling OpenAI chat completion", "model", p.model, "prompt_length", len(prompt))

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		p.logger.Error("OpenAI API error", "error", err)
		return "", apperr.NewExternalServiceError(p.Name(), fmt.Errorf("chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", apperr.NewExternalServiceError(p.Name(), fmt.Errorf("OpenAI returned no choices"))
	}

	p.logger.Info("OpenAI completion received",
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}
