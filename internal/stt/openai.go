package stt

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"uploadai/internal/apperr"
	"uploadai/internal/logging"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider transcribes audio with the Whisper API.
type OpenAIProvider struct {
	client   *openai.Client
	model    string
	language string
	logger   logging.Logger
}

type OpenAIOptions struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

// NewOpenAIProvider creates a Whisper-backed provider.
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
		model = openai.Whisper1
	}

	return &OpenAIProvider{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		language: opts.Language,
		logger:   logger,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Transcribe sends the audio in a single request asking for a text response.
func (p *OpenAIProvider) Transcribe(ctx context.Context, audio Audio, prompt string) (*Result, error) {
	if len(audio.Data) == 0 {
		return nil, apperr.NewValidationError("audio is empty")
	}

	filename := audio.Filename
	if filename == "" {
		filename = "audio.mp3"
	}

	req := openai.AudioRequest{
		Model:    p.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio.Data),
		Prompt:   prompt,
		Format:   openai.AudioResponseFormatText,
		Language: p.language,
	}

	p.logger.Debug("Requesting transcription", "model", p.model, "bytes", len(audio.Data), "language", p.language)

	start := time.Now()
	resp, err := p.client.CreateTranscription(ctx, req)
	if err != nil {
		p.logger.Error("Whisper transcription failed", "error", err)
		return nil, apperr.NewExternalServiceError(p.Name(), fmt.Errorf("transcription request: %w", err))
	}
	elapsed := time.Since(start)

	p.logger.Info("Transcription received", "provider", p.Name(), "length", len(resp.Text), "duration", elapsed)

	return &Result{
		Transcript: resp.Text,
		Language:   p.language,
		Provider:   p.Name(),
		Duration:   elapsed,
	}, nil
}
