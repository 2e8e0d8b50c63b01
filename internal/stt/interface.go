package stt

import "context"

// Audio is an in-memory audio payload handed to a provider.
type Audio struct {
	// Filename is used by providers that infer the container from the extension.
	Filename string
	Data     []byte
}

//go:generate mockgen -source=interface.go -destination=mock_provider.go -package=stt

// Provider defines the interface for speech-to-text providers
type Provider interface {
	// Transcribe returns the plain-text transcription of the audio. The prompt
	// is forwarded verbatim and may be empty.
	Transcribe(ctx context.Context, audio Audio, prompt string) (*Result, error)

	// Name returns the name of the provider (e.g., "openai")
	Name() string
}
