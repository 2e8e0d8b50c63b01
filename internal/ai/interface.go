package ai

import "context"

//go:generate mockgen -source=interface.go -destination=mock_provider.go -package=ai

// Provider generates a text completion for a fully rendered prompt.
type Provider interface {
	// Complete sends prompt as a single user message and returns the reply text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the name of the provider (e.g., "openai", "gemini")
	Name() string
}
