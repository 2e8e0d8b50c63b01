package stt

import "time"

// Result represents the result of a speech-to-text transcription
type Result struct {
	Transcript string        // The transcribed text
	Language   string        // Language requested from the provider, may be empty
	Provider   string        // The provider used (e.g., "openai")
	Duration   time.Duration // Time spent waiting on the provider
}
