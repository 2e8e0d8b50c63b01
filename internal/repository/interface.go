package repository

import (
	"context"

	"uploadai/internal/model"

	"github.com/google/uuid"
)

// VideoRepository defines the interface for video record data access
type VideoRepository interface {
	// Create stores a new video record, assigning an ID and creation time when unset
	Create(ctx context.Context, video *model.Video) error

	// GetByID retrieves a video by ID, returning nil without error when it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// UpdateTranscription sets the transcription text of an existing video
	UpdateTranscription(ctx context.Context, id uuid.UUID, transcription string) error
}

// PromptRepository defines the interface for prompt template data access
type PromptRepository interface {
	// List returns all prompts ordered by creation time ascending
	List(ctx context.Context) ([]model.Prompt, error)

	// Upsert inserts a prompt or updates title and template of an existing one, keeping its creation time
	Upsert(ctx context.Context, prompt *model.Prompt) error
}
