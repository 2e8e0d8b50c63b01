package model

import (
	"time"

	"github.com/google/uuid"
)

// Prompt is a stored, reusable template whose placeholder receives a transcription.
type Prompt struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Template  string    `json:"template"`
	CreatedAt time.Time `json:"createdAt"`
}
