package model

import (
	"time"

	"github.com/google/uuid"
)

// Video is the persisted metadata of one uploaded audio file plus its eventual transcription.
type Video struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Path          string    `json:"path"`
	Transcription *string   `json:"transcription"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HasTranscription reports whether a transcription has been generated for the video.
func (v *Video) HasTranscription() bool {
	return v.Transcription != nil && *v.Transcription != ""
}
