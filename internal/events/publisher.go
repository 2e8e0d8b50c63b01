package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeVideoCreated        = "video.created"
	TypeVideoTranscribed    = "video.transcribed"
	TypeCompletionGenerated = "completion.generated"
)

// Event is a domain notification emitted after a pipeline step succeeds.
type Event struct {
	Type       string         `json:"type"`
	VideoID    uuid.UUID      `json:"videoId"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(eventType string, videoID uuid.UUID, data map[string]any) Event {
	return Event{
		Type:       eventType,
		VideoID:    videoID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

//go:generate mockgen -source=publisher.go -destination=mock_publisher.go -package=events

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
