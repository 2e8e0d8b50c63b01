package videos

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"uploadai/internal/ai"
	"uploadai/internal/apperr"
	"uploadai/internal/events"
	"uploadai/internal/logging"
	"uploadai/internal/metrics"
	"uploadai/internal/model"
	"uploadai/internal/repository"
	"uploadai/internal/storage"
	"uploadai/internal/stt"

	"github.com/google/uuid"
)

// Service runs the upload, transcription and completion steps for videos.
type Service struct {
	videos    repository.VideoRepository
	store     *storage.AudioStore
	stt       stt.Provider
	ai        ai.Provider
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    logging.Logger
}

// NewService creates a Service. A nil publisher discards events and nil
// metrics record nothing.
func NewService(
	videos repository.VideoRepository,
	store *storage.AudioStore,
	sttProvider stt.Provider,
	aiProvider ai.Provider,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger logging.Logger,
) *Service {
	if logger == nil {
		logger = logging.NopLogger
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &Service{
		videos:    videos,
		store:     store,
		stt:       sttProvider,
		ai:        aiProvider,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// CreateVideo stores the uploaded audio and records it. The file is written
// before the record, so a failure in between leaves only an orphaned file.
func (s *Service) CreateVideo(ctx context.Context, filename string, src io.Reader) (video *model.Video, err error) {
	defer func() { s.metrics.ObserveUpload(err) }()

	if err := storage.ValidateExtension(filename); err != nil {
		return nil, err
	}

	path, err := s.store.Save(filename, src)
	if err != nil {
		if apperr.IsValidationError(err) {
			return nil, err
		}
		return nil, apperr.NewIOError("store upload", err)
	}

	video = &model.Video{
		Name: filename,
		Path: path,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		s.logger.Error("Failed to create video record", "path", path, "error", err)
		return nil, err
	}

	s.logger.Info("Video uploaded", "video_id", video.ID, "name", filename, "path", path)
	s.publish(ctx, events.NewEvent(events.TypeVideoCreated, video.ID, map[string]any{
		"name": video.Name,
	}))

	return video, nil
}

// GetVideo returns the record for id. Malformed ids are reported as not found.
func (s *Service) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	videoID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NewNotFoundError("video", id)
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, apperr.NewNotFoundError("video", id)
	}

	return video, nil
}

// Transcribe sends the stored audio to the speech provider and persists the
// returned text. Concurrent calls on the same video are last-write-wins.
func (s *Service) Transcribe(ctx context.Context, id, prompt string) (text string, err error) {
	video, err := s.GetVideo(ctx, id)
	if err != nil {
		return "", err
	}

	defer func() { s.metrics.ObserveTranscription(err) }()

	data, err := os.ReadFile(video.Path)
	if err != nil {
		s.logger.Error("Failed to read audio file", "video_id", video.ID, "path", video.Path, "error", err)
		return "", apperr.NewIOError("read audio file", err)
	}

	result, err := s.stt.Transcribe(ctx, stt.Audio{
		Filename: filepath.Base(video.Path),
		Data:     data,
	}, prompt)
	if err != nil {
		s.logger.Error("Transcription failed", "video_id", video.ID, "provider", s.stt.Name(), "error", err)
		if apperr.IsExternalServiceError(err) || apperr.IsValidationError(err) {
			return "", err
		}
		return "", apperr.NewExternalServiceError(s.stt.Name(), err)
	}

	if err := s.videos.UpdateTranscription(ctx, video.ID, result.Transcript); err != nil {
		return "", err
	}

	s.logger.Info("Video transcribed", "video_id", video.ID, "provider", s.stt.Name(), "length", len(result.Transcript))
	s.publish(ctx, events.NewEvent(events.TypeVideoTranscribed, video.ID, map[string]any{
		"provider": s.stt.Name(),
		"length":   len(result.Transcript),
	}))

	return result.Transcript, nil
}

// Complete fills template with the stored transcription and asks the
// completion provider for a reply.
func (s *Service) Complete(ctx context.Context, id, template string) (completion string, err error) {
	video, err := s.GetVideo(ctx, id)
	if err != nil {
		return "", err
	}

	defer func() { s.metrics.ObserveCompletion(err) }()

	if !video.HasTranscription() {
		return "", apperr.NewValidationError("video %s has no transcription yet", video.ID)
	}

	prompt, err := ai.FillTemplate(template, *video.Transcription)
	if err != nil {
		return "", err
	}

	completion, err = s.ai.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("Completion failed", "video_id", video.ID, "provider", s.ai.Name(), "error", err)
		if apperr.IsExternalServiceError(err) {
			return "", err
		}
		return "", apperr.NewExternalServiceError(s.ai.Name(), err)
	}

	s.logger.Info("Completion generated", "video_id", video.ID, "provider", s.ai.Name(), "length", len(completion))
	s.publish(ctx, events.NewEvent(events.TypeCompletionGenerated, video.ID, map[string]any{
		"provider": s.ai.Name(),
		"length":   len(completion),
	}))

	return completion, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "type", event.Type, "video_id", event.VideoID, "error", err)
	}
}
