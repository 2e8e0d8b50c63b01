package uploadform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"uploadai/internal/extractor"
	"uploadai/internal/logging"
	"uploadai/internal/model"

	"github.com/google/uuid"
)

// Status is the progress indicator of the form.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusConverting Status = "converting"
	StatusUploading  Status = "uploading"
	StatusGenerating Status = "generating"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// Label is the text shown on the submit button for each status.
func (s Status) Label() string {
	switch s {
	case StatusWaiting:
		return "Upload video"
	case StatusConverting:
		return "Converting..."
	case StatusUploading:
		return "Uploading..."
	case StatusGenerating:
		return "Transcribing..."
	case StatusSuccess:
		return "Success!"
	case StatusFailed:
		return "Failed"
	default:
		return string(s)
	}
}

// Working reports whether a submission is in progress.
func (s Status) Working() bool {
	return s == StatusConverting || s == StatusUploading || s == StatusGenerating
}

var (
	ErrNoFileSelected = errors.New("no video selected")
	ErrBusy           = errors.New("form is not ready for submission")
)

// AudioExtractor converts a local video into an uploadable audio file.
type AudioExtractor interface {
	Extract(ctx context.Context, videoPath string) (*extractor.AudioFile, error)
}

// Uploader is the part of the server API used by the form.
type Uploader interface {
	UploadVideo(ctx context.Context, filename string, data []byte) (*model.Video, error)
	CreateTranscription(ctx context.Context, videoID, prompt string) (string, error)
}

// Form drives a video through conversion, upload and transcription.
// Statuses only move forward, except that any working stage may fail and
// Reset returns a finished form to waiting.
type Form struct {
	extractor AudioExtractor
	api       Uploader
	logger    logging.Logger

	onVideoUploaded func(videoID uuid.UUID)
	onStatusChange  func(Status)

	mu        sync.Mutex
	status    Status
	videoPath string
	prompt    string
	lastErr   error
}

// New creates a form. onVideoUploaded receives the id of every video that
// completes the pipeline and may be nil.
func New(ext AudioExtractor, api Uploader, onVideoUploaded func(videoID uuid.UUID), logger logging.Logger) *Form {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &Form{
		extractor:       ext,
		api:             api,
		logger:          logger,
		onVideoUploaded: onVideoUploaded,
		status:          StatusWaiting,
	}
}

// OnStatusChange registers a listener called after every transition.
func (f *Form) OnStatusChange(fn func(Status)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onStatusChange = fn
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Err returns the error that moved the form to failed, if any.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// SelectFile picks the video to submit. It is refused while a submission
// is in progress.
func (f *Form) SelectFile(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status.Working() {
		return ErrBusy
	}
	f.videoPath = path
	return nil
}

// SetPrompt sets the optional transcription prompt.
func (f *Form) SetPrompt(prompt string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompt = prompt
}

// Reset moves a failed or successful form back to waiting. The selected
// file and prompt are kept.
func (f *Form) Reset() error {
	f.mu.Lock()
	if f.status != StatusFailed && f.status != StatusSuccess {
		current := f.status
		f.mu.Unlock()
		return fmt.Errorf("cannot reset form in status %s", current)
	}
	f.lastErr = nil
	f.mu.Unlock()

	f.transition(StatusWaiting)
	return nil
}

// Submit runs the whole pipeline. Every stage observes ctx; a cancelled
// context or a stage error moves the form to failed and is returned.
func (f *Form) Submit(ctx context.Context) (uuid.UUID, error) {
	f.mu.Lock()
	if f.status != StatusWaiting {
		f.mu.Unlock()
		return uuid.Nil, ErrBusy
	}
	if f.videoPath == "" {
		f.mu.Unlock()
		return uuid.Nil, ErrNoFileSelected
	}
	videoPath, prompt := f.videoPath, f.prompt
	f.status = StatusConverting
	listener := f.onStatusChange
	f.mu.Unlock()

	f.logger.Debug("Form status changed", "from", StatusWaiting, "to", StatusConverting)
	if listener != nil {
		listener(StatusConverting)
	}

	audio, err := f.extractor.Extract(ctx, videoPath)
	if err != nil {
		return uuid.Nil, f.fail(fmt.Errorf("convert video: %w", err))
	}

	if err := ctx.Err(); err != nil {
		return uuid.Nil, f.fail(err)
	}
	f.transition(StatusUploading)

	video, err := f.api.UploadVideo(ctx, audio.Name, audio.Data)
	if err != nil {
		return uuid.Nil, f.fail(fmt.Errorf("upload audio: %w", err))
	}

	if err := ctx.Err(); err != nil {
		return uuid.Nil, f.fail(err)
	}
	f.transition(StatusGenerating)

	if _, err := f.api.CreateTranscription(ctx, video.ID.String(), prompt); err != nil {
		return uuid.Nil, f.fail(fmt.Errorf("transcribe video %s: %w", video.ID, err))
	}

	f.transition(StatusSuccess)
	f.logger.Info("Video ready", "video_id", video.ID)

	if f.onVideoUploaded != nil {
		f.onVideoUploaded(video.ID)
	}

	return video.ID, nil
}

func (f *Form) fail(err error) error {
	f.mu.Lock()
	f.lastErr = err
	f.mu.Unlock()

	f.logger.Error("Submission failed", "error", err)
	f.transition(StatusFailed)
	return err
}

func (f *Form) transition(to Status) {
	f.mu.Lock()
	from := f.status
	f.status = to
	listener := f.onStatusChange
	f.mu.Unlock()

	f.logger.Debug("Form status changed", "from", from, "to", to)
	if listener != nil {
		listener(to)
	}
}
