package uploadform

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"uploadai/internal/extractor"
	"uploadai/internal/model"

	"github.com/google/uuid"
)

type fakeExtractor struct {
	err   error
	block bool
}

func (f *fakeExtractor) Extract(ctx context.Context, videoPath string) (*extractor.AudioFile, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &extractor.AudioFile{Name: "output.mp3", MimeType: "audio/mpeg", Data: []byte("mp3")}, nil
}

type fakeUploader struct {
	videoID       uuid.UUID
	uploadErr     error
	transcribeErr error
	uploadedName  string
	prompt        string
	onUpload      func()
}

func (f *fakeUploader) UploadVideo(ctx context.Context, filename string, data []byte) (*model.Video, error) {
	f.uploadedName = filename
	if f.onUpload != nil {
		f.onUpload()
	}
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &model.Video{ID: f.videoID, Name: filename}, nil
}

func (f *fakeUploader) CreateTranscription(ctx context.Context, videoID, prompt string) (string, error) {
	f.prompt = prompt
	if f.transcribeErr != nil {
		return "", f.transcribeErr
	}
	return "hello, world", nil
}

type statusRecorder struct {
	mu       sync.Mutex
	statuses []Status
}

func (r *statusRecorder) record(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func TestSubmit_Success(t *testing.T) {
	id := uuid.New()
	api := &fakeUploader{videoID: id}

	var uploaded uuid.UUID
	form := New(&fakeExtractor{}, api, func(videoID uuid.UUID) { uploaded = videoID }, nil)
	rec := &statusRecorder{}
	form.OnStatusChange(rec.record)

	if err := form.SelectFile("/videos/talk.mp4"); err != nil {
		t.Fatal(err)
	}
	form.SetPrompt("names: Ana")

	got, err := form.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got != id || uploaded != id {
		t.Errorf("video id = %s, callback got %s, want %s", got, uploaded, id)
	}

	want := []Status{StatusConverting, StatusUploading, StatusGenerating, StatusSuccess}
	if !reflect.DeepEqual(rec.statuses, want) {
		t.Errorf("transitions = %v, want %v", rec.statuses, want)
	}
	if api.uploadedName != "output.mp3" || api.prompt != "names: Ana" {
		t.Errorf("unexpected upload %q / prompt %q", api.uploadedName, api.prompt)
	}
}

func TestSubmit_RequiresFile(t *testing.T) {
	form := New(&fakeExtractor{}, &fakeUploader{}, nil, nil)

	if _, err := form.Submit(context.Background()); !errors.Is(err, ErrNoFileSelected) {
		t.Errorf("expected ErrNoFileSelected, got %v", err)
	}
	if form.Status() != StatusWaiting {
		t.Errorf("status = %s, want waiting", form.Status())
	}
}

func TestSubmit_StageFailures(t *testing.T) {
	tests := []struct {
		name       string
		extractor  *fakeExtractor
		api        *fakeUploader
		wantStages []Status
	}{
		{
			name:       "conversion",
			extractor:  &fakeExtractor{err: extractor.ErrNoAudioStream},
			api:        &fakeUploader{},
			wantStages: []Status{StatusConverting, StatusFailed},
		},
		{
			name:       "upload",
			extractor:  &fakeExtractor{},
			api:        &fakeUploader{uploadErr: errors.New("400 Missing file input.")},
			wantStages: []Status{StatusConverting, StatusUploading, StatusFailed},
		},
		{
			name:       "transcription",
			extractor:  &fakeExtractor{},
			api:        &fakeUploader{videoID: uuid.New(), transcribeErr: errors.New("500")},
			wantStages: []Status{StatusConverting, StatusUploading, StatusGenerating, StatusFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			form := New(tt.extractor, tt.api, func(uuid.UUID) { called = true }, nil)
			rec := &statusRecorder{}
			form.OnStatusChange(rec.record)
			form.SelectFile("talk.mp4")

			if _, err := form.Submit(context.Background()); err == nil {
				t.Fatal("expected error")
			}
			if !reflect.DeepEqual(rec.statuses, tt.wantStages) {
				t.Errorf("transitions = %v, want %v", rec.statuses, tt.wantStages)
			}
			if form.Err() == nil {
				t.Error("Err() should report the failure")
			}
			if called {
				t.Error("callback must not run on failure")
			}
		})
	}
}

func TestSubmit_RefusedWhileNotWaiting(t *testing.T) {
	form := New(&fakeExtractor{}, &fakeUploader{videoID: uuid.New()}, nil, nil)
	form.SelectFile("talk.mp4")

	if _, err := form.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := form.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second submit: expected ErrBusy, got %v", err)
	}
}

func TestSubmit_SelectFileRefusedWhileWorking(t *testing.T) {
	api := &fakeUploader{videoID: uuid.New()}
	form := New(&fakeExtractor{}, api, nil, nil)
	form.SelectFile("talk.mp4")

	var selectErr error
	api.onUpload = func() { selectErr = form.SelectFile("other.mp4") }

	if _, err := form.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(selectErr, ErrBusy) {
		t.Errorf("expected ErrBusy while uploading, got %v", selectErr)
	}
}

func TestSubmit_Cancellation(t *testing.T) {
	form := New(&fakeExtractor{block: true}, &fakeUploader{}, nil, nil)
	form.SelectFile("talk.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(ctx)
		done <- err
	}()

	cancel()
	err := <-done
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if form.Status() != StatusFailed {
		t.Errorf("status = %s, want failed", form.Status())
	}
}

func TestReset(t *testing.T) {
	form := New(&fakeExtractor{err: errors.New("ffmpeg")}, &fakeUploader{}, nil, nil)

	if err := form.Reset(); err == nil {
		t.Error("reset from waiting should be refused")
	}

	form.SelectFile("talk.mp4")
	form.Submit(context.Background())
	if form.Status() != StatusFailed {
		t.Fatalf("status = %s, want failed", form.Status())
	}

	if err := form.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if form.Status() != StatusWaiting || form.Err() != nil {
		t.Errorf("after reset: status = %s, err = %v", form.Status(), form.Err())
	}

	form.extractor = &fakeExtractor{}
	form.api = &fakeUploader{videoID: uuid.New()}
	if _, err := form.Submit(context.Background()); err != nil {
		t.Fatalf("retry after reset failed: %v", err)
	}
	if err := form.Reset(); err != nil {
		t.Errorf("reset from success should be allowed: %v", err)
	}
}

func TestStatusLabel(t *testing.T) {
	for _, s := range []Status{StatusWaiting, StatusConverting, StatusUploading, StatusGenerating, StatusSuccess, StatusFailed} {
		if s.Label() == "" {
			t.Errorf("status %s has no label", s)
		}
	}
}
