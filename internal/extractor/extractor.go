package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"uploadai/internal/executor"
	"uploadai/internal/logging"
)

const (
	OutputName = "output.mp3"
	MimeType   = "audio/mpeg"
)

var ErrNoAudioStream = errors.New("input has no audio stream")

// AudioFile is the compressed audio produced from a video.
type AudioFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// Prober reports whether a media file carries an audio stream.
type Prober interface {
	HasAudio(path string) (bool, error)
}

// Extractor converts videos into small MP3 files with ffmpeg.
type Extractor struct {
	exec    executor.Executor
	prober  Prober
	tempDir string
	logger  logging.Logger
}

// New creates an Extractor. A nil prober disables the audio stream check.
func New(exec executor.Executor, prober Prober, tempDir string, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NopLogger
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	return &Extractor{
		exec:    exec,
		prober:  prober,
		tempDir: tempDir,
		logger:  logger,
	}
}

// Args is the ffmpeg argument list: keep only audio, 20 kbit/s MP3.
func Args(input, output string) []string {
	return []string{
		"-i", input,
		"-map", "0:a",
		"-b:a", "20k",
		"-acodec", "libmp3lame",
		output,
	}
}

// Extract transcodes videoPath and returns the resulting MP3 in memory.
func (e *Extractor) Extract(ctx context.Context, videoPath string) (*AudioFile, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}

	if e.prober != nil {
		hasAudio, err := e.prober.HasAudio(videoPath)
		if err != nil {
			return nil, fmt.Errorf("probe video: %w", err)
		}
		if !hasAudio {
			return nil, ErrNoAudioStream
		}
	}

	workDir, err := os.MkdirTemp(e.tempDir, "extract_")
	if err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	output := filepath.Join(workDir, OutputName)

	e.logger.Info("Converting video to audio", "video", videoPath)

	if _, err := e.exec.Execute(ctx, "ffmpeg", Args(videoPath, output)...); err != nil {
		return nil, fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("read extracted audio: %w", err)
	}

	e.logger.Info("Convert finished", "video", videoPath, "bytes", len(data))

	return &AudioFile{
		Name:     OutputName,
		MimeType: MimeType,
		Data:     data,
	}, nil
}
