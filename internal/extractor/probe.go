package extractor

import (
	"fmt"

	"uploadai/internal/logging"

	"github.com/xfrr/goffmpeg/transcoder"
)

// FFmpegProber inspects media streams through ffprobe using goffmpeg.
type FFmpegProber struct {
	logger logging.Logger
}

func NewFFmpegProber(logger logging.Logger) *FFmpegProber {
	if logger == nil {
		logger = logging.NopLogger
	}
	return &FFmpegProber{logger: logger}
}

func (p *FFmpegProber) HasAudio(path string) (bool, error) {
	trans := new(transcoder.Transcoder)
	if err := trans.Initialize(path, ""); err != nil {
		return false, fmt.Errorf("failed to initialize transcoder for probing: %w", err)
	}

	metadata := trans.MediaFile().Metadata()
	for _, stream := range metadata.Streams {
		if stream.CodecType == "audio" {
			p.logger.Debug("Audio stream found", "path", path, "codec", stream.CodecName)
			return true, nil
		}
	}

	return false, nil
}
