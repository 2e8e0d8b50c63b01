package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"uploadai/internal/apperr"

	"github.com/google/uuid"
)

// AllowedExtension is the only accepted upload extension.
const AllowedExtension = ".mp3"

// DefaultMaxBytes is the upload size cap (25 MiB).
const DefaultMaxBytes int64 = 25 * 1024 * 1024

// AudioStore writes uploaded audio files into a fixed directory.
type AudioStore struct {
	dir      string
	maxBytes int64
}

// NewAudioStore creates the upload directory if needed and returns a store rooted at its absolute path.
func NewAudioStore(dir string, maxBytes int64) (*AudioStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &AudioStore{dir: abs, maxBytes: maxBytes}, nil
}

// Dir returns the absolute upload directory.
func (s *AudioStore) Dir() string {
	return s.dir
}

// MaxBytes returns the upload size cap.
func (s *AudioStore) MaxBytes() int64 {
	return s.maxBytes
}

// ValidateExtension rejects any filename whose extension is not exactly ".mp3".
// A bare ".mp3" has no extension, only a leading dot.
func ValidateExtension(filename string) error {
	base := filepath.Base(filename)
	if filepath.Ext(base) != AllowedExtension || base == AllowedExtension {
		return apperr.NewValidationError("Invalid input type. Please upload a MP3.")
	}
	return nil
}

// UniqueName appends a random UUID to the base name: "<base>-<uuid><ext>".
func UniqueName(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	return fmt.Sprintf("%s-%s%s", base, uuid.New().String(), ext)
}

// Save streams src into a uniquely named file and returns its absolute path.
// A source larger than the size cap is rejected and nothing is left on disk.
func (s *AudioStore) Save(filename string, src io.Reader) (string, error) {
	if err := ValidateExtension(filename); err != nil {
		return "", err
	}

	dst := filepath.Join(s.dir, UniqueName(filename))

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", apperr.NewIOError("create upload file", err)
	}

	written, err := io.Copy(out, io.LimitReader(src, s.maxBytes+1))
	closeErr := out.Close()

	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(dst)
		return "", apperr.NewValidationError("file size exceeds %dMB limit", s.maxBytes/(1024*1024))
	}
	if closeErr != nil {
		os.Remove(dst)
		return "", apperr.NewIOError("close upload file", closeErr)
	}

	return dst, nil
}
