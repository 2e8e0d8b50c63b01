package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewValidationError("Missing file input."), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("upload: %w", NewValidationError("bad")), http.StatusBadRequest},
		{"not found", NewNotFoundError("video", "123"), http.StatusNotFound},
		{"external", NewExternalServiceError("openai", errors.New("boom")), http.StatusInternalServerError},
		{"io", NewIOError("read audio file", errors.New("missing")), http.StatusInternalServerError},
		{"plain", errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if got := NewNotFoundError("video", "abc").Error(); got != "video not found: abc" {
		t.Errorf("Unexpected not found message: %s", got)
	}

	inner := errors.New("connection reset")
	err := NewExternalServiceError("whisper", inner)
	if !errors.Is(err, inner) {
		t.Error("Expected external service error to unwrap to inner error")
	}
	if !IsExternalServiceError(fmt.Errorf("transcribe: %w", err)) {
		t.Error("Expected wrapped error to be detected as external service error")
	}
	if IsIOError(err) {
		t.Error("External service error must not be detected as IO error")
	}
}
