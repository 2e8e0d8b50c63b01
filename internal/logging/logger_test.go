package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level LogLevel
		want  slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"upper case", "DEBUG", slog.LevelDebug},
		{"invalid level", "invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.level); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewLogger_WritesJSONWithService(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelInfo, "server")

	logger.Debug("hidden")
	logger.Info("video uploaded", "videoID", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Log line is not JSON: %v", err)
	}
	if entry["msg"] != "video uploaded" {
		t.Errorf("Expected msg 'video uploaded', got %v", entry["msg"])
	}
	if entry["service"] != "server" {
		t.Errorf("Expected service 'server', got %v", entry["service"])
	}
	if entry["videoID"] != "abc" {
		t.Errorf("Expected videoID 'abc', got %v", entry["videoID"])
	}
}

func TestNopLogger(t *testing.T) {
	// These should not panic
	NopLogger.Debug("debug message")
	NopLogger.Info("info message", "key", 1)
	NopLogger.Warn("warn message")
	NopLogger.Error("error message")
}
