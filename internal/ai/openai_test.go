package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"uploadai/internal/apperr"
	"uploadai/internal/config"
)

type chatRequest struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	Stream      bool     `json:"stream"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, status int, reply string, captured *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-3.5-turbo-16k",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": reply},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var captured chatRequest
	srv := newChatServer(t, http.StatusOK, "A greeting.", &captured)

	provider := NewOpenAIProvider(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, nil)

	got, err := provider.Complete(context.Background(), "Summarize: hello, world")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "A greeting." {
		t.Errorf("Complete() = %q", got)
	}

	if captured.Model != defaultOpenAIModel {
		t.Errorf("model = %q, want %q", captured.Model, defaultOpenAIModel)
	}
	if captured.Stream {
		t.Error("request should not stream")
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Fatalf("expected a single user message, got %+v", captured.Messages)
	}
	if captured.Messages[0].Content != "Summarize: hello, world" {
		t.Errorf("content = %q", captured.Messages[0].Content)
	}
	if captured.Temperature == nil {
		t.Fatal("temperature should be sent explicitly")
	}
	if *captured.Temperature > 1e-6 {
		t.Errorf("temperature = %v, want near zero", *captured.Temperature)
	}
}

func TestOpenAIProvider_Failure(t *testing.T) {
	srv := newChatServer(t, http.StatusInternalServerError, "", nil)

	provider := NewOpenAIProvider(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, nil)

	_, err := provider.Complete(context.Background(), "prompt")
	if !apperr.IsExternalServiceError(err) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
}

func TestGeminiProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello, "},{"text":"summary."}]}}]}`))
	}))
	defer srv.Close()

	provider, err := NewGeminiProvider(context.Background(), GeminiOptions{
		APIKey:  "g-test",
		BaseURL: srv.URL + "/",
	}, nil)
	if err != nil {
		t.Fatalf("NewGeminiProvider() error = %v", err)
	}

	got, err := provider.Complete(context.Background(), "Summarize: hi")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "Hello, summary." {
		t.Errorf("Complete() = %q, want concatenated parts", got)
	}
}

func TestCreateProvider_GeminiBaseURL(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"done"}]}}]}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.AI.Provider = "gemini"
	cfg.Gemini.APIKey = "g-test"
	cfg.Gemini.BaseURL = srv.URL + "/"

	p, err := CreateProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("CreateProvider() error = %v", err)
	}

	got, err := p.Complete(context.Background(), "Summarize: hi")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "done" || calls.Load() != 1 {
		t.Errorf("Complete() = %q after %d calls, want the configured server to answer once", got, calls.Load())
	}
}

func TestCreateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		openai   string
		gemini   string
		wantName string
		wantErr  bool
	}{
		{"openai", "openai", "sk-test", "", "openai", false},
		{"default", "", "sk-test", "", "openai", false},
		{"gemini", "gemini", "", "g-test", "gemini", false},
		{"openai without key", "openai", "", "", "", true},
		{"gemini without key", "gemini", "sk-test", "", "", true},
		{"unsupported", "claude", "sk-test", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.AI.Provider = tt.provider
			cfg.OpenAI.APIKey = tt.openai
			cfg.Gemini.APIKey = tt.gemini

			p, err := CreateProvider(context.Background(), cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}
