package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"uploadai/internal/model"
)

// APIClient handles communication with the upload.ai server
type APIClient interface {
	UploadVideo(ctx context.Context, filename string, data []byte) (*model.Video, error)
	GetVideo(ctx context.Context, videoID string) (*model.Video, error)
	CreateTranscription(ctx context.Context, videoID, prompt string) (string, error)
	GenerateCompletion(ctx context.Context, videoID, template string) (string, error)
	ListPrompts(ctx context.Context) ([]model.Prompt, error)
}

type apiClient struct {
	serverURL  string
	httpClient *http.Client
}

// NewAPIClient creates a new HTTP client. A zero timeout leaves requests
// bounded only by their context.
func NewAPIClient(serverURL string, timeout time.Duration) APIClient {
	return &apiClient{
		serverURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// UploadVideo uploads an MP3 as the "file" multipart field.
func (s *apiClient) UploadVideo(ctx context.Context, filename string, data []byte) (*model.Video, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	var resp struct {
		Video model.Video `json:"video"`
	}
	if err := s.do(ctx, http.MethodPost, "/videos", writer.FormDataContentType(), &buf, &resp); err != nil {
		return nil, err
	}

	return &resp.Video, nil
}

func (s *apiClient) GetVideo(ctx context.Context, videoID string) (*model.Video, error) {
	var resp struct {
		Video model.Video `json:"video"`
	}
	if err := s.do(ctx, http.MethodGet, "/videos/"+url.PathEscape(videoID), "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Video, nil
}

func (s *apiClient) CreateTranscription(ctx context.Context, videoID, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	var resp struct {
		Transcription string `json:"transcription"`
	}
	path := "/videos/" + url.PathEscape(videoID) + "/transcription"
	if err := s.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body), &resp); err != nil {
		return "", err
	}
	return resp.Transcription, nil
}

func (s *apiClient) GenerateCompletion(ctx context.Context, videoID, template string) (string, error) {
	body, err := json.Marshal(map[string]string{"videoId": videoID, "template": template})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	var resp struct {
		Completion string `json:"completion"`
	}
	if err := s.do(ctx, http.MethodPost, "/ai/complete", "application/json", bytes.NewReader(body), &resp); err != nil {
		return "", err
	}
	return resp.Completion, nil
}

func (s *apiClient) ListPrompts(ctx context.Context) ([]model.Prompt, error) {
	var resp struct {
		Prompts []model.Prompt `json:"prompts"`
	}
	if err := s.do(ctx, http.MethodGet, "/prompts", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Prompts, nil
}

func (s *apiClient) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, s.serverURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		var payload struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
