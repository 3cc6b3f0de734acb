package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"braindump_backend/pkg/apperrors"
)

// TranscriptionService converts recorded audio to text via the provider's
// speech-to-text endpoint. Unlike categorization there is no useful
// fallback: a failed transcription is an error the client must see.
type TranscriptionService interface {
	Transcribe(ctx context.Context, audioBase64 string) (string, error)
}

type TranscriptionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type TranscriptionServiceImpl struct {
	config TranscriptionConfig
	client *http.Client
}

func NewTranscriptionService(config TranscriptionConfig) TranscriptionService {
	return &TranscriptionServiceImpl{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (s *TranscriptionServiceImpl) Transcribe(ctx context.Context, audioBase64 string) (string, error) {
	if s.config.APIKey == "" {
		return "", apperrors.ErrInvalidOperation("voice", "Transcription is not configured")
	}

	audio, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return "", apperrors.NewBadRequestError("Audio must be base64-encoded")
	}
	if len(audio) == 0 {
		return "", apperrors.NewBadRequestError("Audio must not be empty")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "recording.webm")
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", apperrors.InternalError(err)
	}
	if err := writer.WriteField("model", s.config.Model); err != nil {
		return "", apperrors.InternalError(err)
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.InternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperrors.ErrExternalService(err, "voice", "Transcription request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.ErrExternalService(err, "voice", "Failed to read transcription response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.ErrExternalService(
			fmt.Errorf("transcription endpoint returned HTTP %d", resp.StatusCode),
			"voice", "Transcription request failed")
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperrors.ErrExternalService(err, "voice", "Invalid transcription response")
	}

	return parsed.Text, nil
}
