package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/meetscribe-team/meetscribe/pkg/config"
)

// WhisperClient is a minimal client for the OpenAI audio transcription API
type WhisperClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewWhisperClient creates a Whisper client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewWhisperClient(cfg *config.OpenAIConfig) *WhisperClient {
	var apiKey string
	timeout := 5 * time.Minute
	if cfg != nil {
		apiKey = cfg.APIKey
		if cfg.RequestTimeout > 0 {
			timeout = cfg.RequestTimeout
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("OPENAI_API_URL")
		if base == "" {
			base = "https://api.openai.com"
		}
	}

	return &WhisperClient{
		apiKey:  apiKey,
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}
}

// IsConfigured reports whether an API key is present
func (w *WhisperClient) IsConfigured() bool {
	return w.apiKey != ""
}

// WhisperResponse is the transcription response shape
type WhisperResponse struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// TranscribeFile uploads an audio file to the transcription endpoint and
// returns the result. Transient failures are retried a few times with
// exponential backoff; the multipart body is rebuilt per attempt.
func (w *WhisperClient) TranscribeFile(ctx context.Context, audioPath string) (*WhisperResponse, error) {
	var result WhisperResponse

	submitFn := func() error {
		body, contentType, err := w.buildMultipartBody(audioPath)
		if err != nil {
			return backoff.Permanent(err)
		}

		endpoint := w.baseURL + "/v1/audio/transcriptions"
		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
		req.Header.Set("Content-Type", contentType)

		resp, err := w.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("whisper returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return backoff.Permanent(fmt.Errorf("whisper returned status %d: %s", resp.StatusCode, msg))
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode whisper response: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return &result, nil
}

// buildMultipartBody assembles the form payload for one request attempt
func (w *WhisperClient) buildMultipartBody(audioPath string) (*bytes.Buffer, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("failed to read audio file: %w", err)
	}
	if err := mw.WriteField("model", "whisper-1"); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &buf, mw.FormDataContentType(), nil
}
