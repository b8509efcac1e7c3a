package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetscribe-team/meetscribe/pkg/config"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting.wav")
	require.NoError(t, os.WriteFile(path, []byte("fake audio bytes"), 0o644))
	return path
}

func TestWhisperTranscribeFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "json", r.FormValue("response_format"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "meeting.wav", header.Filename)

		w.Write([]byte(`{"text":"hello world","language":"en"}`))
	}))
	defer srv.Close()

	client := NewWhisperClient(&config.OpenAIConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		RequestTimeout: 10 * time.Second,
	})

	resp, err := client.TranscribeFile(context.Background(), writeTempAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Text)
	assert.Equal(t, "en", resp.Language)
}

func TestWhisperRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "upstream busy", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"text":"recovered"}`))
	}))
	defer srv.Close()

	client := NewWhisperClient(&config.OpenAIConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		RequestTimeout: 10 * time.Second,
	})

	resp, err := client.TranscribeFile(context.Background(), writeTempAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Text)
	assert.Equal(t, 3, attempts)
}

func TestWhisperClientErrorNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewWhisperClient(&config.OpenAIConfig{
		APIKey:         "bad-key",
		BaseURL:        srv.URL,
		RequestTimeout: 10 * time.Second,
	})

	_, err := client.TranscribeFile(context.Background(), writeTempAudio(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1, attempts)
}

func TestWhisperIsConfigured(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	assert.False(t, NewWhisperClient(&config.OpenAIConfig{}).IsConfigured())
	assert.True(t, NewWhisperClient(&config.OpenAIConfig{APIKey: "k"}).IsConfigured())
}
