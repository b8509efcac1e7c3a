package transcription

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
	"github.com/meetscribe-team/meetscribe/pkg/ai"
)

// AudioExtractor produces a compressed audio sibling for a recording.
// Satisfied by media.Normalizer.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
}

// WhisperTranscriber is the synchronous transcription call behind the
// provider. Satisfied by ai.WhisperClient.
type WhisperTranscriber interface {
	IsConfigured() bool
	TranscribeFile(ctx context.Context, audioPath string) (*ai.WhisperResponse, error)
}

// WhisperProvider transcribes through the OpenAI audio API. Whisper only
// accepts audio payloads up to a fixed size, so the recording is first
// reduced to a compressed mono track and checked against the ceiling
// before any bytes go over the wire.
type WhisperProvider struct {
	client    WhisperTranscriber
	extractor AudioExtractor
	maxBytes  int64
	logger    *zap.Logger
}

// NewWhisperProvider creates the provider. maxPayloadMB bounds the extracted
// audio size; zero or negative falls back to the API's 25 MB limit.
func NewWhisperProvider(client WhisperTranscriber, extractor AudioExtractor, maxPayloadMB int64, logger *zap.Logger) *WhisperProvider {
	if maxPayloadMB <= 0 {
		maxPayloadMB = 25
	}
	return &WhisperProvider{
		client:    client,
		extractor: extractor,
		maxBytes:  maxPayloadMB << 20,
		logger:    logger,
	}
}

func (p *WhisperProvider) Name() string { return "whisper" }

func (p *WhisperProvider) IsConfigured() bool { return p.client.IsConfigured() }

// Transcribe extracts audio, enforces the payload ceiling, and submits the
// file synchronously. The extracted audio is removed whatever the outcome.
func (p *WhisperProvider) Transcribe(ctx context.Context, videoPath string) (*Result, error) {
	audioPath, err := p.extractor.ExtractAudio(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(audioPath); rmErr != nil {
			p.logger.Warn("failed to remove extracted audio",
				zap.String("audio_path", audioPath),
				zap.Error(rmErr))
		}
	}()

	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat extracted audio: %w", err)
	}
	if info.Size() > p.maxBytes {
		return nil, &entities.PayloadTooLargeError{
			Path:  audioPath,
			Size:  info.Size(),
			Limit: p.maxBytes,
		}
	}

	p.logger.Info("submitting audio to whisper",
		zap.String("audio_path", audioPath),
		zap.Int64("size_bytes", info.Size()))

	resp, err := p.client.TranscribeFile(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	result := &Result{Text: resp.Text, Language: resp.Language}
	if result.Language == "" {
		result.Language = "en"
	}
	return result, nil
}
