package transcription

import (
	"context"
	"fmt"
	"os"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/pkg/config"
)

// AssemblyAIProvider transcribes recordings through the AssemblyAI API.
// The recording is uploaded as-is; AssemblyAI handles audio extraction
// server-side, so no local ffmpeg pass is needed.
type AssemblyAIProvider struct {
	client       *aai.Client
	apiKey       string
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewAssemblyAIProvider creates the provider. An empty API key yields an
// unconfigured provider that the chain skips.
func NewAssemblyAIProvider(cfg *config.AssemblyAIConfig, logger *zap.Logger) *AssemblyAIProvider {
	var apiKey string
	pollInterval := 5 * time.Second
	if cfg != nil {
		apiKey = cfg.APIKey
		if cfg.PollInterval > 0 {
			pollInterval = cfg.PollInterval
		}
	}

	return &AssemblyAIProvider{
		client:       aai.NewClient(apiKey),
		apiKey:       apiKey,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

func (p *AssemblyAIProvider) Name() string { return "assemblyai" }

func (p *AssemblyAIProvider) IsConfigured() bool { return p.apiKey != "" }

// Transcribe uploads the recording, submits a transcription job and polls
// until it reaches a terminal status. The remote transcript is deleted
// best-effort once the text has been retrieved.
func (p *AssemblyAIProvider) Transcribe(ctx context.Context, videoPath string) (*Result, error) {
	f, err := os.Open(videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	uploadURL, err := p.client.Upload(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to upload recording: %w", err)
	}

	p.logger.Info("recording uploaded to assemblyai", zap.String("video_path", videoPath))

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	submitted, err := p.client.Transcripts.SubmitFromURL(ctx, uploadURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to submit transcription job: %w", err)
	}
	if submitted.ID == nil {
		return nil, fmt.Errorf("assemblyai returned no transcript id")
	}
	transcriptID := *submitted.ID

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		transcript, err := p.client.Transcripts.Get(ctx, transcriptID)
		if err != nil {
			return nil, fmt.Errorf("failed to poll transcript %s: %w", transcriptID, err)
		}

		switch transcript.Status {
		case aai.TranscriptStatusCompleted:
			result := &Result{Language: "en"}
			if transcript.Text != nil {
				result.Text = *transcript.Text
			}
			if transcript.LanguageCode != "" {
				result.Language = string(transcript.LanguageCode)
			}
			p.deleteRemote(ctx, transcriptID)
			return result, nil

		case aai.TranscriptStatusError:
			msg := "transcription failed"
			if transcript.Error != nil {
				msg = *transcript.Error
			}
			p.deleteRemote(ctx, transcriptID)
			return nil, fmt.Errorf("assemblyai error: %s", msg)

		case aai.TranscriptStatusQueued, aai.TranscriptStatusProcessing:
			// keep polling
		default:
			p.logger.Warn("unknown transcript status",
				zap.String("transcript_id", transcriptID),
				zap.String("status", string(transcript.Status)))
		}
	}
}

// deleteRemote removes the transcript from AssemblyAI storage. Failures are
// logged and ignored; the text has already been retrieved.
func (p *AssemblyAIProvider) deleteRemote(ctx context.Context, transcriptID string) {
	if _, err := p.client.Transcripts.Delete(ctx, transcriptID); err != nil {
		p.logger.Warn("failed to delete remote transcript",
			zap.String("transcript_id", transcriptID),
			zap.Error(err))
	}
}
