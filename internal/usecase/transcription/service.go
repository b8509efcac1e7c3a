package transcription

import (
	"context"

	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
)

// Service tries transcription providers in priority order until one
// succeeds. Unconfigured providers are skipped without counting as
// attempts.
type Service struct {
	providers []Provider
	logger    *zap.Logger
}

// NewService creates the fallback chain. Provider order is priority order.
func NewService(logger *zap.Logger, providers ...Provider) *Service {
	return &Service{providers: providers, logger: logger}
}

// Transcribe walks the provider chain. With no configured provider it
// returns a ConfigurationError; when every configured provider fails it
// returns a TranscriptionError wrapping the last failure.
func (s *Service) Transcribe(ctx context.Context, videoPath string) (*Result, error) {
	var (
		lastErr      error
		lastProvider string
		attempted    bool
	)

	for _, p := range s.providers {
		if !p.IsConfigured() {
			s.logger.Debug("skipping unconfigured transcription provider",
				zap.String("provider", p.Name()))
			continue
		}
		attempted = true

		s.logger.Info("attempting transcription",
			zap.String("provider", p.Name()),
			zap.String("video_path", videoPath))

		result, err := p.Transcribe(ctx, videoPath)
		if err == nil {
			s.logger.Info("transcription succeeded",
				zap.String("provider", p.Name()))
			if result.Language == "" {
				result.Language = "en"
			}
			return result, nil
		}

		s.logger.Warn("transcription provider failed",
			zap.String("provider", p.Name()),
			zap.Error(err))
		lastErr = err
		lastProvider = p.Name()
	}

	if !attempted {
		return nil, &entities.ConfigurationError{
			Stage:  "transcription",
			Reason: "no transcription provider has credentials",
		}
	}

	return nil, &entities.TranscriptionError{Provider: lastProvider, Err: lastErr}
}
