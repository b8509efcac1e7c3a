package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
	"github.com/meetscribe-team/meetscribe/internal/domain/repositories"
	"github.com/meetscribe-team/meetscribe/internal/usecase/transcript"
	"github.com/meetscribe-team/meetscribe/internal/usecase/transcription"
	"github.com/meetscribe-team/meetscribe/pkg/jobcontext"
)

// VideoNormalizer prepares the recording container. Satisfied by
// media.Normalizer.
type VideoNormalizer interface {
	EnsureMP4(ctx context.Context, videoPath string) (string, error)
}

// Transcriber produces a transcript for a recording. Satisfied by
// transcription.Service.
type Transcriber interface {
	Transcribe(ctx context.Context, videoPath string) (*transcription.Result, error)
}

// Summarizer analyzes a cleaned transcript. Satisfied by summary.Service.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*entities.SummaryResult, error)
}

// DetailInvalidator drops any cached detail view for a meeting. Satisfied
// by the meeting read path's cache.
type DetailInvalidator interface {
	InvalidateMeeting(ctx context.Context, meetingID uuid.UUID) error
}

// Service runs the processing pipeline for one meeting at a time:
// normalize, transcribe, clean, summarize, record analytics.
type Service struct {
	meetingRepo    repositories.MeetingRepository
	transcriptRepo repositories.TranscriptRepository
	summaryRepo    repositories.SummaryRepository
	analyticsRepo  repositories.AnalyticsRepository
	normalizer     VideoNormalizer
	transcriber    Transcriber
	summarizer     Summarizer
	invalidator    DetailInvalidator
	logger         *zap.Logger
}

// NewService wires the pipeline stages. invalidator may be nil when no
// detail cache is in play.
func NewService(
	meetingRepo repositories.MeetingRepository,
	transcriptRepo repositories.TranscriptRepository,
	summaryRepo repositories.SummaryRepository,
	analyticsRepo repositories.AnalyticsRepository,
	normalizer VideoNormalizer,
	transcriber Transcriber,
	summarizer Summarizer,
	invalidator DetailInvalidator,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetingRepo:    meetingRepo,
		transcriptRepo: transcriptRepo,
		summaryRepo:    summaryRepo,
		analyticsRepo:  analyticsRepo,
		normalizer:     normalizer,
		transcriber:    transcriber,
		summarizer:     summarizer,
		invalidator:    invalidator,
		logger:         logger,
	}
}

// Run executes the full pipeline for the meeting. Any stage failure, panic
// included, moves the meeting to the terminal failed state with the error
// message stored, and returns the error to the caller.
func (s *Service) Run(ctx context.Context, meetingID uuid.UUID, localVideoPath string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pipeline panic: %v", p)
		}
		if err != nil {
			s.logger.Error("pipeline run failed",
				zap.String("meeting_id", meetingID.String()),
				zap.String("stage", jobcontext.Stage(ctx)),
				zap.Error(err))
			if markErr := s.meetingRepo.MarkFailed(context.WithoutCancel(ctx), meetingID, err.Error()); markErr != nil {
				s.logger.Error("failed to mark meeting as failed",
					zap.String("meeting_id", meetingID.String()),
					zap.Error(markErr))
			}
		}
	}()

	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return fmt.Errorf("meeting %s not found", meetingID)
	}

	ctx = jobcontext.WithStage(ctx, "processing")
	if err = s.meetingRepo.UpdateStatus(ctx, meetingID, entities.MeetingStatusProcessing); err != nil {
		return err
	}

	videoPath, err := s.normalizer.EnsureMP4(ctx, localVideoPath)
	if err != nil {
		return err
	}
	if videoPath != localVideoPath {
		newURL := swapExtension(meeting.VideoURL, ".mp4")
		if err = s.meetingRepo.UpdateVideoURL(ctx, meetingID, videoPath, newURL); err != nil {
			return err
		}
	}

	ctx = jobcontext.WithStage(ctx, "transcribing")
	if err = s.meetingRepo.UpdateStatus(ctx, meetingID, entities.MeetingStatusTranscribing); err != nil {
		return err
	}

	result, err := s.transcriber.Transcribe(ctx, videoPath)
	if err != nil {
		return err
	}

	tr := entities.NewTranscript(meetingID, result.Text, result.Language)
	if err = s.transcriptRepo.Create(ctx, tr); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}

	cleaned := transcript.Clean(result.Text)
	if err = s.transcriptRepo.SetCleanedText(ctx, tr.ID, cleaned); err != nil {
		return fmt.Errorf("failed to store cleaned transcript: %w", err)
	}

	ctx = jobcontext.WithStage(ctx, "summarizing")
	if err = s.meetingRepo.UpdateStatus(ctx, meetingID, entities.MeetingStatusSummarizing); err != nil {
		return err
	}

	analysisInput := cleaned
	if analysisInput == "" {
		analysisInput = result.Text
	}
	analysis, err := s.summarizer.Summarize(ctx, analysisInput)
	if err != nil {
		return err
	}

	if err = s.summaryRepo.Create(ctx, entities.NewSummary(meetingID, tr.ID, analysis)); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}

	if err = s.analyticsRepo.Create(ctx, entities.NewMeetingAnalytics(meetingID, meeting.UserID)); err != nil {
		return fmt.Errorf("failed to store analytics: %w", err)
	}

	if err = s.meetingRepo.UpdateStatus(ctx, meetingID, entities.MeetingStatusCompleted); err != nil {
		return err
	}

	if s.invalidator != nil {
		if invErr := s.invalidator.InvalidateMeeting(ctx, meetingID); invErr != nil {
			s.logger.Warn("failed to invalidate meeting detail cache",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(invErr))
		}
	}

	s.logger.Info("pipeline run completed",
		zap.String("meeting_id", meetingID.String()),
		zap.Int("word_count", tr.WordCount),
		zap.Duration("elapsed", jobcontext.Elapsed(ctx)))

	return nil
}

func swapExtension(locator, newExt string) string {
	ext := filepath.Ext(locator)
	if ext == "" {
		return locator
	}
	return strings.TrimSuffix(locator, ext) + newExt
}
