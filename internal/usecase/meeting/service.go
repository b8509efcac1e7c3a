package meeting

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
	"github.com/meetscribe-team/meetscribe/internal/domain/repositories"
	"github.com/meetscribe-team/meetscribe/pkg/config"
)

// VideoStorage stores recordings in object storage and returns a public
// locator. Satisfied by storage.VideoStore.
type VideoStorage interface {
	UploadVideo(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

// Enqueuer schedules a pipeline run. Satisfied by pipeline.Queue.
type Enqueuer interface {
	Enqueue(meetingID uuid.UUID, videoPath string) error
}

// DetailCache caches rendered meeting detail views. Satisfied by
// cache.DetailCache.
type DetailCache interface {
	GetMeetingDetail(ctx context.Context, meetingID uuid.UUID, dest any) (bool, error)
	SetMeetingDetail(ctx context.Context, meetingID uuid.UUID, detail any) error
}

// Detail is the full artifact view for one meeting
type Detail struct {
	Meeting    *entities.Meeting          `json:"meeting"`
	Transcript *entities.Transcript       `json:"transcript,omitempty"`
	Summary    *entities.Summary          `json:"summary,omitempty"`
	Analytics  *entities.MeetingAnalytics `json:"analytics,omitempty"`
}

// Service handles meeting ingestion and the read path
type Service struct {
	meetingRepo    repositories.MeetingRepository
	transcriptRepo repositories.TranscriptRepository
	summaryRepo    repositories.SummaryRepository
	analyticsRepo  repositories.AnalyticsRepository
	storage        VideoStorage
	queue          Enqueuer
	cache          DetailCache
	uploadCfg      *config.UploadConfig
	httpClient     *http.Client
	logger         *zap.Logger
}

// NewService wires the ingestion and read path. storage and cache may be
// nil; recordings then stay on local disk and detail reads always hit
// the database.
func NewService(
	meetingRepo repositories.MeetingRepository,
	transcriptRepo repositories.TranscriptRepository,
	summaryRepo repositories.SummaryRepository,
	analyticsRepo repositories.AnalyticsRepository,
	storage VideoStorage,
	queue Enqueuer,
	cache DetailCache,
	uploadCfg *config.UploadConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetingRepo:    meetingRepo,
		transcriptRepo: transcriptRepo,
		summaryRepo:    summaryRepo,
		analyticsRepo:  analyticsRepo,
		storage:        storage,
		queue:          queue,
		cache:          cache,
		uploadCfg:      uploadCfg,
		httpClient:     &http.Client{Timeout: 5 * time.Minute},
		logger:         logger,
	}
}

// IngestUpload stores an uploaded recording, creates the meeting record
// and schedules a pipeline run. The call returns as soon as the run is
// queued; processing happens in the worker pool.
func (s *Service) IngestUpload(ctx context.Context, userID uuid.UUID, title, description, filename string, body io.Reader, size int64, contentType string) (*entities.Meeting, error) {
	meeting := entities.NewMeeting(userID, title, entities.MeetingSourceUpload)
	meeting.Description = description

	localPath, err := s.saveLocal(meeting.ID, filename, body)
	if err != nil {
		return nil, err
	}

	meeting.VideoPath = localPath
	meeting.VideoURL = s.publicLocator(ctx, meeting.ID, localPath, size, contentType)

	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	return meeting, s.schedule(ctx, meeting)
}

// ExternalRecording is a recording pushed by an external integration,
// either as a fetchable URL or an inline base64 payload.
type ExternalRecording struct {
	Title       string
	Description string
	VideoURL    string
	VideoBase64 string
	Filename    string
}

// IngestExternal materializes an externally pushed recording and schedules
// a pipeline run for it.
func (s *Service) IngestExternal(ctx context.Context, userID uuid.UUID, rec *ExternalRecording) (*entities.Meeting, error) {
	meeting := entities.NewMeeting(userID, rec.Title, entities.MeetingSourceExternal)
	meeting.Description = rec.Description

	filename := rec.Filename
	if filename == "" {
		filename = "recording.mp4"
	}

	var source io.Reader
	switch {
	case rec.VideoBase64 != "":
		source = base64.NewDecoder(base64.StdEncoding, strings.NewReader(rec.VideoBase64))
	case rec.VideoURL != "":
		resp, err := s.fetchRemote(ctx, rec.VideoURL)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		source = resp.Body
	default:
		return nil, fmt.Errorf("external recording needs a video URL or inline payload")
	}

	localPath, err := s.saveLocal(meeting.ID, filename, source)
	if err != nil {
		return nil, err
	}

	meeting.VideoPath = localPath
	meeting.VideoURL = s.publicLocator(ctx, meeting.ID, localPath, -1, "video/mp4")

	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	return meeting, s.schedule(ctx, meeting)
}

func (s *Service) fetchRemote(ctx context.Context, videoURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", videoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid recording URL: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recording: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("recording URL returned status %d", resp.StatusCode)
	}
	return resp, nil
}

// saveLocal writes the recording under the upload directory. The pipeline
// reads from this path for ffmpeg and provider uploads.
func (s *Service) saveLocal(meetingID uuid.UUID, filename string, body io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadCfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".mp4"
	}
	localPath := filepath.Join(s.uploadCfg.Dir, meetingID.String()+ext)

	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return localPath, nil
}

// publicLocator uploads the recording to object storage and returns its
// public URL. When storage is absent or fails, the locally served URL is
// used instead so the pipeline can still proceed.
func (s *Service) publicLocator(ctx context.Context, meetingID uuid.UUID, localPath string, size int64, contentType string) string {
	localURL := fmt.Sprintf(s.uploadCfg.LocalURLFmt, filepath.Base(localPath))
	if s.storage == nil {
		return localURL
	}

	f, err := os.Open(localPath)
	if err != nil {
		s.logger.Warn("failed to reopen upload for object storage", zap.Error(err))
		return localURL
	}
	defer f.Close()

	if size < 0 {
		if info, statErr := f.Stat(); statErr == nil {
			size = info.Size()
		}
	}

	objectName := fmt.Sprintf("meetings/%s%s", meetingID, filepath.Ext(localPath))
	url, err := s.storage.UploadVideo(ctx, objectName, f, size, contentType)
	if err != nil {
		s.logger.Warn("object storage upload failed, serving local copy",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err))
		return localURL
	}
	return url
}

func (s *Service) schedule(ctx context.Context, meeting *entities.Meeting) error {
	if err := s.queue.Enqueue(meeting.ID, meeting.VideoPath); err != nil {
		s.logger.Error("failed to enqueue pipeline run",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err))
		if markErr := s.meetingRepo.MarkFailed(ctx, meeting.ID, err.Error()); markErr != nil {
			s.logger.Error("failed to mark unscheduled meeting as failed", zap.Error(markErr))
		}
		return err
	}
	return nil
}

// GetMeeting loads one meeting by id
func (s *Service) GetMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return s.meetingRepo.FindByID(ctx, id)
}

// ListMeetings pages through a user's meetings, newest first
func (s *Service) ListMeetings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entities.Meeting, int64, error) {
	return s.meetingRepo.FindByUserID(ctx, userID, limit, offset)
}

// GetDetail returns the meeting with its transcript, summary and analytics.
// Every detail read counts as a view. Completed meetings are served from
// and written back to the cache.
func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	if s.cache != nil {
		var cached Detail
		hit, err := s.cache.GetMeetingDetail(ctx, id, &cached)
		if err != nil {
			s.logger.Warn("detail cache read failed", zap.Error(err))
		} else if hit {
			s.recordView(ctx, id)
			return &cached, nil
		}
	}

	meeting, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, nil
	}

	detail := &Detail{Meeting: meeting}

	if detail.Transcript, err = s.transcriptRepo.FindByMeetingID(ctx, id); err != nil {
		return nil, err
	}
	if detail.Summary, err = s.summaryRepo.FindByMeetingID(ctx, id); err != nil {
		return nil, err
	}
	if detail.Analytics, err = s.analyticsRepo.FindByMeetingID(ctx, id); err != nil {
		return nil, err
	}

	s.recordView(ctx, id)

	if s.cache != nil && meeting.Status == entities.MeetingStatusCompleted {
		if err := s.cache.SetMeetingDetail(ctx, id, detail); err != nil {
			s.logger.Warn("detail cache write failed", zap.Error(err))
		}
	}

	return detail, nil
}

func (s *Service) recordView(ctx context.Context, id uuid.UUID) {
	if err := s.analyticsRepo.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn("failed to record view",
			zap.String("meeting_id", id.String()),
			zap.Error(err))
	}
}

// RecordShare increments the share counter
func (s *Service) RecordShare(ctx context.Context, id uuid.UUID) error {
	return s.analyticsRepo.IncrementShareCount(ctx, id)
}

// RecordDownload increments the download counter
func (s *Service) RecordDownload(ctx context.Context, id uuid.UUID) error {
	return s.analyticsRepo.IncrementDownloadCount(ctx, id)
}
