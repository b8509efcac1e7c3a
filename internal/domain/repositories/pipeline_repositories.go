package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
)

// TranscriptRepository defines transcript persistence operations
type TranscriptRepository interface {
	Create(ctx context.Context, transcript *entities.Transcript) error
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error)
	SetCleanedText(ctx context.Context, id uuid.UUID, cleanedText string) error
}

// SummaryRepository defines summary persistence operations
type SummaryRepository interface {
	Create(ctx context.Context, summary *entities.Summary) error
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Summary, error)
}

// AnalyticsRepository defines analytics persistence operations.
// The pipeline only creates records; counters are incremented by the
// read path.
type AnalyticsRepository interface {
	Create(ctx context.Context, analytics *entities.MeetingAnalytics) error
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.MeetingAnalytics, error)
	IncrementViewCount(ctx context.Context, meetingID uuid.UUID) error
	IncrementShareCount(ctx context.Context, meetingID uuid.UUID) error
	IncrementDownloadCount(ctx context.Context, meetingID uuid.UUID) error
}
