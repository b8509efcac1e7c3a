package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
)

// MeetingRepository defines meeting persistence operations
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entities.Meeting, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error
	UpdateVideoURL(ctx context.Context, id uuid.UUID, videoPath, videoURL string) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}
