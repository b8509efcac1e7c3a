package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
)

// MeetingRepository handles meeting data operations
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create creates a new meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by ID
func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// FindByUserID retrieves meetings owned by a user, newest first
func (r *MeetingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entities.Meeting, int64, error) {
	var meetings []entities.Meeting
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Meeting{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit == 0 {
		limit = 20
	}
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&meetings).Error; err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}

// UpdateStatus moves a meeting to the target status. The WHERE clause
// re-checks the stored status so a stale transition never rewinds the
// state machine.
func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	meeting, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if meeting == nil {
		return fmt.Errorf("meeting not found: %s", id)
	}
	if !meeting.CanTransitionTo(status) {
		return fmt.Errorf("invalid status transition %s -> %s for meeting %s", meeting.Status, status, id)
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ?", id, meeting.Status).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("meeting %s changed status concurrently", id)
	}
	return nil
}

// UpdateVideoURL updates the stored video locator after container conversion
func (r *MeetingRepository) UpdateVideoURL(ctx context.Context, id uuid.UUID, videoPath, videoURL string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"video_path": videoPath,
			"video_url":  videoURL,
			"updated_at": time.Now(),
		}).Error
}

// MarkFailed moves a meeting to the terminal failed state with its error message
func (r *MeetingRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status NOT IN ?", id, []entities.MeetingStatus{entities.MeetingStatusCompleted, entities.MeetingStatusFailed}).
		Updates(map[string]interface{}{
			"status":        entities.MeetingStatusFailed,
			"error_message": errMsg,
			"updated_at":    time.Now(),
		}).Error
}
