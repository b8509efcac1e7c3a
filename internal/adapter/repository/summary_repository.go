package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
)

// SummaryRepository handles summary data operations
type SummaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Create creates a new summary
func (r *SummaryRepository) Create(ctx context.Context, summary *entities.Summary) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}
	return r.db.WithContext(ctx).Create(summary).Error
}

// FindByMeetingID retrieves the summary for a meeting
func (r *SummaryRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Summary, error) {
	var summary entities.Summary
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}
