package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
)

// AnalyticsRepository handles meeting analytics data operations
type AnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Create creates a new analytics record
func (r *AnalyticsRepository) Create(ctx context.Context, analytics *entities.MeetingAnalytics) error {
	if analytics == nil {
		return errors.New("analytics cannot be nil")
	}
	return r.db.WithContext(ctx).Create(analytics).Error
}

// FindByMeetingID retrieves the analytics record for a meeting
func (r *AnalyticsRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.MeetingAnalytics, error) {
	var analytics entities.MeetingAnalytics
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&analytics).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &analytics, nil
}

// IncrementViewCount bumps the view counter and last-viewed timestamp
func (r *AnalyticsRepository) IncrementViewCount(ctx context.Context, meetingID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.MeetingAnalytics{}).
		Where("meeting_id = ?", meetingID).
		Updates(map[string]interface{}{
			"view_count":     gorm.Expr("view_count + 1"),
			"last_viewed_at": now,
			"updated_at":     now,
		}).Error
}

// IncrementShareCount bumps the share counter
func (r *AnalyticsRepository) IncrementShareCount(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.MeetingAnalytics{}).
		Where("meeting_id = ?", meetingID).
		Updates(map[string]interface{}{
			"share_count": gorm.Expr("share_count + 1"),
			"updated_at":  time.Now(),
		}).Error
}

// IncrementDownloadCount bumps the download counter
func (r *AnalyticsRepository) IncrementDownloadCount(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.MeetingAnalytics{}).
		Where("meeting_id = ?", meetingID).
		Updates(map[string]interface{}{
			"download_count": gorm.Expr("download_count + 1"),
			"updated_at":     time.Now(),
		}).Error
}
