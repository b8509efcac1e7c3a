package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
)

// TranscriptRepository handles transcript data operations
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Create creates a new transcript
func (r *TranscriptRepository) Create(ctx context.Context, transcript *entities.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	return r.db.WithContext(ctx).Create(transcript).Error
}

// FindByMeetingID retrieves the transcript for a meeting
func (r *TranscriptRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transcript, nil
}

// SetCleanedText stores the cleaned text onto an existing transcript
func (r *TranscriptRepository) SetCleanedText(ctx context.Context, id uuid.UUID, cleanedText string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Transcript{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cleaned_text": cleanedText,
			"updated_at":   time.Now(),
		}).Error
}
