package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingAnalytics tracks view activity for a meeting, one per meeting.
// Created by the pipeline at zero counters; mutated only by the read path.
type MeetingAnalytics struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID     uuid.UUID  `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	UserID        uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	ViewCount     int        `json:"view_count" gorm:"default:0"`
	ShareCount    int        `json:"share_count" gorm:"default:0"`
	DownloadCount int        `json:"download_count" gorm:"default:0"`
	LastViewedAt  *time.Time `json:"last_viewed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MeetingAnalytics) TableName() string {
	return "meeting_analytics"
}

// NewMeetingAnalytics creates an analytics record with zero counters
func NewMeetingAnalytics(meetingID, userID uuid.UUID) *MeetingAnalytics {
	return &MeetingAnalytics{
		ID:        uuid.New(),
		MeetingID: meetingID,
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
