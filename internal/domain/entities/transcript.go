package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transcript is the stored transcript model, one per meeting.
// CleanedText is populated strictly after RawText, once the cleaning
// pass has run.
type Transcript struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	RawText     string    `json:"raw_text" gorm:"type:text;not null"`
	CleanedText string    `json:"cleaned_text,omitempty" gorm:"type:text"`
	Language    string    `json:"language" gorm:"type:varchar(20);default:'en'"`
	WordCount   int       `json:"word_count" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a transcript from a raw transcription result.
// Word count is derived from the raw text by whitespace splitting.
func NewTranscript(meetingID uuid.UUID, rawText, language string) *Transcript {
	if language == "" {
		language = "en"
	}
	return &Transcript{
		ID:        uuid.New(),
		MeetingID: meetingID,
		RawText:   rawText,
		Language:  language,
		WordCount: len(strings.Fields(rawText)),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
