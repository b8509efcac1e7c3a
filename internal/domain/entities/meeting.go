package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents the processing state of a meeting
type MeetingStatus string

const (
	MeetingStatusUploaded     MeetingStatus = "uploaded"     // Created by ingestion, waiting for a pipeline run
	MeetingStatusProcessing   MeetingStatus = "processing"   // Pipeline run started, normalizing the container
	MeetingStatusTranscribing MeetingStatus = "transcribing" // Submitted to a transcription provider
	MeetingStatusSummarizing  MeetingStatus = "summarizing"  // Transcript stored, generating the summary
	MeetingStatusCompleted    MeetingStatus = "completed"    // All artifacts stored
	MeetingStatusFailed       MeetingStatus = "failed"       // A pipeline stage failed
)

// MeetingSource identifies how the video entered the system
type MeetingSource string

const (
	MeetingSourceUpload   MeetingSource = "manual-upload"
	MeetingSourceExternal MeetingSource = "external-ingestion"
)

// statusRank orders the forward path of the state machine. failed is
// terminal and reachable from any non-terminal state, so it has no rank.
var statusRank = map[MeetingStatus]int{
	MeetingStatusUploaded:     0,
	MeetingStatusProcessing:   1,
	MeetingStatusTranscribing: 2,
	MeetingStatusSummarizing:  3,
	MeetingStatusCompleted:    4,
}

// Meeting is one video submission
type Meeting struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID          uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	Title           string        `json:"title" gorm:"type:varchar(500);not null"`
	Description     string        `json:"description,omitempty" gorm:"type:text"`
	VideoPath       string        `json:"video_path" gorm:"type:text;not null"`
	VideoURL        string        `json:"video_url" gorm:"type:text;not null"`
	Source          MeetingSource `json:"source" gorm:"type:varchar(50);not null;index"`
	Status          MeetingStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'uploaded'"`
	ErrorMessage    *string       `json:"error_message,omitempty" gorm:"type:text"`
	DurationSeconds *int          `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a new meeting in uploaded status
func NewMeeting(userID uuid.UUID, title string, source MeetingSource) *Meeting {
	return &Meeting{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Source:    source,
		Status:    MeetingStatusUploaded,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// IsTerminal reports whether the status accepts no further transitions
func (m *Meeting) IsTerminal() bool {
	return m.Status == MeetingStatusCompleted || m.Status == MeetingStatusFailed
}

// CanTransitionTo reports whether moving to the target status keeps the
// state machine monotonic. failed is allowed from any non-terminal state.
func (m *Meeting) CanTransitionTo(target MeetingStatus) bool {
	if m.IsTerminal() {
		return false
	}
	if target == MeetingStatusFailed {
		return true
	}
	from, ok := statusRank[m.Status]
	if !ok {
		return false
	}
	to, ok := statusRank[target]
	if !ok {
		return false
	}
	return to > from
}

// MarkFailed records the failure message and moves to the terminal failed state
func (m *Meeting) MarkFailed(errMsg string) {
	m.Status = MeetingStatusFailed
	m.ErrorMessage = &errMsg
	m.UpdatedAt = time.Now()
}
