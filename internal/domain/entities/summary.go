package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sentiment classifies the overall tone of a meeting
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// NormalizeSentiment maps a provider value onto the allowed set,
// defaulting to neutral for anything unrecognized.
func NormalizeSentiment(s string) Sentiment {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return Sentiment(s)
	default:
		return SentimentNeutral
	}
}

// SummaryResult is the normalized output of the summarization provider
type SummaryResult struct {
	Summary         string   `json:"summary"`
	DeepDiveSummary string   `json:"deepDiveSummary"`
	KeyPoints       []string `json:"keyPoints"`
	ActionItems     []string `json:"actionItems"`
	Topics          []string `json:"topics"`
	Participants    []string `json:"participants"`
	Sentiment       string   `json:"sentiment"`
	CoachingTips    []string `json:"coachingTips"`
}

// Summary is the stored structured analysis, one per meeting
type Summary struct {
	ID           uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID    uuid.UUID                   `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	TranscriptID uuid.UUID                   `json:"transcript_id" gorm:"type:uuid;not null;index"`
	SummaryText  string                      `json:"summary_text" gorm:"type:text;not null"`
	DeepDiveText string                      `json:"deep_dive_text,omitempty" gorm:"type:text"`
	KeyPoints    datatypes.JSONSlice[string] `json:"key_points" gorm:"type:jsonb"`
	ActionItems  datatypes.JSONSlice[string] `json:"action_items" gorm:"type:jsonb"`
	Topics       datatypes.JSONSlice[string] `json:"topics" gorm:"type:jsonb"`
	Participants datatypes.JSONSlice[string] `json:"participants" gorm:"type:jsonb"`
	CoachingTips datatypes.JSONSlice[string] `json:"coaching_tips,omitempty" gorm:"type:jsonb"`
	Sentiment    Sentiment                   `json:"sentiment" gorm:"type:varchar(20);default:'neutral'"`
	ModelUsed    string                      `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	CreatedAt    time.Time                   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Summary) TableName() string {
	return "summaries"
}

// NewSummary builds a Summary entity from a provider result. Array fields
// are never nil so the stored jsonb is always a list.
func NewSummary(meetingID, transcriptID uuid.UUID, result *SummaryResult) *Summary {
	return &Summary{
		ID:           uuid.New(),
		MeetingID:    meetingID,
		TranscriptID: transcriptID,
		SummaryText:  result.Summary,
		DeepDiveText: result.DeepDiveSummary,
		KeyPoints:    jsonSlice(result.KeyPoints),
		ActionItems:  jsonSlice(result.ActionItems),
		Topics:       jsonSlice(result.Topics),
		Participants: jsonSlice(result.Participants),
		CoachingTips: jsonSlice(result.CoachingTips),
		Sentiment:    NormalizeSentiment(result.Sentiment),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// jsonSlice never stores NULL for an absent list
func jsonSlice(values []string) datatypes.JSONSlice[string] {
	if values == nil {
		values = []string{}
	}
	return datatypes.NewJSONSlice(values)
}
