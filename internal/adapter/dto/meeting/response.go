package meeting

import (
	"time"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
	usecase "github.com/meetscribe-team/meetscribe/internal/usecase/meeting"
)

// MeetingResponse is the API shape of one meeting
type MeetingResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	VideoURL        string    `json:"video_url"`
	Source          string    `json:"source"`
	Status          string    `json:"status"`
	ErrorMessage    *string   `json:"error_message,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewMeetingResponse maps a meeting entity onto the API shape
func NewMeetingResponse(m *entities.Meeting) *MeetingResponse {
	return &MeetingResponse{
		ID:              m.ID.String(),
		UserID:          m.UserID.String(),
		Title:           m.Title,
		Description:     m.Description,
		VideoURL:        m.VideoURL,
		Source:          string(m.Source),
		Status:          string(m.Status),
		ErrorMessage:    m.ErrorMessage,
		DurationSeconds: m.DurationSeconds,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// TranscriptResponse is the API shape of a stored transcript
type TranscriptResponse struct {
	ID          string `json:"id"`
	RawText     string `json:"raw_text"`
	CleanedText string `json:"cleaned_text,omitempty"`
	Language    string `json:"language"`
	WordCount   int    `json:"word_count"`
}

// SummaryResponse is the API shape of a stored summary
type SummaryResponse struct {
	ID           string   `json:"id"`
	Summary      string   `json:"summary"`
	DeepDive     string   `json:"deep_dive,omitempty"`
	KeyPoints    []string `json:"key_points"`
	ActionItems  []string `json:"action_items"`
	Topics       []string `json:"topics"`
	Participants []string `json:"participants"`
	CoachingTips []string `json:"coaching_tips,omitempty"`
	Sentiment    string   `json:"sentiment"`
}

// AnalyticsResponse is the API shape of meeting analytics
type AnalyticsResponse struct {
	ViewCount     int        `json:"view_count"`
	ShareCount    int        `json:"share_count"`
	DownloadCount int        `json:"download_count"`
	LastViewedAt  *time.Time `json:"last_viewed_at,omitempty"`
}

// DetailResponse bundles a meeting with its pipeline artifacts
type DetailResponse struct {
	Meeting    *MeetingResponse    `json:"meeting"`
	Transcript *TranscriptResponse `json:"transcript,omitempty"`
	Summary    *SummaryResponse    `json:"summary,omitempty"`
	Analytics  *AnalyticsResponse  `json:"analytics,omitempty"`
}

// NewDetailResponse maps a usecase detail view onto the API shape
func NewDetailResponse(d *usecase.Detail) *DetailResponse {
	resp := &DetailResponse{Meeting: NewMeetingResponse(d.Meeting)}

	if d.Transcript != nil {
		resp.Transcript = &TranscriptResponse{
			ID:          d.Transcript.ID.String(),
			RawText:     d.Transcript.RawText,
			CleanedText: d.Transcript.CleanedText,
			Language:    d.Transcript.Language,
			WordCount:   d.Transcript.WordCount,
		}
	}
	if d.Summary != nil {
		resp.Summary = &SummaryResponse{
			ID:           d.Summary.ID.String(),
			Summary:      d.Summary.SummaryText,
			DeepDive:     d.Summary.DeepDiveText,
			KeyPoints:    []string(d.Summary.KeyPoints),
			ActionItems:  []string(d.Summary.ActionItems),
			Topics:       []string(d.Summary.Topics),
			Participants: []string(d.Summary.Participants),
			CoachingTips: []string(d.Summary.CoachingTips),
			Sentiment:    string(d.Summary.Sentiment),
		}
	}
	if d.Analytics != nil {
		resp.Analytics = &AnalyticsResponse{
			ViewCount:     d.Analytics.ViewCount,
			ShareCount:    d.Analytics.ShareCount,
			DownloadCount: d.Analytics.DownloadCount,
			LastViewedAt:  d.Analytics.LastViewedAt,
		}
	}

	return resp
}

// ListResponse is a paginated list of meetings
type ListResponse struct {
	Meetings   []MeetingResponse `json:"meetings"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalItems int64             `json:"total_items"`
}

// NewListResponse maps a page of meetings onto the API shape
func NewListResponse(meetings []entities.Meeting, page, pageSize int, total int64) *ListResponse {
	out := make([]MeetingResponse, 0, len(meetings))
	for i := range meetings {
		out = append(out, *NewMeetingResponse(&meetings[i]))
	}
	return &ListResponse{
		Meetings:   out,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
	}
}
