package meeting

// UploadMeetingRequest carries the multipart form fields of a direct upload
type UploadMeetingRequest struct {
	UserID      string `form:"user_id" validate:"required,uuid4"`
	Title       string `form:"title" validate:"required,max=500"`
	Description string `form:"description" validate:"max=5000"`
}

// ExternalRecordingRequest is a recording pushed by an integration. Exactly
// one of VideoURL or VideoBase64 must be set; the handler enforces it.
type ExternalRecordingRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid4"`
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description" validate:"max=5000"`
	VideoURL    string `json:"video_url" validate:"omitempty,videourl"`
	VideoBase64 string `json:"video_base64"`
	Filename    string `json:"filename" validate:"max=255"`
}

// ListMeetingsRequest pages through a user's meetings
type ListMeetingsRequest struct {
	UserID   string `query:"user_id" validate:"required,uuid4"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

// Normalize applies paging defaults and bounds
func (r *ListMeetingsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 20
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
}
