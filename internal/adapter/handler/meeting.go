package handler

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/errors"
	dto "github.com/meetscribe-team/meetscribe/internal/adapter/dto/meeting"
	usecase "github.com/meetscribe-team/meetscribe/internal/usecase/meeting"
	"github.com/meetscribe-team/meetscribe/internal/usecase/pipeline"
	"github.com/meetscribe-team/meetscribe/pkg/config"
)

// Meeting handles meeting ingestion and read endpoints
type Meeting struct {
	svc       *usecase.Service
	uploadCfg *config.UploadConfig
	logger    *zap.Logger
}

// NewMeetingHandler creates the meeting handler
func NewMeetingHandler(svc *usecase.Service, uploadCfg *config.UploadConfig, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, uploadCfg: uploadCfg, logger: logger}
}

// Upload receives a multipart recording upload and queues processing
func (h *Meeting) Upload(c echo.Context) error {
	var req dto.UploadMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("user_id must be a UUID"))
	}

	file, err := c.FormFile("video")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("video file is required"))
	}
	if h.uploadCfg.MaxSizeMB > 0 && file.Size > h.uploadCfg.MaxSizeMB<<20 {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("video exceeds maximum upload size"))
	}

	src, err := file.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	m, err := h.svc.IngestUpload(c.Request().Context(), userID, req.Title, req.Description,
		file.Filename, src, file.Size, contentType)
	if err != nil {
		return HandleError(h.logger, c, h.mapIngestError(err))
	}

	return HandleSuccess(h.logger, c, http.StatusAccepted, dto.NewMeetingResponse(m))
}

// ReceiveRecording ingests a recording pushed by an external integration
func (h *Meeting) ReceiveRecording(c echo.Context) error {
	var req dto.ExternalRecordingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if req.VideoURL == "" && req.VideoBase64 == "" {
		return HandleError(h.logger, c, errors.ErrMissingRecordingSource())
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("user_id must be a UUID"))
	}

	m, err := h.svc.IngestExternal(c.Request().Context(), userID, &usecase.ExternalRecording{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		VideoBase64: req.VideoBase64,
		Filename:    req.Filename,
	})
	if err != nil {
		return HandleError(h.logger, c, h.mapIngestError(err))
	}

	return HandleSuccess(h.logger, c, http.StatusAccepted, dto.NewMeetingResponse(m))
}

// Get returns one meeting by id
func (h *Meeting) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("meeting id must be a UUID"))
	}

	m, err := h.svc.GetMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed(err))
	}
	if m == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("meeting"))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, dto.NewMeetingResponse(m))
}

// List pages through a user's meetings
func (h *Meeting) List(c echo.Context) error {
	var req dto.ListMeetingsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	req.Normalize()

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("user_id must be a UUID"))
	}

	meetings, total, err := h.svc.ListMeetings(c.Request().Context(), userID,
		req.PageSize, (req.Page-1)*req.PageSize)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed(err))
	}

	return HandleSuccess(h.logger, c, http.StatusOK,
		dto.NewListResponse(meetings, req.Page, req.PageSize, total))
}

// Detail returns the meeting with transcript, summary and analytics.
// Each call counts as a view.
func (h *Meeting) Detail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("meeting id must be a UUID"))
	}

	detail, err := h.svc.GetDetail(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed(err))
	}
	if detail == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("meeting"))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, dto.NewDetailResponse(detail))
}

// Share records a share event
func (h *Meeting) Share(c echo.Context) error {
	return h.recordCounter(c, h.svc.RecordShare)
}

// Download records a download event
func (h *Meeting) Download(c echo.Context) error {
	return h.recordCounter(c, h.svc.RecordDownload)
}

func (h *Meeting) recordCounter(c echo.Context, record func(ctx context.Context, id uuid.UUID) error) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("meeting id must be a UUID"))
	}
	if err := record(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed(err))
	}
	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// mapIngestError translates ingestion failures onto the API error shape.
// Queue backpressure and shutdown both surface as 503 so the caller
// retries later.
func (h *Meeting) mapIngestError(err error) error {
	if stdErrors.Is(err, pipeline.ErrQueueFull) || stdErrors.Is(err, pipeline.ErrQueueStopped) {
		return errors.ErrQueueFull()
	}
	return errors.ErrProcessingFailed(err)
}
