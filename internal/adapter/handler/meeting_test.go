package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetscribe-team/meetscribe/errors"
	"github.com/meetscribe-team/meetscribe/internal/usecase/pipeline"
)

func asAppError(t *testing.T, err error) errors.AppError {
	t.Helper()
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	return appErr
}

func TestMapIngestErrorQueueBackpressure(t *testing.T) {
	h := &Meeting{}

	appErr := asAppError(t, h.mapIngestError(pipeline.ErrQueueFull))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPCode)
	assert.Equal(t, errors.ErrorCode_QUEUE_FULL, appErr.Code)

	appErr = asAppError(t, h.mapIngestError(pipeline.ErrQueueStopped))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPCode)
	assert.Equal(t, errors.ErrorCode_QUEUE_FULL, appErr.Code)
}

func TestMapIngestErrorWrappedSentinel(t *testing.T) {
	h := &Meeting{}

	wrapped := fmt.Errorf("failed to schedule run: %w", pipeline.ErrQueueFull)
	appErr := asAppError(t, h.mapIngestError(wrapped))
	assert.Equal(t, errors.ErrorCode_QUEUE_FULL, appErr.Code)
}

func TestMapIngestErrorOtherFailures(t *testing.T) {
	h := &Meeting{}

	appErr := asAppError(t, h.mapIngestError(stdErrors.New("disk full")))
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
	assert.Equal(t, errors.ErrorCode_PROCESSING_FAILED, appErr.Code)
	assert.EqualError(t, appErr.Raw, "disk full")
}
