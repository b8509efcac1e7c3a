package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

var (
	keyMeetingID contextKey = "meeting_id"
	keyWorkerID  contextKey = "worker_id"
	keyStage     contextKey = "stage"
	keyStartTime contextKey = "start_time"
)

// RunMetadata holds metadata for one pipeline run
type RunMetadata struct {
	MeetingID uuid.UUID
	WorkerID  int
	Stage     string
	StartTime time.Time
}

// Begin derives a run context carrying meeting and worker metadata. The
// run itself carries no deadline; provider polling on long recordings
// takes as long as it takes, and only the external HTTP calls have their
// own client-level timeouts.
func Begin(parent context.Context, meetingID uuid.UUID, workerID int) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ctx = context.WithValue(ctx, keyMeetingID, meetingID)
	ctx = context.WithValue(ctx, keyWorkerID, workerID)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx, cancel
}

// WithStage records the pipeline stage currently executing
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, keyStage, stage)
}

// MeetingID extracts the meeting ID from the run context
func MeetingID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyMeetingID).(uuid.UUID)
	return id, ok
}

// WorkerID extracts the worker ID, -1 when absent
func WorkerID(ctx context.Context) int {
	id, ok := ctx.Value(keyWorkerID).(int)
	if !ok {
		return -1
	}
	return id
}

// Stage extracts the current pipeline stage
func Stage(ctx context.Context) string {
	stage, _ := ctx.Value(keyStage).(string)
	return stage
}

// Elapsed reports how long the run has been executing
func Elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(keyStartTime).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// Metadata extracts all run metadata from the context
func Metadata(ctx context.Context) *RunMetadata {
	id, _ := MeetingID(ctx)
	start, _ := ctx.Value(keyStartTime).(time.Time)
	return &RunMetadata{
		MeetingID: id,
		WorkerID:  WorkerID(ctx),
		Stage:     Stage(ctx),
		StartTime: start,
	}
}
