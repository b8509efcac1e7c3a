package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/pkg/jobcontext"
)

// Enqueue rejection reasons, matchable with errors.Is so callers can
// surface backpressure distinctly from other failures.
var (
	ErrQueueFull    = errors.New("pipeline queue is full")
	ErrQueueStopped = errors.New("pipeline queue is stopped")
)

// Job is one queued pipeline run
type Job struct {
	MeetingID uuid.UUID
	VideoPath string
}

// Runner executes one pipeline run. Satisfied by Service.
type Runner interface {
	Run(ctx context.Context, meetingID uuid.UUID, localVideoPath string) error
}

// Queue feeds pipeline runs to a fixed pool of workers. The worker count
// bounds how many meetings are processed concurrently.
type Queue struct {
	runner  Runner
	jobs    chan Job
	workers int
	logger  *zap.Logger

	wg       sync.WaitGroup
	stopOnce sync.Once
	mu       sync.Mutex
	stopped  bool
}

// NewQueue creates a queue with the given worker count and buffer size
func NewQueue(runner Runner, workers, queueSize int, logger *zap.Logger) *Queue {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Queue{
		runner:  runner,
		jobs:    make(chan Job, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// Start launches the worker pool. Workers exit when the queue is stopped
// or the context is cancelled.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
	q.logger.Info("pipeline workers started", zap.Int("workers", q.workers))
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			runCtx, cancel := jobcontext.Begin(ctx, job.MeetingID, id)
			if err := q.runner.Run(runCtx, job.MeetingID, job.VideoPath); err != nil {
				q.logger.Error("pipeline job failed",
					zap.Int("worker_id", id),
					zap.String("meeting_id", job.MeetingID.String()),
					zap.Error(err))
			}
			cancel()
		}
	}
}

// Enqueue submits a run without blocking. A full queue or a stopped pool
// rejects the job so the caller can surface the backpressure.
func (q *Queue) Enqueue(meetingID uuid.UUID, videoPath string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return ErrQueueStopped
	}

	select {
	case q.jobs <- Job{MeetingID: meetingID, VideoPath: videoPath}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight runs to finish. Queued
// jobs are drained before the workers exit.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.stopped = true
		q.mu.Unlock()
		close(q.jobs)
		q.wg.Wait()
		q.logger.Info("pipeline workers stopped")
	})
}
