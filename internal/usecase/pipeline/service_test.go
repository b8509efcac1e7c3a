package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
	"github.com/meetscribe-team/meetscribe/internal/usecase/transcription"
)

type memMeetingRepo struct {
	mu       sync.Mutex
	meetings map[uuid.UUID]*entities.Meeting
	statuses []entities.MeetingStatus
}

func newMemMeetingRepo() *memMeetingRepo {
	return &memMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting)}
}

func (r *memMeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meetings[m.ID] = m
	return nil
}

func (r *memMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (r *memMeetingRepo) FindByUserID(_ context.Context, _ uuid.UUID, _, _ int) ([]entities.Meeting, int64, error) {
	return nil, 0, nil
}

func (r *memMeetingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return errors.New("meeting not found")
	}
	if !m.CanTransitionTo(status) {
		return errors.New("invalid status transition")
	}
	m.Status = status
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *memMeetingRepo) UpdateVideoURL(_ context.Context, id uuid.UUID, videoPath, videoURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return errors.New("meeting not found")
	}
	m.VideoPath = videoPath
	m.VideoURL = videoURL
	return nil
}

func (r *memMeetingRepo) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return errors.New("meeting not found")
	}
	m.MarkFailed(errMsg)
	r.statuses = append(r.statuses, entities.MeetingStatusFailed)
	return nil
}

type memTranscriptRepo struct {
	mu      sync.Mutex
	records []*entities.Transcript
}

func (r *memTranscriptRepo) Create(_ context.Context, t *entities.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, t)
	return nil
}

func (r *memTranscriptRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.records {
		if t.MeetingID == meetingID {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memTranscriptRepo) SetCleanedText(_ context.Context, id uuid.UUID, cleanedText string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.records {
		if t.ID == id {
			t.CleanedText = cleanedText
			return nil
		}
	}
	return errors.New("transcript not found")
}

type memSummaryRepo struct {
	mu      sync.Mutex
	records []*entities.Summary
}

func (r *memSummaryRepo) Create(_ context.Context, s *entities.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, s)
	return nil
}

func (r *memSummaryRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.records {
		if s.MeetingID == meetingID {
			return s, nil
		}
	}
	return nil, nil
}

type memAnalyticsRepo struct {
	mu      sync.Mutex
	records []*entities.MeetingAnalytics
}

func (r *memAnalyticsRepo) Create(_ context.Context, a *entities.MeetingAnalytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, a)
	return nil
}

func (r *memAnalyticsRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.MeetingAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.MeetingID == meetingID {
			return a, nil
		}
	}
	return nil, nil
}

func (r *memAnalyticsRepo) IncrementViewCount(_ context.Context, _ uuid.UUID) error     { return nil }
func (r *memAnalyticsRepo) IncrementShareCount(_ context.Context, _ uuid.UUID) error    { return nil }
func (r *memAnalyticsRepo) IncrementDownloadCount(_ context.Context, _ uuid.UUID) error { return nil }

type stubNormalizer struct {
	out string
	err error
}

func (s *stubNormalizer) EnsureMP4(_ context.Context, videoPath string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.out != "" {
		return s.out, nil
	}
	return videoPath, nil
}

type stubTranscriber struct {
	result *transcription.Result
	err    error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ string) (*transcription.Result, error) {
	return s.result, s.err
}

type stubSummarizer struct {
	result *entities.SummaryResult
	err    error
	panics bool
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string) (*entities.SummaryResult, error) {
	if s.panics {
		panic("summarizer exploded")
	}
	return s.result, s.err
}

type fixture struct {
	svc        *Service
	meetings   *memMeetingRepo
	transcript *memTranscriptRepo
	summaries  *memSummaryRepo
	analytics  *memAnalyticsRepo
	meeting    *entities.Meeting
}

func newFixture(t *testing.T, normalizer VideoNormalizer, transcriber Transcriber, summarizer Summarizer) *fixture {
	t.Helper()

	meetings := newMemMeetingRepo()
	transcripts := &memTranscriptRepo{}
	summaries := &memSummaryRepo{}
	analytics := &memAnalyticsRepo{}

	meeting := entities.NewMeeting(uuid.New(), "weekly sync", entities.MeetingSourceUpload)
	meeting.VideoPath = "/uploads/weekly.webm"
	meeting.VideoURL = "http://localhost:8080/uploads/weekly.webm"
	require.NoError(t, meetings.Create(context.Background(), meeting))

	svc := NewService(meetings, transcripts, summaries, analytics,
		normalizer, transcriber, summarizer, nil, zap.NewNop())

	return &fixture{
		svc:        svc,
		meetings:   meetings,
		transcript: transcripts,
		summaries:  summaries,
		analytics:  analytics,
		meeting:    meeting,
	}
}

func TestRunCompletesPipeline(t *testing.T) {
	f := newFixture(t,
		&stubNormalizer{out: "/uploads/weekly.mp4"},
		&stubTranscriber{result: &transcription.Result{Text: "um we agreed. we agreed. ship friday", Language: "en"}},
		&stubSummarizer{result: &entities.SummaryResult{Summary: "team agreed to ship friday", Sentiment: "positive"}},
	)

	err := f.svc.Run(context.Background(), f.meeting.ID, f.meeting.VideoPath)
	require.NoError(t, err)

	stored, _ := f.meetings.FindByID(context.Background(), f.meeting.ID)
	assert.Equal(t, entities.MeetingStatusCompleted, stored.Status)
	assert.Nil(t, stored.ErrorMessage)
	assert.Equal(t, "/uploads/weekly.mp4", stored.VideoPath)
	assert.Equal(t, "http://localhost:8080/uploads/weekly.mp4", stored.VideoURL)

	assert.Equal(t, []entities.MeetingStatus{
		entities.MeetingStatusProcessing,
		entities.MeetingStatusTranscribing,
		entities.MeetingStatusSummarizing,
		entities.MeetingStatusCompleted,
	}, f.meetings.statuses)

	require.Len(t, f.transcript.records, 1)
	tr := f.transcript.records[0]
	assert.Equal(t, "um we agreed. we agreed. ship friday", tr.RawText)
	assert.Equal(t, "We agreed. Ship friday", tr.CleanedText)
	assert.Equal(t, 7, tr.WordCount)

	require.Len(t, f.summaries.records, 1)
	assert.Equal(t, "team agreed to ship friday", f.summaries.records[0].SummaryText)
	assert.Equal(t, entities.SentimentPositive, f.summaries.records[0].Sentiment)
	assert.Equal(t, tr.ID, f.summaries.records[0].TranscriptID)

	require.Len(t, f.analytics.records, 1)
	assert.Equal(t, 0, f.analytics.records[0].ViewCount)
	assert.Equal(t, f.meeting.UserID, f.analytics.records[0].UserID)
}

func TestRunNormalizeFailureMarksFailed(t *testing.T) {
	convErr := &entities.ConversionError{Path: "/uploads/weekly.webm", Err: errors.New("bad container")}
	f := newFixture(t,
		&stubNormalizer{err: convErr},
		&stubTranscriber{},
		&stubSummarizer{},
	)

	err := f.svc.Run(context.Background(), f.meeting.ID, f.meeting.VideoPath)
	require.Error(t, err)

	stored, _ := f.meetings.FindByID(context.Background(), f.meeting.ID)
	assert.Equal(t, entities.MeetingStatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.NotEmpty(t, *stored.ErrorMessage)

	assert.Empty(t, f.transcript.records)
	assert.Empty(t, f.summaries.records)
	assert.Empty(t, f.analytics.records)
}

func TestRunTranscriptionFailureMarksFailed(t *testing.T) {
	f := newFixture(t,
		&stubNormalizer{},
		&stubTranscriber{err: &entities.TranscriptionError{Provider: "whisper", Err: errors.New("exhausted")}},
		&stubSummarizer{},
	)

	err := f.svc.Run(context.Background(), f.meeting.ID, f.meeting.VideoPath)
	require.Error(t, err)

	stored, _ := f.meetings.FindByID(context.Background(), f.meeting.ID)
	assert.Equal(t, entities.MeetingStatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Contains(t, *stored.ErrorMessage, "whisper")
}

func TestRunRecoversFromPanic(t *testing.T) {
	f := newFixture(t,
		&stubNormalizer{},
		&stubTranscriber{result: &transcription.Result{Text: "text", Language: "en"}},
		&stubSummarizer{panics: true},
	)

	err := f.svc.Run(context.Background(), f.meeting.ID, f.meeting.VideoPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")

	stored, _ := f.meetings.FindByID(context.Background(), f.meeting.ID)
	assert.Equal(t, entities.MeetingStatusFailed, stored.Status)
}

func TestRunUnknownMeeting(t *testing.T) {
	f := newFixture(t, &stubNormalizer{}, &stubTranscriber{}, &stubSummarizer{})

	err := f.svc.Run(context.Background(), uuid.New(), "/uploads/missing.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRunNoOpNormalizeKeepsURL(t *testing.T) {
	f := newFixture(t,
		&stubNormalizer{},
		&stubTranscriber{result: &transcription.Result{Text: "short", Language: "en"}},
		&stubSummarizer{result: &entities.SummaryResult{Summary: "s"}},
	)

	require.NoError(t, f.svc.Run(context.Background(), f.meeting.ID, f.meeting.VideoPath))

	stored, _ := f.meetings.FindByID(context.Background(), f.meeting.ID)
	assert.Equal(t, "http://localhost:8080/uploads/weekly.webm", stored.VideoURL)
}

func TestQueueProcessesJobs(t *testing.T) {
	f := newFixture(t,
		&stubNormalizer{},
		&stubTranscriber{result: &transcription.Result{Text: "text", Language: "en"}},
		&stubSummarizer{result: &entities.SummaryResult{Summary: "s"}},
	)

	q := NewQueue(f.svc, 2, 8, zap.NewNop())
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(f.meeting.ID, f.meeting.VideoPath))
	q.Stop()

	stored, _ := f.meetings.FindByID(context.Background(), f.meeting.ID)
	assert.Equal(t, entities.MeetingStatusCompleted, stored.Status)
}

func TestQueueRejectsWhenFull(t *testing.T) {
	blocker := make(chan struct{})
	runner := runnerFunc(func(ctx context.Context, _ uuid.UUID, _ string) error {
		<-blocker
		return nil
	})

	q := NewQueue(runner, 1, 1, zap.NewNop())
	q.Start(context.Background())

	// first job occupies the worker, second fills the buffer
	require.NoError(t, q.Enqueue(uuid.New(), "a"))
	waitForBuffer := func() bool {
		return q.Enqueue(uuid.New(), "b") == nil
	}
	require.Eventually(t, waitForBuffer, time.Second, 10*time.Millisecond)

	err := q.Enqueue(uuid.New(), "c")
	require.ErrorIs(t, err, ErrQueueFull)

	close(blocker)
	q.Stop()
}

func TestQueueRejectsAfterStop(t *testing.T) {
	q := NewQueue(runnerFunc(func(context.Context, uuid.UUID, string) error { return nil }), 1, 4, zap.NewNop())
	q.Start(context.Background())
	q.Stop()

	err := q.Enqueue(uuid.New(), "late")
	require.ErrorIs(t, err, ErrQueueStopped)
}

type runnerFunc func(ctx context.Context, meetingID uuid.UUID, videoPath string) error

func (f runnerFunc) Run(ctx context.Context, meetingID uuid.UUID, videoPath string) error {
	return f(ctx, meetingID, videoPath)
}
