package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionToForwardOnly(t *testing.T) {
	m := NewMeeting(uuid.New(), "standup", MeetingSourceUpload)

	assert.True(t, m.CanTransitionTo(MeetingStatusProcessing))
	assert.True(t, m.CanTransitionTo(MeetingStatusCompleted))

	m.Status = MeetingStatusSummarizing
	assert.True(t, m.CanTransitionTo(MeetingStatusCompleted))
	assert.False(t, m.CanTransitionTo(MeetingStatusTranscribing))
	assert.False(t, m.CanTransitionTo(MeetingStatusSummarizing))
}

func TestFailedReachableFromAnyNonTerminalState(t *testing.T) {
	for _, status := range []MeetingStatus{
		MeetingStatusUploaded,
		MeetingStatusProcessing,
		MeetingStatusTranscribing,
		MeetingStatusSummarizing,
	} {
		m := &Meeting{Status: status}
		assert.True(t, m.CanTransitionTo(MeetingStatusFailed), "from %s", status)
	}
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	for _, status := range []MeetingStatus{MeetingStatusCompleted, MeetingStatusFailed} {
		m := &Meeting{Status: status}
		assert.True(t, m.IsTerminal())
		assert.False(t, m.CanTransitionTo(MeetingStatusFailed), "from %s", status)
		assert.False(t, m.CanTransitionTo(MeetingStatusProcessing), "from %s", status)
	}
}

func TestMarkFailedStoresMessage(t *testing.T) {
	m := NewMeeting(uuid.New(), "standup", MeetingSourceExternal)
	m.MarkFailed("transcription failed")

	assert.Equal(t, MeetingStatusFailed, m.Status)
	if assert.NotNil(t, m.ErrorMessage) {
		assert.Equal(t, "transcription failed", *m.ErrorMessage)
	}
}

func TestNewTranscriptWordCount(t *testing.T) {
	tr := NewTranscript(uuid.New(), "  we agreed.  ship friday ", "")

	assert.Equal(t, 4, tr.WordCount)
	assert.Equal(t, "en", tr.Language)
}

func TestNormalizeSentiment(t *testing.T) {
	assert.Equal(t, SentimentPositive, NormalizeSentiment("positive"))
	assert.Equal(t, SentimentNegative, NormalizeSentiment("negative"))
	assert.Equal(t, SentimentNeutral, NormalizeSentiment(""))
	assert.Equal(t, SentimentNeutral, NormalizeSentiment("Positive"))
	assert.Equal(t, SentimentNeutral, NormalizeSentiment("mixed"))
}

func TestNewSummaryNeverStoresNilLists(t *testing.T) {
	s := NewSummary(uuid.New(), uuid.New(), &SummaryResult{
		Summary:   "short recap",
		KeyPoints: []string{"budget approved"},
		Sentiment: "bogus",
	})

	assert.Equal(t, []string{"budget approved"}, []string(s.KeyPoints))
	assert.NotNil(t, s.ActionItems)
	assert.NotNil(t, s.Topics)
	assert.NotNil(t, s.Participants)
	assert.NotNil(t, s.CoachingTips)
	assert.Equal(t, SentimentNeutral, s.Sentiment)
}
