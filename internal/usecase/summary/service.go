package summary

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
)

const systemPrompt = "You are an expert meeting analyst. Always respond with valid JSON."

const analysisPromptFmt = `You are an expert meeting analyst. Analyze the following meeting transcript and provide a COMPREHENSIVE report.

Transcript:
"""
%s
"""

Please provide:
1. An EXECUTIVE SUMMARY (approx. 300-500 words) that serves as a high-level overview. This MUST capture the main purpose, ALL critical decisions, key outcomes, and major topics discussed. Ensure that NO important topic is omitted, but keep the writing style tight, professional, and focused on high-value information.

2. Key points discussed (comprehensive list, not just highlights)
3. Action items identified (with responsible parties if mentioned, deadlines if specified)
4. Main topics covered (all topics, not just major ones)
5. Overall sentiment (positive, neutral, or negative)
6. Participants mentioned (if any)
7. Coaching tips: Provide 3-5 constructive suggestions for the meeting participants or organizer to improve future meetings (e.g. regarding clarity, engagement, time management, structure, conflict resolution).
8. A DETAILED DEEP-DIVE SUMMARY: A comprehensive, detailed narrative of the entire meeting, covering all discussions in depth. This should be much longer and more detailed than the executive summary, serving as a full record of the discussion logic and details.

Format your response as JSON with the following structure:
{
  "summary": "string (executive summary, 300-500 words)",
  "deepDiveSummary": "string (detailed, long narrative)",
  "keyPoints": ["string"],
  "actionItems": ["string"],
  "topics": ["string"],
  "participants": ["string"],
  "sentiment": "positive|neutral|negative",
  "coachingTips": ["string"]
}`

// ChatClient is the LLM call behind the service. Satisfied by ai.GroqClient.
type ChatClient interface {
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Service turns a cleaned transcript into a structured meeting analysis
type Service struct {
	client ChatClient
	parser *Parser
	logger *zap.Logger
}

// NewService creates the summarization service
func NewService(client ChatClient, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		parser: NewParser(),
		logger: logger,
	}
}

// Summarize sends the transcript for analysis. A transport or HTTP failure
// is a SummarizationError; a delivered-but-malformed response degrades to a
// raw-text result instead of failing the pipeline.
func (s *Service) Summarize(ctx context.Context, transcript string) (*entities.SummaryResult, error) {
	content, err := s.client.ChatCompletion(ctx, systemPrompt, fmt.Sprintf(analysisPromptFmt, transcript))
	if err != nil {
		return nil, &entities.SummarizationError{Err: err}
	}

	result := s.parser.Parse(content)
	if result.Summary == "" && result.DeepDiveSummary == "" {
		s.logger.Warn("summarization returned empty analysis")
	}
	return result, nil
}
