package summary

import (
	"encoding/json"
	"strings"

	"github.com/meetscribe-team/meetscribe/internal/domain/entities"
)

// Parser normalizes LLM responses into a SummaryResult
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes the model output into a SummaryResult. Missing arrays become
// empty slices, a missing or unknown sentiment becomes neutral. When the body
// is not valid JSON the raw text is preserved as both summary and deep dive
// so a malformed response still yields a usable record.
func (p *Parser) Parse(content string) *entities.SummaryResult {
	body := extractJSON(content)

	var result entities.SummaryResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return p.degraded(content)
	}

	result.Sentiment = string(entities.NormalizeSentiment(result.Sentiment))
	ensureSlices(&result)
	return &result
}

func (p *Parser) degraded(raw string) *entities.SummaryResult {
	raw = strings.TrimSpace(raw)
	result := &entities.SummaryResult{
		Summary:         raw,
		DeepDiveSummary: raw,
		Sentiment:       string(entities.SentimentNeutral),
	}
	ensureSlices(result)
	return result
}

func ensureSlices(r *entities.SummaryResult) {
	if r.KeyPoints == nil {
		r.KeyPoints = []string{}
	}
	if r.ActionItems == nil {
		r.ActionItems = []string{}
	}
	if r.Topics == nil {
		r.Topics = []string{}
	}
	if r.Participants == nil {
		r.Participants = []string{}
	}
	if r.CoachingTips == nil {
		r.CoachingTips = []string{}
	}
}

// extractJSON strips markdown code fences some models wrap around JSON
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
