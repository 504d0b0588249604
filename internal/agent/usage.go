package agent

import (
	"time"

	"github.com/insightlabs/insight/internal/domain/models"
)

// accountant collects per-model-call usage records for one turn and
// folds them into a summary. Token fields reported by no call at all
// stay nil in the summary; a reported zero still counts as reported.
type accountant struct {
	records []models.UsageRecord
}

func newAccountant() *accountant {
	return &accountant{}
}

func (a *accountant) record(iteration int, latency time.Duration, tokens models.TokenUsage, callErr error) {
	status := models.CallOK
	if callErr != nil {
		status = models.CallError
	}
	a.records = append(a.records, models.UsageRecord{
		Iteration: iteration,
		Latency:   latency,
		Status:    status,
		Tokens:    tokens,
	})
}

func (a *accountant) summary() *models.UsageSummary {
	if len(a.records) == 0 {
		return nil
	}
	s := &models.UsageSummary{Calls: len(a.records)}
	for _, r := range a.records {
		s.TotalLatency += r.Latency.Milliseconds()
		s.Tokens.Prompt = addTokens(s.Tokens.Prompt, r.Tokens.Prompt)
		s.Tokens.Output = addTokens(s.Tokens.Output, r.Tokens.Output)
		s.Tokens.Total = addTokens(s.Tokens.Total, r.Tokens.Total)
		s.Tokens.Cached = addTokens(s.Tokens.Cached, r.Tokens.Cached)
		s.Tokens.ToolOverhead = addTokens(s.Tokens.ToolOverhead, r.Tokens.ToolOverhead)
	}
	return s
}

func addTokens(sum, v *int) *int {
	if v == nil {
		return sum
	}
	if sum == nil {
		n := *v
		return &n
	}
	n := *sum + *v
	return &n
}
