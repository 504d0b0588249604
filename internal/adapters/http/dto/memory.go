package dto

import (
	"time"

	"github.com/insightlabs/insight/internal/domain/models"
)

type MemoryResponse struct {
	Summary     string            `json:"summary,omitempty"`
	Preferences map[string]string `json:"preferences"`
	Findings    map[string]string `json:"findings"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
}

func NewMemoryResponse(m *models.UserMemory) *MemoryResponse {
	return &MemoryResponse{
		Summary:     m.Summary,
		Preferences: m.Preferences,
		Findings:    m.Findings,
		LastUpdated: m.LastUpdated,
	}
}

type PastAnalysisResponse struct {
	SessionID string    `json:"session_id"`
	Summary   string    `json:"summary,omitempty"`
	Topics    []string  `json:"topics,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type PastAnalysisListResponse struct {
	Analyses []PastAnalysisResponse `json:"analyses"`
}
