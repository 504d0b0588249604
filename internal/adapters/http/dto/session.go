package dto

import (
	"time"

	"github.com/insightlabs/insight/internal/domain/models"
)

type SessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSessionResponse(s *models.Session) *SessionResponse {
	return &SessionResponse{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
}

type MessageResponse struct {
	ID        string                    `json:"id"`
	Sequence  int                       `json:"sequence"`
	Role      string                    `json:"role"`
	Content   string                    `json:"content"`
	Calls     []models.CapabilityCall   `json:"calls,omitempty"`
	Results   []models.CapabilityResult `json:"results,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

func NewMessageResponse(m *models.Message) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		Sequence:  m.Sequence,
		Role:      string(m.Role),
		Content:   m.Content,
		Calls:     m.Calls,
		Results:   m.Results,
		CreatedAt: m.CreatedAt,
	}
}

type MessageListResponse struct {
	Messages []*MessageResponse `json:"messages"`
}
