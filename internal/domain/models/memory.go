package models

import "time"

// UserMemory is the durable, cross-session memory attached to a user
// identity: a free-text summary plus keyed preference and finding maps.
type UserMemory struct {
	UserID      string            `json:"user_id"`
	Summary     string            `json:"summary,omitempty"`
	Preferences map[string]string `json:"preferences"`
	Findings    map[string]string `json:"findings"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
}

func NewUserMemory(userID string) *UserMemory {
	return &UserMemory{
		UserID:      userID,
		Preferences: make(map[string]string),
		Findings:    make(map[string]string),
	}
}

// IsEmpty reports whether the user has no persisted memory at all.
func (m *UserMemory) IsEmpty() bool {
	return m.Summary == "" && len(m.Preferences) == 0 && len(m.Findings) == 0
}

// PastAnalysis summarizes a previous session for context recall.
type PastAnalysis struct {
	SessionID string    `json:"session_id"`
	Summary   string    `json:"summary,omitempty"`
	Topics    []string  `json:"topics,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
