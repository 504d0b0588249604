package models

import (
	"time"
)

type MessageRole string

const (
	MessageRoleUser       MessageRole = "user"
	MessageRoleAssistant  MessageRole = "assistant"
	MessageRoleToolResult MessageRole = "tool_result"
)

// IsValidRole reports whether r is one of the roles the reasoning model
// accepts in a conversation.
func IsValidRole(r MessageRole) bool {
	switch r {
	case MessageRoleUser, MessageRoleAssistant, MessageRoleToolResult:
		return true
	}
	return false
}

// Message is one turn of a conversation. A message either carries plain text
// content, or (for assistant turns) a batch of capability calls, or (for
// tool_result turns) the results of the preceding batch.
type Message struct {
	ID        string             `json:"id"`
	SessionID string             `json:"session_id"`
	Sequence  int                `json:"sequence"`
	Role      MessageRole        `json:"role"`
	Content   string             `json:"content"`
	Calls     []CapabilityCall   `json:"calls,omitempty"`
	Results   []CapabilityResult `json:"results,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewMessage builds a message without a sequence number; the message
// repository assigns the next sequence on append.
func NewMessage(id, sessionID string, role MessageRole, content string) *Message {
	return &Message{
		ID:        id,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

func NewUserMessage(id, sessionID, content string) *Message {
	return NewMessage(id, sessionID, MessageRoleUser, content)
}

func NewAssistantMessage(id, sessionID, content string) *Message {
	return NewMessage(id, sessionID, MessageRoleAssistant, content)
}

func (m *Message) IsFromUser() bool {
	return m.Role == MessageRoleUser
}

func (m *Message) IsFromAssistant() bool {
	return m.Role == MessageRoleAssistant
}
