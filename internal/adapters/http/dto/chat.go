package dto

// ChatRequest is the body of POST /api/v1/chat. The user identity is
// taken from the authenticated request, never from the body.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Content   string `json:"content"`
}
