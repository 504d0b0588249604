package ports

import (
	"context"

	"github.com/insightlabs/insight/internal/domain/models"
)

// ModelMessage represents one message in the reasoning model's wire format.
type ModelMessage struct {
	Role       string          `json:"role"`
	Content    string          `json:"content,omitempty"`
	ToolCalls  []ModelToolCall `json:"tool_calls,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
}

// ModelToolCall is a raw capability-call request as emitted by the model:
// the name is unvalidated and the arguments are an unparsed JSON string.
type ModelToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ModelResponse is the outcome of one reasoning-model call.
type ModelResponse struct {
	Text      string            `json:"content,omitempty"`
	ToolCalls []ModelToolCall   `json:"tool_calls,omitempty"`
	Usage     models.TokenUsage `json:"usage"`
}

// CapabilityDecl is one entry of the capability catalog presented to the
// reasoning model: name, natural-language description and a JSON-schema
// shaped parameter spec.
type CapabilityDecl struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ReasoningModel is the interface to the LLM used by the reasoning loop.
type ReasoningModel interface {
	Complete(ctx context.Context, messages []ModelMessage, tools []CapabilityDecl) (*ModelResponse, error)
}

// WarehouseEngine executes validated read-only SQL against the analytics
// warehouse. Validation, the row cap and the execution timeout are the
// engine's concern; rejections surface as ordinary errors.
type WarehouseEngine interface {
	Execute(ctx context.Context, query string) (*models.QueryResult, error)
}

// KnowledgeSearcher runs semantic search over the document knowledge base.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]models.SearchResult, error)
}

// EmbeddingService generates vector embeddings for knowledge search.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// EventSink consumes the ordered turn-event stream produced by one chat
// request. A non-nil error tells the loop the consumer is gone and work
// should stop promptly.
type EventSink interface {
	Send(event models.TurnEvent) error
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(event models.TurnEvent) error

func (f EventSinkFunc) Send(event models.TurnEvent) error {
	return f(event)
}

// IDGenerator produces prefixed unique identifiers.
type IDGenerator interface {
	SessionID() string
	MessageID() string
	TraceID() string
}

// ChatRequest is one inbound user message addressed to a session.
type ChatRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"content"`
}

// ChatService turns one user message into an ordered, finite stream of turn
// events pushed to the sink.
type ChatService interface {
	Chat(ctx context.Context, req ChatRequest, sink EventSink) error
}
