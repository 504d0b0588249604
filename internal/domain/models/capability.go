package models

import "time"

// CapabilityKind enumerates the four fixed capabilities the reasoning model
// may invoke. Dispatch over kinds is exhaustive; an unknown capability name
// from the model never becomes a kind, it is rejected at parse time.
type CapabilityKind string

const (
	CapabilityQueryWarehouse  CapabilityKind = "query_warehouse"
	CapabilitySearchKnowledge CapabilityKind = "search_knowledge_base"
	CapabilityGetContext      CapabilityKind = "get_conversation_context"
	CapabilitySaveMemory      CapabilityKind = "save_to_memory"
)

// ContextType selects which slice of persisted context the context-recall
// capability returns.
type ContextType string

const (
	ContextCurrentSession  ContextType = "current_session"
	ContextUserPreferences ContextType = "user_preferences"
	ContextPastAnalyses    ContextType = "past_analyses"
)

// MemoryType classifies a memory write.
type MemoryType string

const (
	MemoryTypeFinding    MemoryType = "finding"
	MemoryTypePreference MemoryType = "preference"
	MemoryTypeContext    MemoryType = "context"
)

// QueryArgs are the typed arguments of the warehouse query capability.
type QueryArgs struct {
	Query string `json:"query"`
}

// SearchArgs are the typed arguments of the knowledge search capability.
type SearchArgs struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// ContextArgs are the typed arguments of the context recall capability.
type ContextArgs struct {
	ContextType ContextType `json:"context_type"`
}

// MemoryArgs are the typed arguments of the memory write capability.
type MemoryArgs struct {
	MemoryType MemoryType `json:"memory_type"`
	Key        string     `json:"key"`
	Value      string     `json:"value"`
}

// CapabilityCall is one capability invocation requested by the reasoning
// model. Exactly one of the typed argument fields is set, selected by Kind.
// Calls with an unrecognized name keep the raw name and a nil argument
// struct; the executor turns those into ordinary failed results.
type CapabilityCall struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Kind    CapabilityKind `json:"kind,omitempty"`
	Known   bool           `json:"known"`
	RawArgs string         `json:"raw_args,omitempty"`

	Query   *QueryArgs   `json:"query_args,omitempty"`
	Search  *SearchArgs  `json:"search_args,omitempty"`
	Context *ContextArgs `json:"context_args,omitempty"`
	Memory  *MemoryArgs  `json:"memory_args,omitempty"`
}

// CapabilityResult is the normalized outcome of one capability call.
// Payload is what goes back to the model; Summary is the human-readable
// trace line and never feeds back into the conversation.
type CapabilityResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// QueryResult is the payload of a successful warehouse query.
type QueryResult struct {
	Success  bool             `json:"success"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"data"`
	RowCount int              `json:"row_count"`
}

// SearchResult is one ranked snippet from the knowledge base.
type SearchResult struct {
	Content        string  `json:"content"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevance_score"`
	Citation       string  `json:"citation,omitempty"`
}

// SearchPayload is the payload of a successful knowledge search.
type SearchPayload struct {
	Success bool           `json:"success"`
	Results []SearchResult `json:"results"`
	Query   string         `json:"query"`
}

// ContextPayload is the payload of a successful context recall.
type ContextPayload struct {
	Success     bool        `json:"success"`
	ContextType ContextType `json:"context_type"`
	Data        any         `json:"data"`
	LastUpdated *time.Time  `json:"last_updated,omitempty"`
}

// MemoryPayload is the payload of a successful memory write.
type MemoryPayload struct {
	Success    bool       `json:"success"`
	MemoryType MemoryType `json:"memory_type"`
	Key        string     `json:"key"`
	SavedAt    time.Time  `json:"saved_at"`
}
