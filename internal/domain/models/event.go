package models

type EventType string

const (
	EventReasoning EventType = "reasoning"
	EventContent   EventType = "content"
	EventMemory    EventType = "memory"
	EventDone      EventType = "done"
	EventError     EventType = "error"
	EventHeartbeat EventType = "heartbeat"
)

// TraceStatus is the lifecycle state carried by a reasoning event.
type TraceStatus string

const (
	TraceStarted   TraceStatus = "started"
	TraceCompleted TraceStatus = "completed"
	TraceError     TraceStatus = "error"
)

// TurnEvent is one unit of the outward stream for a single turn. Sequence
// numbers are assigned by the emitter: strictly increasing from 1 with no
// gaps, one counter per request. Heartbeats are layered on by the transport
// and never carry a sequence number.
type TurnEvent struct {
	Seq  int       `json:"seq,omitempty"`
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// ReasoningData is the payload of a reasoning (capability trace) event.
type ReasoningData struct {
	TraceID  string      `json:"trace_id"`
	ToolName string      `json:"tool_name"`
	Status   TraceStatus `json:"status"`
	Input    string      `json:"input,omitempty"`
	Summary  string      `json:"summary,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// ContentData is the payload of a content event carrying answer text.
type ContentData struct {
	Text string `json:"text"`
}

// MemoryData is the payload of a memory-saved notification event.
type MemoryData struct {
	MemoryType MemoryType `json:"memory_type"`
	Key        string     `json:"key"`
}

// DoneData is the payload of the terminal done event.
type DoneData struct {
	SuggestedFollowups []string      `json:"suggested_followups"`
	ToolsUsed          []string      `json:"tools_used"`
	Usage              *UsageSummary `json:"usage_summary,omitempty"`
}

// ErrorData is the payload of the terminal error event.
type ErrorData struct {
	Message string        `json:"message"`
	Usage   *UsageSummary `json:"usage_summary,omitempty"`
}
