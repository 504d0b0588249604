package models

import "time"

// CallStatus records how one reasoning-model call ended.
type CallStatus string

const (
	CallOK    CallStatus = "ok"
	CallError CallStatus = "error"
)

// TokenUsage carries the token accounting of one model call. Fields are
// pointers so "the provider reported zero" and "the provider reported
// nothing" stay distinguishable through summation.
type TokenUsage struct {
	Prompt       *int `json:"prompt_tokens,omitempty"`
	Output       *int `json:"output_tokens,omitempty"`
	Total        *int `json:"total_tokens,omitempty"`
	Cached       *int `json:"cached_tokens,omitempty"`
	ToolOverhead *int `json:"tool_overhead_tokens,omitempty"`
}

// UsageRecord is the per-model-call accounting entry.
type UsageRecord struct {
	Iteration int           `json:"iteration"`
	Latency   time.Duration `json:"latency"`
	Status    CallStatus    `json:"status"`
	Tokens    TokenUsage    `json:"tokens"`
}

// UsageSummary aggregates the records of one turn. Token fields stay nil
// when no record carried the corresponding value.
type UsageSummary struct {
	Calls        int        `json:"calls"`
	TotalLatency int64      `json:"total_latency_ms"`
	Tokens       TokenUsage `json:"tokens"`
}
