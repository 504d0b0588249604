package agent

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/ports"
)

const warehouseDescriptionTemplate = `Execute a SQL query against the company's analytics warehouse (%s).

Use this tool to retrieve sales, revenue, customer, and performance data.

IMPORTANT CONSTRAINTS:
- Only SELECT queries are allowed (no INSERT, UPDATE, DELETE, DROP)
- Maximum 1000 rows returned
- Query timeout: 30 seconds
- Results include column names and row count

AVAILABLE TABLES:
- transactions: revenue, quantity, date, region, product_id, customer_id
- customers: customer_id, segment, acquisition_date, lifetime_value, region, status
- targets: region, quarter, year, target_amount

Returns raw data. If the user asks 'why' or needs context to interpret results,
follow up with search_knowledge_base to provide business context.`

const knowledgeDescription = `Search the company's internal knowledge base for business context.

Use this tool to find:
- Metric definitions (how we calculate churn, LTV, CAC, MRR, etc.)
- Company targets (quarterly and annual goals by region)
- Regional strategies (market conditions, competitive landscape)
- Pricing policies (recent changes, regional variations)
- Customer segment definitions (Enterprise, SMB, Consumer)

Results include content, source document name, and relevance score.
Always cite the source document in your response.`

const contextDescription = `Retrieve context from the current session or user history.

CONTEXT TYPES:
1. "current_session": Topics discussed, metrics queried, findings made
2. "user_preferences": User's preferred formats, regions of interest, role, style
3. "past_analyses": Summaries of previous sessions with dates and topics

Use this for cross-session context; the current conversation is already
in your context. Returns context with last_updated timestamp.`

const memoryDescription = `Save important information for future reference.

MEMORY TYPES:
1. "finding": A key insight or data point (e.g., "Q4 revenue was $12.4M")
2. "preference": User preference (e.g., "User focuses on West region")
3. "context": Important context (e.g., "Investigating Q4 underperformance")

Use this after discovering an important data insight, when the user
expresses a preference, or to establish context for ongoing analysis.`

// Registry is the fixed catalog of the four capabilities presented to
// the reasoning model. The warehouse description embeds the configured
// dataset label; it is resolved once and cached for the process
// lifetime.
type Registry struct {
	datasetLabel string

	once  sync.Once
	decls []ports.CapabilityDecl
}

func NewRegistry(datasetLabel string) *Registry {
	return &Registry{datasetLabel: datasetLabel}
}

// Decls returns the capability declarations in their fixed order.
func (r *Registry) Decls() []ports.CapabilityDecl {
	r.once.Do(func() {
		r.decls = []ports.CapabilityDecl{
			{
				Name:        string(models.CapabilityQueryWarehouse),
				Description: fmt.Sprintf(warehouseDescriptionTemplate, r.datasetLabel),
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{
							"type":        "string",
							"description": "The SQL SELECT query to execute",
						},
					},
					"required": []string{"query"},
				},
			},
			{
				Name:        string(models.CapabilitySearchKnowledge),
				Description: knowledgeDescription,
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{
							"type":        "string",
							"description": "The semantic search query for the knowledge base",
						},
						"top_k": map[string]any{
							"type":        "integer",
							"description": "Number of results to return (default: 3, max: 5)",
							"default":     3,
						},
					},
					"required": []string{"query"},
				},
			},
			{
				Name:        string(models.CapabilityGetContext),
				Description: contextDescription,
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"context_type": map[string]any{
							"type":        "string",
							"enum":        []string{"current_session", "user_preferences", "past_analyses"},
							"description": "The type of context to retrieve",
						},
					},
					"required": []string{"context_type"},
				},
			},
			{
				Name:        string(models.CapabilitySaveMemory),
				Description: memoryDescription,
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"memory_type": map[string]any{
							"type":        "string",
							"enum":        []string{"finding", "preference", "context"},
							"description": "The type of information being saved",
						},
						"key": map[string]any{
							"type":        "string",
							"description": "A short identifier for the memory (e.g., 'q4_revenue', 'preferred_region')",
						},
						"value": map[string]any{
							"type":        "string",
							"description": "The information to save",
						},
					},
					"required": []string{"memory_type", "key", "value"},
				},
			},
		}
	})
	return r.decls
}

// ParseCall converts a raw model tool call into a tagged capability
// call. Unknown names stay unparsed; the executor reports them as
// ordinary failed results. Malformed arguments for a known capability
// are likewise left to the executor, with the raw payload preserved.
func (r *Registry) ParseCall(raw ports.ModelToolCall) models.CapabilityCall {
	call := models.CapabilityCall{
		ID:      raw.ID,
		Name:    raw.Name,
		RawArgs: raw.Arguments,
	}

	switch raw.Name {
	case string(models.CapabilityQueryWarehouse):
		call.Kind = models.CapabilityQueryWarehouse
		var args models.QueryArgs
		if json.Unmarshal([]byte(raw.Arguments), &args) == nil {
			call.Known = true
			call.Query = &args
		}
	case string(models.CapabilitySearchKnowledge):
		call.Kind = models.CapabilitySearchKnowledge
		var args models.SearchArgs
		if json.Unmarshal([]byte(raw.Arguments), &args) == nil {
			call.Known = true
			call.Search = &args
		}
	case string(models.CapabilityGetContext):
		call.Kind = models.CapabilityGetContext
		var args models.ContextArgs
		if json.Unmarshal([]byte(raw.Arguments), &args) == nil {
			call.Known = true
			call.Context = &args
		}
	case string(models.CapabilitySaveMemory):
		call.Kind = models.CapabilitySaveMemory
		var args models.MemoryArgs
		if json.Unmarshal([]byte(raw.Arguments), &args) == nil {
			call.Known = true
			call.Memory = &args
		}
	}

	// Treat empty argument payloads as an empty object.
	if !call.Known && call.Kind != "" && strings.TrimSpace(raw.Arguments) == "" {
		call.Known = true
		switch call.Kind {
		case models.CapabilityQueryWarehouse:
			call.Query = &models.QueryArgs{}
		case models.CapabilitySearchKnowledge:
			call.Search = &models.SearchArgs{}
		case models.CapabilityGetContext:
			call.Context = &models.ContextArgs{}
		case models.CapabilitySaveMemory:
			call.Memory = &models.MemoryArgs{}
		}
	}

	return call
}
