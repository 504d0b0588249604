package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/insightlabs/insight/internal/adapters/metrics"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/ports"
)

const (
	defaultSearchTopK = 3
	maxSearchTopK     = 5
	pastAnalysesLimit = 5
	contextDigestMsgs = 10
)

// Executor dispatches parsed capability calls to their backing
// services. Every failure mode, including an unrecognized capability
// name, comes back as an ordinary failed result so the reasoning loop
// never aborts on a bad call.
type Executor struct {
	warehouse  ports.WarehouseEngine
	knowledge  ports.KnowledgeSearcher
	memory     ports.MemoryRepository
	messages   ports.MessageRepository
	searchTopK int
	logger     *slog.Logger
}

func NewExecutor(
	warehouse ports.WarehouseEngine,
	knowledge ports.KnowledgeSearcher,
	memory ports.MemoryRepository,
	messages ports.MessageRepository,
	searchTopK int,
	logger *slog.Logger,
) *Executor {
	if searchTopK <= 0 {
		searchTopK = maxSearchTopK
	}
	return &Executor{
		warehouse:  warehouse,
		knowledge:  knowledge,
		memory:     memory,
		messages:   messages,
		searchTopK: searchTopK,
		logger:     logger,
	}
}

// Execute runs one capability call on behalf of the given user and
// session. Caller identity comes from the authenticated request, never
// from the model's arguments.
func (e *Executor) Execute(ctx context.Context, call models.CapabilityCall, userID, sessionID string) models.CapabilityResult {
	start := time.Now()
	result := e.dispatch(ctx, call, userID, sessionID)
	result.CallID = call.ID
	result.Name = call.Name
	result.Summary = resultSummary(result)

	status := "ok"
	if !result.Success {
		status = "error"
		e.logger.Warn("capability failed",
			"capability", call.Name,
			"user_id", userID,
			"session_id", sessionID,
			"error", truncateForLog(result.Error))
	}
	metrics.CapabilityCallsTotal.WithLabelValues(call.Name, status).Inc()
	metrics.CapabilityDuration.WithLabelValues(call.Name).Observe(time.Since(start).Seconds())
	return result
}

func (e *Executor) dispatch(ctx context.Context, call models.CapabilityCall, userID, sessionID string) models.CapabilityResult {
	if call.Kind == "" {
		return failure(fmt.Sprintf("Unknown capability: %s", call.Name))
	}
	if !call.Known {
		return failure(fmt.Sprintf("Invalid arguments for %s", call.Name))
	}

	switch call.Kind {
	case models.CapabilityQueryWarehouse:
		return e.queryWarehouse(ctx, call.Query)
	case models.CapabilitySearchKnowledge:
		return e.searchKnowledge(ctx, call.Search)
	case models.CapabilityGetContext:
		return e.getContext(ctx, call.Context, userID, sessionID)
	case models.CapabilitySaveMemory:
		return e.saveMemory(ctx, call.Memory, userID)
	}
	return failure(fmt.Sprintf("Unknown capability: %s", call.Name))
}

func (e *Executor) queryWarehouse(ctx context.Context, args *models.QueryArgs) models.CapabilityResult {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return failure("Query must not be empty")
	}
	result, err := e.warehouse.Execute(ctx, query)
	if err != nil {
		return failure(err.Error())
	}
	return models.CapabilityResult{Success: true, Payload: result}
}

func (e *Executor) searchKnowledge(ctx context.Context, args *models.SearchArgs) models.CapabilityResult {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return failure("Search query must not be empty")
	}
	topK := args.TopK
	if topK <= 0 {
		topK = defaultSearchTopK
	}
	if topK > e.searchTopK {
		topK = e.searchTopK
	}
	results, err := e.knowledge.Search(ctx, query, topK)
	if err != nil {
		return failure(err.Error())
	}
	return models.CapabilityResult{Success: true, Payload: &models.SearchPayload{
		Success: true,
		Results: results,
		Query:   query,
	}}
}

func (e *Executor) getContext(ctx context.Context, args *models.ContextArgs, userID, sessionID string) models.CapabilityResult {
	payload := &models.ContextPayload{Success: true, ContextType: args.ContextType}

	switch args.ContextType {
	case models.ContextCurrentSession:
		messages, err := e.messages.ListRecent(ctx, sessionID, contextDigestMsgs)
		if err != nil {
			return failure(err.Error())
		}
		payload.Data = sessionDigest(messages)

	case models.ContextUserPreferences:
		memory, err := e.memory.Get(ctx, userID)
		if err != nil {
			return failure(err.Error())
		}
		payload.Data = map[string]any{
			"summary":     memory.Summary,
			"preferences": memory.Preferences,
		}
		payload.LastUpdated = memory.LastUpdated

	case models.ContextPastAnalyses:
		analyses, err := e.memory.PastAnalyses(ctx, userID, pastAnalysesLimit)
		if err != nil {
			return failure(err.Error())
		}
		payload.Data = analyses

	default:
		return failure(fmt.Sprintf("Unknown context type: %s", args.ContextType))
	}

	return models.CapabilityResult{Success: true, Payload: payload}
}

func (e *Executor) saveMemory(ctx context.Context, args *models.MemoryArgs, userID string) models.CapabilityResult {
	switch args.MemoryType {
	case models.MemoryTypeFinding, models.MemoryTypePreference, models.MemoryTypeContext:
	default:
		return failure(fmt.Sprintf("Unknown memory type: %s", args.MemoryType))
	}

	key := sanitizeMemoryKey(args.Key)
	if key == "" {
		return failure("Memory key must not be empty")
	}
	value := redactPII(strings.TrimSpace(args.Value))
	if value == "" {
		return failure("Memory value must not be empty")
	}

	if err := e.memory.Save(ctx, userID, args.MemoryType, key, value); err != nil {
		return failure(err.Error())
	}
	return models.CapabilityResult{Success: true, Payload: &models.MemoryPayload{
		Success:    true,
		MemoryType: args.MemoryType,
		Key:        key,
		SavedAt:    time.Now().UTC(),
	}}
}

// sessionDigest condenses recent messages into a compact structure for
// the current_session context type.
func sessionDigest(messages []*models.Message) map[string]any {
	topics := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Role != models.MessageRoleUser {
			continue
		}
		topics = append(topics, truncate(m.Content, 120))
	}
	return map[string]any{
		"message_count":  len(messages),
		"user_questions": topics,
	}
}

func failure(message string) models.CapabilityResult {
	return models.CapabilityResult{Success: false, Error: message}
}
