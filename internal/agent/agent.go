package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/insightlabs/insight/internal/adapters/metrics"
	"github.com/insightlabs/insight/internal/config"
	"github.com/insightlabs/insight/internal/domain"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/ports"
	"github.com/insightlabs/insight/internal/prompt"
)

const (
	scopeRefusal = "I'm Insight, a business intelligence assistant. I help with questions " +
		"about company data: revenue, sales, customers, churn, targets and related metrics. " +
		"I can't help with that request, but I'd be happy to dig into your business data."

	apologyText = "I wasn't able to complete that analysis. Could you rephrase your " +
		"question, or break it into smaller steps?"

	maxTitleChars    = 80
	maxAnalysisChars = 240
)

// Service runs the reasoning loop for chat turns: scope filtering,
// bounded model iteration, capability execution and the ordered event
// stream.
type Service struct {
	model    ports.ReasoningModel
	registry *Registry
	executor *Executor
	sessions ports.SessionRepository
	messages ports.MessageRepository
	memory   ports.MemoryRepository
	tx       ports.Transactor
	ids      ports.IDGenerator
	cfg      config.AgentConfig
	logger   *slog.Logger
}

func NewService(
	model ports.ReasoningModel,
	registry *Registry,
	executor *Executor,
	sessions ports.SessionRepository,
	messages ports.MessageRepository,
	memory ports.MemoryRepository,
	tx ports.Transactor,
	ids ports.IDGenerator,
	cfg config.AgentConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		model:    model,
		registry: registry,
		executor: executor,
		sessions: sessions,
		messages: messages,
		memory:   memory,
		tx:       tx,
		ids:      ids,
		cfg:      cfg,
		logger:   logger,
	}
}

// Chat processes one user message and pushes the resulting event
// stream to the sink. A non-nil return means the stream could not be
// completed (sink gone, storage failure); model failures end the
// stream with a terminal error event and return nil.
func (s *Service) Chat(ctx context.Context, req ports.ChatRequest, sink ports.EventSink) error {
	metrics.TurnsActive.Inc()
	defer metrics.TurnsActive.Dec()

	if strings.TrimSpace(req.UserID) == "" {
		return domain.ErrInvalidUserID
	}

	session, err := s.ensureSession(ctx, req)
	if err != nil {
		return err
	}

	emit := newEmitter(sink)

	if !IsInScope(req.Message) {
		return s.refuse(ctx, emit, req, session)
	}
	return s.converse(ctx, emit, req, session)
}

func (s *Service) ensureSession(ctx context.Context, req ports.ChatRequest) (*models.Session, error) {
	if req.SessionID != "" {
		session, err := s.sessions.GetByID(ctx, req.SessionID)
		switch {
		case err == nil && session.UserID == req.UserID:
			if err := s.sessions.Touch(ctx, session.ID); err != nil {
				s.logger.Warn("failed to touch session", "session_id", session.ID, "error", err)
			}
			return session, nil
		case err == nil:
			// A session owned by another user is treated as missing.
			s.logger.Warn("session owner mismatch, starting a new session",
				"session_id", req.SessionID, "user_id", req.UserID)
		case !errors.Is(err, domain.ErrSessionNotFound):
			return nil, err
		}
	}

	session := models.NewSession(s.ids.SessionID(), req.UserID, truncate(strings.TrimSpace(req.Message), maxTitleChars))
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// refuse handles an out-of-scope message: the exchange is persisted,
// and the stream is exactly one content event and one done event with
// generic suggestions and no usage.
func (s *Service) refuse(ctx context.Context, emit *emitter, req ports.ChatRequest, session *models.Session) error {
	metrics.TurnsTotal.WithLabelValues("out_of_scope").Inc()
	s.logger.Info("message out of scope",
		"session_id", session.ID,
		"message", truncateForLog(req.Message))

	if err := s.persistExchange(ctx, session.ID, req.Message, scopeRefusal); err != nil {
		return err
	}
	if err := emit.content(scopeRefusal); err != nil {
		return err
	}
	return emit.done(models.DoneData{
		SuggestedFollowups: suggestFollowups(nil, s.cfg.MaxSuggestions),
		ToolsUsed:          []string{},
	})
}

func (s *Service) converse(ctx context.Context, emit *emitter, req ports.ChatRequest, session *models.Session) error {
	memory, err := s.memory.Get(ctx, req.UserID)
	if err != nil {
		return err
	}

	history, err := s.messages.ListRecent(ctx, session.ID, s.cfg.HistoryWindow)
	if err != nil {
		return err
	}

	conversation := []ports.ModelMessage{{Role: "system", Content: prompt.System(memory)}}
	conversation = append(conversation, seedHistory(history, s.logger)...)
	conversation = append(conversation, ports.ModelMessage{Role: "user", Content: req.Message})

	userMsg := models.NewUserMessage(s.ids.MessageID(), session.ID, req.Message)
	if err := s.messages.Append(ctx, userMsg); err != nil {
		return err
	}

	usage := newAccountant()
	var toolsUsed []string
	decls := s.registry.Decls()
	iterations := 0

	for iteration := 1; iteration <= s.cfg.MaxIterations; iteration++ {
		iterations = iteration
		start := time.Now()
		response, err := s.model.Complete(ctx, conversation, decls)
		latency := time.Since(start)

		var tokens models.TokenUsage
		if response != nil {
			tokens = response.Usage
		}
		usage.record(iteration, latency, tokens, err)

		if err != nil {
			metrics.TurnsTotal.WithLabelValues("model_error").Inc()
			metrics.TurnIterations.Observe(float64(iteration))
			s.logger.Error("model request failed",
				"session_id", session.ID,
				"iteration", iteration,
				"error", err)
			return emit.error("The reasoning model is unavailable. Please try again.", usage.summary())
		}

		if len(response.ToolCalls) > 0 {
			// Capability calls take priority; any text alongside
			// them is discarded.
			results, err := s.runCapabilities(ctx, emit, req, session, response.ToolCalls, &toolsUsed)
			if err != nil {
				return err
			}
			conversation, err = s.recordCapabilityRound(ctx, session.ID, conversation, response, results)
			if err != nil {
				return err
			}
			continue
		}

		if strings.TrimSpace(response.Text) != "" {
			metrics.TurnsTotal.WithLabelValues("ok").Inc()
			metrics.TurnIterations.Observe(float64(iteration))
			return s.finish(ctx, emit, req.UserID, session.ID, response.Text,
				toolsUsed, suggestFollowups(toolsUsed, s.cfg.MaxSuggestions), usage)
		}

		// Empty response with no capability calls: nothing more to do.
		break
	}

	metrics.TurnsTotal.WithLabelValues("exhausted").Inc()
	metrics.TurnIterations.Observe(float64(iterations))
	s.logger.Warn("reasoning loop ended without an answer", "session_id", session.ID)
	// The apology carries the generic prompts, not capability-shaped ones.
	return s.finish(ctx, emit, req.UserID, session.ID, apologyText,
		toolsUsed, suggestFollowups(nil, s.cfg.MaxSuggestions), usage)
}

// runCapabilities executes one round of capability calls in the order
// the model requested them, emitting a started/terminal trace pair per
// call.
func (s *Service) runCapabilities(
	ctx context.Context,
	emit *emitter,
	req ports.ChatRequest,
	session *models.Session,
	rawCalls []ports.ModelToolCall,
	toolsUsed *[]string,
) ([]models.CapabilityResult, error) {
	results := make([]models.CapabilityResult, 0, len(rawCalls))

	for _, raw := range rawCalls {
		call := s.registry.ParseCall(raw)
		traceID := s.ids.TraceID()

		if err := emit.reasoning(models.ReasoningData{
			TraceID:  traceID,
			ToolName: call.Name,
			Status:   models.TraceStarted,
			Input:    traceInput(call),
		}); err != nil {
			return nil, err
		}

		result := s.executor.Execute(ctx, call, req.UserID, session.ID)
		results = append(results, result)

		trace := models.ReasoningData{
			TraceID:  traceID,
			ToolName: call.Name,
			Status:   models.TraceCompleted,
			Summary:  result.Summary,
		}
		if !result.Success {
			trace.Status = models.TraceError
			trace.Summary = ""
			trace.Error = result.Error
		}
		if err := emit.reasoning(trace); err != nil {
			return nil, err
		}

		if result.Success && call.Kind == models.CapabilitySaveMemory && call.Memory != nil {
			payload, ok := result.Payload.(*models.MemoryPayload)
			if ok {
				if err := emit.memory(payload.MemoryType, payload.Key); err != nil {
					return nil, err
				}
			}
		}

		if result.Success {
			*toolsUsed = appendUnique(*toolsUsed, call.Name)
		}
	}
	return results, nil
}

// recordCapabilityRound persists the assistant's capability request
// and the batched results, and extends the wire conversation with
// both.
func (s *Service) recordCapabilityRound(
	ctx context.Context,
	sessionID string,
	conversation []ports.ModelMessage,
	response *ports.ModelResponse,
	results []models.CapabilityResult,
) ([]ports.ModelMessage, error) {
	assistant := models.NewAssistantMessage(s.ids.MessageID(), sessionID, "")
	for _, raw := range response.ToolCalls {
		assistant.Calls = append(assistant.Calls, s.registry.ParseCall(raw))
	}
	toolResult := models.NewMessage(s.ids.MessageID(), sessionID, models.MessageRoleToolResult, "")
	toolResult.Results = results

	// The request and its results land together or not at all.
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.messages.Append(ctx, assistant); err != nil {
			return err
		}
		return s.messages.Append(ctx, toolResult)
	})
	if err != nil {
		return nil, err
	}

	conversation = append(conversation, ports.ModelMessage{
		Role:      "assistant",
		ToolCalls: response.ToolCalls,
	})
	for _, result := range results {
		conversation = append(conversation, ports.ModelMessage{
			Role:       "tool",
			Content:    encodeResult(result),
			ToolCallID: result.CallID,
		})
	}
	return conversation, nil
}

func (s *Service) finish(
	ctx context.Context,
	emit *emitter,
	userID, sessionID, text string,
	toolsUsed, followups []string,
	usage *accountant,
) error {
	assistant := models.NewAssistantMessage(s.ids.MessageID(), sessionID, text)
	if err := s.messages.Append(ctx, assistant); err != nil {
		return err
	}

	// Turns that touched the data become recallable past analyses.
	if len(toolsUsed) > 0 {
		analysis := models.PastAnalysis{
			SessionID: sessionID,
			Summary:   truncate(text, maxAnalysisChars),
			Topics:    toolsUsed,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.memory.SavePastAnalysis(ctx, userID, analysis); err != nil {
			s.logger.Warn("failed to save past analysis", "session_id", sessionID, "error", err)
		}
	}
	if err := emit.content(text); err != nil {
		return err
	}
	if toolsUsed == nil {
		toolsUsed = []string{}
	}
	return emit.done(models.DoneData{
		SuggestedFollowups: followups,
		ToolsUsed:          toolsUsed,
		Usage:              usage.summary(),
	})
}

func (s *Service) persistExchange(ctx context.Context, sessionID, userText, assistantText string) error {
	userMsg := models.NewUserMessage(s.ids.MessageID(), sessionID, userText)
	assistant := models.NewAssistantMessage(s.ids.MessageID(), sessionID, assistantText)
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.messages.Append(ctx, userMsg); err != nil {
			return err
		}
		return s.messages.Append(ctx, assistant)
	})
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

var _ ports.ChatService = (*Service)(nil)
