package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/insightlabs/insight/internal/adapters/http/middleware"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/ports"
)

type fakeChatService struct {
	events []models.TurnEvent
	seen   *ports.ChatRequest
	err    error
}

func (s *fakeChatService) Chat(_ context.Context, req ports.ChatRequest, sink ports.EventSink) error {
	s.seen = &req
	for _, e := range s.events {
		if err := sink.Send(e); err != nil {
			return err
		}
	}
	return s.err
}

func decodeSSE(t *testing.T, body string) []models.TurnEvent {
	t.Helper()
	var events []models.TurnEvent
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event models.TurnEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			t.Fatalf("invalid SSE payload %q: %v", line, err)
		}
		events = append(events, event)
	}
	return events
}

func streamRequest(t *testing.T, service ports.ChatService, body string, userID string) *httptest.ResponseRecorder {
	t.Helper()
	handler := middleware.Auth("")(http.HandlerFunc(NewChatHandler(service).Stream))

	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatStream(t *testing.T) {
	service := &fakeChatService{events: []models.TurnEvent{
		{Seq: 1, Type: models.EventContent, Data: map[string]any{"text": "Q4 revenue was $12.4M."}},
		{Seq: 2, Type: models.EventDone, Data: map[string]any{"suggested_followups": []string{}, "tools_used": []string{}}},
	}}

	rec := streamRequest(t, service, `{"content": "what was Q4 revenue?"}`, "analyst-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	events := decodeSSE(t, rec.Body.String())
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Seq != 1 || events[0].Type != models.EventContent {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Type != models.EventDone {
		t.Errorf("last event = %+v", events[1])
	}

	if service.seen == nil {
		t.Fatal("chat service not invoked")
	}
	if service.seen.UserID != "analyst-1" {
		t.Errorf("user id = %q, want analyst-1", service.seen.UserID)
	}
	if service.seen.Message != "what was Q4 revenue?" {
		t.Errorf("message = %q", service.seen.Message)
	}
}

func TestChatStreamIdentityFromHeaderNotBody(t *testing.T) {
	service := &fakeChatService{events: []models.TurnEvent{
		{Seq: 1, Type: models.EventDone, Data: map[string]any{}},
	}}

	// A user_id in the body must be ignored.
	rec := streamRequest(t, service, `{"content": "revenue?", "user_id": "someone-else"}`, "analyst-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if service.seen.UserID != "analyst-1" {
		t.Errorf("user id = %q, want analyst-1", service.seen.UserID)
	}
}

func TestChatStreamRejectsEmptyContent(t *testing.T) {
	service := &fakeChatService{}

	rec := streamRequest(t, service, `{"content": "   "}`, "analyst-1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if service.seen != nil {
		t.Error("chat service should not be invoked")
	}
}

func TestChatStreamRejectsInvalidBody(t *testing.T) {
	rec := streamRequest(t, &fakeChatService{}, `{not json`, "analyst-1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
