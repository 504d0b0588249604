package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/insightlabs/insight/internal/adapters/http/dto"
	"github.com/insightlabs/insight/internal/adapters/http/middleware"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/ports"
)

const heartbeatInterval = 15 * time.Second

// ChatHandler streams one chat turn over Server-Sent Events. The core
// event stream is produced by the chat service; heartbeats are layered
// on here and never carry a sequence number.
type ChatHandler struct {
	chat ports.ChatService
}

func NewChatHandler(chat ports.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[dto.ChatRequest](r, w)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(w, "invalid_request", "content is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, "streaming_unsupported", "Streaming is not supported", http.StatusInternalServerError)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		respondError(w, "unauthorized", "Missing user identity", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := make(chan models.TurnEvent, 16)
	errc := make(chan error, 1)

	go func() {
		defer close(events)
		errc <- h.chat.Chat(r.Context(), ports.ChatRequest{
			UserID:    userID,
			SessionID: req.SessionID,
			Message:   req.Content,
		}, channelSink{ch: events, done: r.Context().Done()})
	}()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case event, open := <-events:
			if !open {
				if err := <-errc; err != nil {
					slog.Error("chat turn failed", "user_id", userID, "error", err)
				}
				return
			}
			if err := writeSSE(w, event); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if err := writeSSE(w, models.TurnEvent{Type: models.EventHeartbeat, Data: struct{}{}}); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// channelSink bridges the chat service to the SSE writer. Send fails
// once the client is gone so the loop stops doing work.
type channelSink struct {
	ch   chan<- models.TurnEvent
	done <-chan struct{}
}

func (s channelSink) Send(event models.TurnEvent) error {
	select {
	case s.ch <- event:
		return nil
	case <-s.done:
		return fmt.Errorf("client disconnected")
	}
}

func writeSSE(w http.ResponseWriter, event models.TurnEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
