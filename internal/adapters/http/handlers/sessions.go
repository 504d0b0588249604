package handlers

import (
	"errors"
	"net/http"

	"github.com/insightlabs/insight/internal/adapters/http/dto"
	"github.com/insightlabs/insight/internal/adapters/http/middleware"
	"github.com/insightlabs/insight/internal/domain"
	"github.com/insightlabs/insight/internal/ports"
)

type SessionsHandler struct {
	sessions ports.SessionRepository
	messages ports.MessageRepository
}

func NewSessionsHandler(sessions ports.SessionRepository, messages ports.MessageRepository) *SessionsHandler {
	return &SessionsHandler{sessions: sessions, messages: messages}
}

func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	limit := parseIntQuery(r, "limit", 50)

	sessions, err := h.sessions.ListByUser(r.Context(), userID, limit)
	if err != nil {
		respondError(w, "internal_error", "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	response := dto.SessionListResponse{Sessions: make([]*dto.SessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, dto.NewSessionResponse(s))
	}
	respondJSON(w, response, http.StatusOK)
}

func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := validateURLParam(r, w, "id", "session id")
	if !ok {
		return
	}

	session, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			respondError(w, "not_found", "Session not found", http.StatusNotFound)
			return
		}
		respondError(w, "internal_error", "Failed to load session", http.StatusInternalServerError)
		return
	}

	if session.UserID != middleware.GetUserID(r.Context()) {
		respondError(w, "not_found", "Session not found", http.StatusNotFound)
		return
	}
	respondJSON(w, dto.NewSessionResponse(session), http.StatusOK)
}

// Messages returns the persisted transcript of a session, oldest first.
func (h *SessionsHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, ok := validateURLParam(r, w, "id", "session id")
	if !ok {
		return
	}

	session, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			respondError(w, "not_found", "Session not found", http.StatusNotFound)
			return
		}
		respondError(w, "internal_error", "Failed to load session", http.StatusInternalServerError)
		return
	}
	if session.UserID != middleware.GetUserID(r.Context()) {
		respondError(w, "not_found", "Session not found", http.StatusNotFound)
		return
	}

	limit := parseIntQuery(r, "limit", 100)
	messages, err := h.messages.ListRecent(r.Context(), id, limit)
	if err != nil {
		respondError(w, "internal_error", "Failed to list messages", http.StatusInternalServerError)
		return
	}

	response := dto.MessageListResponse{Messages: make([]*dto.MessageResponse, 0, len(messages))}
	for _, m := range messages {
		response.Messages = append(response.Messages, dto.NewMessageResponse(m))
	}
	respondJSON(w, response, http.StatusOK)
}

func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := validateURLParam(r, w, "id", "session id")
	if !ok {
		return
	}

	session, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			respondError(w, "not_found", "Session not found", http.StatusNotFound)
			return
		}
		respondError(w, "internal_error", "Failed to load session", http.StatusInternalServerError)
		return
	}
	if session.UserID != middleware.GetUserID(r.Context()) {
		respondError(w, "not_found", "Session not found", http.StatusNotFound)
		return
	}

	if err := h.sessions.Delete(r.Context(), id); err != nil {
		respondError(w, "internal_error", "Failed to delete session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
