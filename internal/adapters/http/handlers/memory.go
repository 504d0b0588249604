package handlers

import (
	"net/http"

	"github.com/insightlabs/insight/internal/adapters/http/dto"
	"github.com/insightlabs/insight/internal/adapters/http/middleware"
	"github.com/insightlabs/insight/internal/ports"
)

type MemoryHandler struct {
	memory ports.MemoryRepository
}

func NewMemoryHandler(memory ports.MemoryRepository) *MemoryHandler {
	return &MemoryHandler{memory: memory}
}

func (h *MemoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	memory, err := h.memory.Get(r.Context(), userID)
	if err != nil {
		respondError(w, "internal_error", "Failed to load memory", http.StatusInternalServerError)
		return
	}
	respondJSON(w, dto.NewMemoryResponse(memory), http.StatusOK)
}

func (h *MemoryHandler) PastAnalyses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	limit := parseIntQuery(r, "limit", 10)

	analyses, err := h.memory.PastAnalyses(r.Context(), userID, limit)
	if err != nil {
		respondError(w, "internal_error", "Failed to load past analyses", http.StatusInternalServerError)
		return
	}

	response := dto.PastAnalysisListResponse{Analyses: make([]dto.PastAnalysisResponse, 0, len(analyses))}
	for _, a := range analyses {
		response.Analyses = append(response.Analyses, dto.PastAnalysisResponse{
			SessionID: a.SessionID,
			Summary:   a.Summary,
			Topics:    a.Topics,
			CreatedAt: a.CreatedAt,
		})
	}
	respondJSON(w, response, http.StatusOK)
}

func (h *MemoryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.memory.Reset(r.Context(), userID); err != nil {
		respondError(w, "internal_error", "Failed to reset memory", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
