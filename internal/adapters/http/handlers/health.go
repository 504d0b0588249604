package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/insightlabs/insight/internal/adapters/embedding"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthCheckConfig holds configuration for health checks
type HealthCheckConfig struct {
	Timeout time.Duration // Timeout for each individual health check
}

func DefaultHealthCheckConfig() HealthCheckConfig {
	return HealthCheckConfig{
		Timeout: 5 * time.Second,
	}
}

type HealthHandler struct {
	config          HealthCheckConfig
	db              *pgxpool.Pool
	warehouse       *pgxpool.Pool
	embeddingClient *embedding.Client
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		config: DefaultHealthCheckConfig(),
	}
}

func NewHealthHandlerWithDeps(db, warehouse *pgxpool.Pool, embeddingClient *embedding.Client) *HealthHandler {
	return &HealthHandler{
		config:          DefaultHealthCheckConfig(),
		db:              db,
		warehouse:       warehouse,
		embeddingClient: embeddingClient,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type DetailedHealthResponse struct {
	Status   string                   `json:"status"`
	Version  string                   `json:"version"`
	Services map[string]ServiceHealth `json:"services"`
}

type ServiceHealth struct {
	Status    string  `json:"status"`
	LatencyMs *int64  `json:"latency_ms,omitempty"`
	Error     *string `json:"error,omitempty"`
}

// Handle provides a basic liveness endpoint
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{Status: "ok", Version: "1.0.0"}, http.StatusOK)
}

// HandleDetailed checks every configured dependency
func (h *HealthHandler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := DetailedHealthResponse{
		Version:  "1.0.0",
		Services: make(map[string]ServiceHealth),
	}

	if h.db != nil {
		response.Services["database"] = h.checkPool(ctx, h.db)
	}
	if h.warehouse != nil && h.warehouse != h.db {
		response.Services["warehouse"] = h.checkPool(ctx, h.warehouse)
	}
	if h.embeddingClient != nil {
		response.Services["embedding"] = h.checkEmbedding(ctx)
	}

	response.Status = h.calculateOverallStatus(response.Services)

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	respondJSON(w, response, statusCode)
}

func (h *HealthHandler) checkPool(ctx context.Context, pool *pgxpool.Pool) ServiceHealth {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	err := pool.Ping(checkCtx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		errMsg := err.Error()
		return ServiceHealth{
			Status:    "unhealthy",
			LatencyMs: &latency,
			Error:     &errMsg,
		}
	}

	return ServiceHealth{
		Status:    "healthy",
		LatencyMs: &latency,
	}
}

func (h *HealthHandler) checkEmbedding(ctx context.Context) ServiceHealth {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	_, err := h.embeddingClient.Embed(checkCtx, "health check")
	latency := time.Since(start).Milliseconds()

	if err != nil {
		errMsg := err.Error()
		return ServiceHealth{
			Status:    "unhealthy",
			LatencyMs: &latency,
			Error:     &errMsg,
		}
	}

	return ServiceHealth{
		Status:    "healthy",
		LatencyMs: &latency,
	}
}

// calculateOverallStatus: the database is critical, everything else
// only degrades the system.
func (h *HealthHandler) calculateOverallStatus(services map[string]ServiceHealth) string {
	if len(services) == 0 {
		return "healthy"
	}

	degraded := false
	for name, service := range services {
		if service.Status != "unhealthy" {
			continue
		}
		if name == "database" {
			return "unhealthy"
		}
		degraded = true
	}

	if degraded {
		return "degraded"
	}
	return "healthy"
}
