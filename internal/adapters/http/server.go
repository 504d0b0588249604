package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/insightlabs/insight/internal/adapters/embedding"
	"github.com/insightlabs/insight/internal/adapters/http/handlers"
	"github.com/insightlabs/insight/internal/adapters/http/middleware"
	"github.com/insightlabs/insight/internal/config"
	"github.com/insightlabs/insight/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server

	chatService ports.ChatService
	sessions    ports.SessionRepository
	messages    ports.MessageRepository
	memory      ports.MemoryRepository

	db              *pgxpool.Pool
	warehouse       *pgxpool.Pool
	embeddingClient *embedding.Client
}

func NewServer(
	cfg *config.Config,
	chatService ports.ChatService,
	sessions ports.SessionRepository,
	messages ports.MessageRepository,
	memory ports.MemoryRepository,
	db *pgxpool.Pool,
	warehouse *pgxpool.Pool,
	embeddingClient *embedding.Client,
) *Server {
	s := &Server{
		config:          cfg,
		chatService:     chatService,
		sessions:        sessions,
		messages:        messages,
		memory:          memory,
		db:              db,
		warehouse:       warehouse,
		embeddingClient: embeddingClient,
	}

	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(s.config.Server.CORSOrigins))
	r.Use(middleware.Metrics)

	healthHandler := handlers.NewHealthHandler()
	detailedHealthHandler := handlers.NewHealthHandlerWithDeps(s.db, s.warehouse, s.embeddingClient)
	r.Get("/health", healthHandler.Handle)
	r.Get("/health/detailed", detailedHealthHandler.HandleDetailed)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(s.config.Server.APIKey))

		chatHandler := handlers.NewChatHandler(s.chatService)
		r.Post("/chat", chatHandler.Stream)

		sessionsHandler := handlers.NewSessionsHandler(s.sessions, s.messages)
		r.Get("/sessions", sessionsHandler.List)
		r.Get("/sessions/{id}", sessionsHandler.Get)
		r.Get("/sessions/{id}/messages", sessionsHandler.Messages)
		r.Delete("/sessions/{id}", sessionsHandler.Delete)

		memoryHandler := handlers.NewMemoryHandler(s.memory)
		r.Get("/memory", memoryHandler.Get)
		r.Get("/memory/analyses", memoryHandler.PastAnalyses)
		r.Delete("/memory", memoryHandler.Reset)
	})

	s.router = r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // no write timeout, chat turns stream over SSE
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("starting HTTP server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	slog.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *chi.Mux {
	return s.router
}
