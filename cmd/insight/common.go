package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/insightlabs/insight/internal/adapters/id"
	"github.com/insightlabs/insight/internal/adapters/knowledge"
	"github.com/insightlabs/insight/internal/adapters/postgres"
	"github.com/insightlabs/insight/internal/adapters/warehouse"
	"github.com/insightlabs/insight/internal/agent"
	"github.com/insightlabs/insight/internal/config"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/insightlabs/insight/internal/llm"
	"github.com/insightlabs/insight/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"

	embeddingclient "github.com/insightlabs/insight/internal/adapters/embedding"
)

// Version information (set via ldflags)
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var cfg *config.Config

// initPool opens a pgx pool against the given connection string.
func initPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("PostgreSQL connection required. Set INSIGHT_POSTGRES_URL")
	}

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Force UTC to keep TIMESTAMP columns consistent across connections
	poolConfig.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return pool, nil
}

// stack bundles everything a running agent needs.
type stack struct {
	db        *pgxpool.Pool
	warehouse *pgxpool.Pool
	embedding *embeddingclient.Client
	sessions  *postgres.SessionRepository
	messages  *postgres.MessageRepository
	memory    *postgres.MemoryRepository
	service   *agent.Service
}

func (s *stack) close() {
	if s.warehouse != nil && s.warehouse != s.db {
		s.warehouse.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}

// buildStack connects to the databases and wires the full agent.
func buildStack(ctx context.Context) (*stack, error) {
	db, err := initPool(ctx, cfg.Database.PostgresURL)
	if err != nil {
		return nil, err
	}
	s := &stack{db: db, warehouse: db}

	if cfg.Warehouse.PostgresURL != "" && cfg.Warehouse.PostgresURL != cfg.Database.PostgresURL {
		s.warehouse, err = initPool(ctx, cfg.Warehouse.PostgresURL)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := postgres.Migrate(ctx, db, cfg.Embedding.Dimensions); err != nil {
		s.close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s.sessions = postgres.NewSessionRepository(db)
	s.messages = postgres.NewMessageRepository(db)
	s.memory = postgres.NewMemoryRepository(db)

	modelClient := llm.NewClient(
		cfg.Model.URL,
		cfg.Model.APIKey,
		cfg.Model.Model,
		cfg.Model.MaxTokens,
		cfg.Model.Temperature,
	)

	var searcher ports.KnowledgeSearcher
	if cfg.IsEmbeddingConfigured() {
		s.embedding = embeddingclient.NewClient(
			cfg.Embedding.URL,
			cfg.Embedding.APIKey,
			cfg.Embedding.Model,
			cfg.Embedding.Dimensions,
		)
		searcher = knowledge.NewSearcher(db, s.embedding, cfg.Agent.MinRelevance)
	} else {
		slog.Warn("embedding service not configured, knowledge search disabled")
		searcher = unavailableSearcher{}
	}

	engine := warehouse.NewEngine(s.warehouse, cfg.Warehouse.MaxRows, time.Duration(cfg.Warehouse.QueryTimeout)*time.Second)
	executor := agent.NewExecutor(engine, searcher, s.memory, s.messages, cfg.Agent.SearchTopK, slog.Default())

	s.service = agent.NewService(
		modelClient,
		agent.NewRegistry(cfg.Warehouse.DatasetLabel),
		executor,
		s.sessions,
		s.messages,
		s.memory,
		postgres.NewTransactionManager(db),
		id.New(),
		cfg.Agent,
		slog.Default(),
	)
	return s, nil
}

// unavailableSearcher stands in when no embedding endpoint is
// configured; searches fail as ordinary capability errors.
type unavailableSearcher struct{}

func (unavailableSearcher) Search(context.Context, string, int) ([]models.SearchResult, error) {
	return nil, fmt.Errorf("knowledge search is not configured")
}

// maskSecret masks a secret string for display
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "(set)"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// boolStatus returns a status string for a boolean
func boolStatus(b bool) string {
	if b {
		return "configured"
	}
	return "not configured"
}
