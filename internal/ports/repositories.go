package ports

import (
	"context"

	"github.com/insightlabs/insight/internal/domain/models"
)

// SessionRepository persists chat sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Session, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// MessageRepository persists the per-session message transcript.
type MessageRepository interface {
	Append(ctx context.Context, message *models.Message) error
	ListRecent(ctx context.Context, sessionID string, limit int) ([]*models.Message, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
}

// Transactor runs a function inside one storage transaction. Repository
// calls made with the inner context join the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MemoryRepository persists durable per-user memory: the compacted summary,
// preferences and analysis findings, plus summaries of past sessions.
type MemoryRepository interface {
	Get(ctx context.Context, userID string) (*models.UserMemory, error)
	Save(ctx context.Context, userID string, memoryType models.MemoryType, key, value string) error
	Reset(ctx context.Context, userID string) error
	PastAnalyses(ctx context.Context, userID string, limit int) ([]models.PastAnalysis, error)
	SavePastAnalysis(ctx context.Context, userID string, analysis models.PastAnalysis) error
}
