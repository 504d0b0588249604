package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/insightlabs/insight/internal/domain"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemoryRepository struct {
	BaseRepository
}

func NewMemoryRepository(pool *pgxpool.Pool) *MemoryRepository {
	return &MemoryRepository{
		BaseRepository: NewBaseRepository(pool),
	}
}

// Get returns the durable memory for a user. A user without any saved
// memory gets an empty record, not an error.
func (r *MemoryRepository) Get(ctx context.Context, userID string) (*models.UserMemory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT user_id, summary, preferences, findings, last_updated
		FROM insight_user_memory
		WHERE user_id = $1`

	var memory models.UserMemory
	var summary sql.NullString
	var preferences, findings []byte
	var lastUpdated sql.NullTime

	err := r.conn(ctx).QueryRow(ctx, query, userID).Scan(
		&memory.UserID,
		&summary,
		&preferences,
		&findings,
		&lastUpdated,
	)
	if err != nil {
		if checkNoRows(err) {
			return models.NewUserMemory(userID), nil
		}
		return nil, err
	}

	memory.Summary = getString(summary)
	memory.LastUpdated = getTimePtr(lastUpdated)
	if memory.Preferences, err = unmarshalJSONMap(preferences); err != nil {
		return nil, err
	}
	if memory.Findings, err = unmarshalJSONMap(findings); err != nil {
		return nil, err
	}

	return &memory, nil
}

// Save upserts one memory entry. Findings and preferences merge into
// their keyed maps, context entries replace the running summary.
func (r *MemoryRepository) Save(ctx context.Context, userID string, memoryType models.MemoryType, key, value string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	entry, err := json.Marshal(map[string]string{key: value})
	if err != nil {
		return err
	}

	var query string
	args := []any{userID, entry}

	switch memoryType {
	case models.MemoryTypePreference:
		query = `
			INSERT INTO insight_user_memory (user_id, summary, preferences, findings, last_updated)
			VALUES ($1, '', $2, '{}', NOW())
			ON CONFLICT (user_id) DO UPDATE SET
				preferences = insight_user_memory.preferences || EXCLUDED.preferences,
				last_updated = NOW()`
	case models.MemoryTypeFinding:
		query = `
			INSERT INTO insight_user_memory (user_id, summary, preferences, findings, last_updated)
			VALUES ($1, '', '{}', $2, NOW())
			ON CONFLICT (user_id) DO UPDATE SET
				findings = insight_user_memory.findings || EXCLUDED.findings,
				last_updated = NOW()`
	case models.MemoryTypeContext:
		query = `
			INSERT INTO insight_user_memory (user_id, summary, preferences, findings, last_updated)
			VALUES ($1, $2, '{}', '{}', NOW())
			ON CONFLICT (user_id) DO UPDATE SET
				summary = EXCLUDED.summary,
				last_updated = NOW()`
		args = []any{userID, value}
	default:
		return fmt.Errorf("%w: %s", domain.ErrInvalidMemoryType, memoryType)
	}

	_, err = r.conn(ctx).Exec(ctx, query, args...)
	return err
}

// Reset removes all durable memory for a user, including past analyses.
func (r *MemoryRepository) Reset(ctx context.Context, userID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM insight_user_memory WHERE user_id = $1`, userID); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM insight_past_analyses WHERE user_id = $1`, userID)
	return err
}

func (r *MemoryRepository) PastAnalyses(ctx context.Context, userID string, limit int) ([]models.PastAnalysis, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT session_id, summary, topics, created_at
		FROM insight_past_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.conn(ctx).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []models.PastAnalysis
	for rows.Next() {
		var analysis models.PastAnalysis
		var topics []byte
		if err := rows.Scan(&analysis.SessionID, &analysis.Summary, &topics, &analysis.CreatedAt); err != nil {
			return nil, err
		}
		if analysis.Topics, err = unmarshalJSONSlice[string](topics); err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	return analyses, rows.Err()
}

func (r *MemoryRepository) SavePastAnalysis(ctx context.Context, userID string, analysis models.PastAnalysis) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	topics, err := marshalJSONSlice(analysis.Topics)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO insight_past_analyses (session_id, user_id, summary, topics, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET
			summary = EXCLUDED.summary,
			topics = EXCLUDED.topics`

	_, err = r.conn(ctx).Exec(ctx, query,
		analysis.SessionID,
		userID,
		analysis.Summary,
		topics,
		analysis.CreatedAt,
	)
	return err
}
