package postgres

import (
	"context"

	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	BaseRepository
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		BaseRepository: NewBaseRepository(pool),
	}
}

// Append persists a message at the next sequence position for its
// session and fills in the assigned sequence number.
func (r *MessageRepository) Append(ctx context.Context, message *models.Message) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	calls, err := marshalJSONSlice(message.Calls)
	if err != nil {
		return err
	}
	results, err := marshalJSONSlice(message.Results)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO insight_messages (
			id, session_id, sequence, role, content, capability_calls, capability_results, created_at
		) VALUES (
			$1, $2,
			(SELECT COALESCE(MAX(sequence), 0) + 1 FROM insight_messages WHERE session_id = $2),
			$3, $4, $5, $6, $7
		)
		RETURNING sequence`

	return r.conn(ctx).QueryRow(ctx, query,
		message.ID,
		message.SessionID,
		string(message.Role),
		message.Content,
		calls,
		results,
		message.CreatedAt,
	).Scan(&message.Sequence)
}

// ListRecent returns the last limit messages of a session in
// chronological order.
func (r *MessageRepository) ListRecent(ctx context.Context, sessionID string, limit int) ([]*models.Message, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, session_id, sequence, role, content, capability_calls, capability_results, created_at
		FROM (
			SELECT id, session_id, sequence, role, content, capability_calls, capability_results, created_at
			FROM insight_messages
			WHERE session_id = $1
			ORDER BY sequence DESC
			LIMIT $2
		) recent
		ORDER BY sequence ASC`

	rows, err := r.conn(ctx).Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var msg models.Message
		var role string
		var calls, results []byte

		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Sequence, &role, &msg.Content, &calls, &results, &msg.CreatedAt); err != nil {
			return nil, err
		}

		msg.Role = models.MessageRole(role)
		if msg.Calls, err = unmarshalJSONSlice[models.CapabilityCall](calls); err != nil {
			return nil, err
		}
		if msg.Results, err = unmarshalJSONSlice[models.CapabilityResult](results); err != nil {
			return nil, err
		}

		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

func (r *MessageRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM insight_messages WHERE session_id = $1`, sessionID,
	).Scan(&count)
	return count, err
}
