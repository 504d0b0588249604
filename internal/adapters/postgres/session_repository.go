package postgres

import (
	"context"
	"database/sql"

	"github.com/insightlabs/insight/internal/domain"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(pool),
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO insight_sessions (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.conn(ctx).Exec(ctx, query,
		session.ID,
		session.UserID,
		nullString(session.Title),
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM insight_sessions
		WHERE id = $1`

	var session models.Session
	var title sql.NullString

	err := r.conn(ctx).QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&title,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if checkNoRows(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	session.Title = getString(title)
	return &session, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Session, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM insight_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2`

	rows, err := r.conn(ctx).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		var session models.Session
		var title sql.NullString
		if err := rows.Scan(&session.ID, &session.UserID, &title, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		session.Title = getString(title)
		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}

func (r *SessionRepository) Touch(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE insight_sessions SET updated_at = NOW() WHERE id = $1`

	tag, err := r.conn(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM insight_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
