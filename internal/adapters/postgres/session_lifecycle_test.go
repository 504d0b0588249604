package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/insightlabs/insight/internal/domain"
	"github.com/insightlabs/insight/internal/domain/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupIntegrationDB connects to the database named by TEST_DATABASE_URL,
// runs migrations and removes leftover is_test rows. Tests that call it
// are skipped when the variable is unset.
func setupIntegrationDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration tests")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, Migrate(context.Background(), pool, 768))

	cleanup := func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM insight_sessions WHERE id LIKE 'is_test_%'`)
	}
	cleanup()
	t.Cleanup(func() {
		cleanup()
		pool.Close()
	})

	return pool
}

func TestSessionLifecycle(t *testing.T) {
	pool := setupIntegrationDB(t)
	ctx := context.Background()

	sessions := NewSessionRepository(pool)
	messages := NewMessageRepository(pool)

	session := models.NewSession("is_test_lifecycle", "test-user", "Quarterly revenue review")
	require.NoError(t, sessions.Create(ctx, session), "Failed to create session")

	fetched, err := sessions.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "test-user", fetched.UserID)
	assert.Equal(t, "Quarterly revenue review", fetched.Title)

	// Sequence numbers are assigned by the database, gapless per session.
	first := models.NewUserMessage("im_test_1", session.ID, "show revenue by region")
	require.NoError(t, messages.Append(ctx, first))
	second := models.NewAssistantMessage("im_test_2", session.ID, "Revenue is strongest in the North region.")
	require.NoError(t, messages.Append(ctx, second))

	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, 2, second.Sequence)

	recent, err := messages.ListRecent(ctx, session.ID, 20)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, models.MessageRoleUser, recent[0].Role)
	assert.Equal(t, models.MessageRoleAssistant, recent[1].Role)

	require.NoError(t, sessions.Touch(ctx, session.ID))
	touched, err := sessions.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, touched.UpdatedAt.Before(fetched.UpdatedAt), "Touch should advance updated_at")

	listed, err := sessions.ListByUser(ctx, "test-user", 10)
	require.NoError(t, err)
	found := false
	for _, s := range listed {
		if s.ID == session.ID {
			found = true
		}
	}
	assert.True(t, found, "ListByUser should include the session")

	// Deleting the session cascades to its messages.
	require.NoError(t, sessions.Delete(ctx, session.ID))

	_, err = sessions.GetByID(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	count, err := messages.CountBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "Messages should be deleted with the session")
}

func TestSessionLifecycle_TouchMissing(t *testing.T) {
	pool := setupIntegrationDB(t)

	sessions := NewSessionRepository(pool)
	err := sessions.Touch(context.Background(), "is_test_missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
